package crypto

import (
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/ethereum/go-ethereum/crypto"
)

// StarknetKeccak implements [Starknet keccak]: keccak256 truncated to 250 bits.
//
// [Starknet keccak]: https://docs.starknet.io/documentation/develop/Hashing/hash-functions/#starknet_keccak
func StarknetKeccak(b []byte) *felt.Felt {
	d := crypto.Keccak256(b)
	// Remove the first 6 bits from the first byte
	d[0] &= 3
	return new(felt.Felt).SetBytes(d)
}
