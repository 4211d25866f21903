// Package abi derives Starknet storage-variable addresses, entry-point selectors
// and contract addresses.
package abi

import (
	"math/big"

	"github.com/NethermindEth/blockifier/core/crypto"
	"github.com/NethermindEth/blockifier/core/felt"
)

const (
	balancesVarName        = "ERC20_balances"
	permittedMinterVarName = "permitted_minter"
	defaultEntryPointName  = "__default__"
	l1DefaultEntryPoint    = "__l1_default__"
)

// addressBound is 2**251 - 256, the exclusive upper bound of storage addresses.
var addressBound = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 251), big.NewInt(256))

var contractAddressPrefix = new(felt.Felt).SetBytes([]byte("STARKNET_CONTRACT_ADDRESS"))

// StorageVarAddress returns the storage key of the Cairo storage variable name
// indexed by args: pedersen(sn_keccak(name), args...) reduced below addressBound.
func StorageVarAddress(name string, args ...*felt.Felt) felt.Felt {
	res := crypto.StarknetKeccak([]byte(name))
	for _, arg := range args {
		res = crypto.Pedersen(res, arg)
	}

	v := res.BigInt(new(big.Int))
	v.Mod(v, addressBound)

	var key felt.Felt
	key.SetBytes(v.Bytes())
	return key
}

// FeeTokenBalanceKey is the storage key holding the balance of account in an ERC20 fee token.
func FeeTokenBalanceKey(account *felt.Felt) felt.Felt {
	return StorageVarAddress(balancesVarName, account)
}

// PermittedMinterKey is the storage key of the minter account of an ERC20 fee token.
func PermittedMinterKey() felt.Felt {
	return StorageVarAddress(permittedMinterVarName)
}

// SelectorFromName returns the entry-point selector of the named function.
func SelectorFromName(name string) felt.Felt {
	if name == defaultEntryPointName || name == l1DefaultEntryPoint {
		return felt.Zero
	}
	return *crypto.StarknetKeccak([]byte(name))
}

// ContractAddress computes the address of a contract deployed by callerAddress.
//
// https://docs.starknet.io/documentation/architecture_and_concepts/Contracts/contract-address
func ContractAddress(callerAddress, classHash, salt *felt.Felt, constructorCallData []*felt.Felt) felt.Felt {
	callDataHash := crypto.PedersenArray(constructorCallData...)
	return *crypto.PedersenArray(
		contractAddressPrefix,
		callerAddress,
		salt,
		classHash,
		callDataHash,
	)
}
