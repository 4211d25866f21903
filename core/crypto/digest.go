package crypto

import "github.com/NethermindEth/blockifier/core/felt"

type Digest interface {
	Update(...*felt.Felt) Digest
	Finish() *felt.Felt
}
