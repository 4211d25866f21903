package transaction

import (
	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
)

// Transaction is an invoke transaction sent by an account contract.
type Transaction struct {
	SenderAddress felt.Felt   `json:"sender_address" yaml:"sender_address" validate:"felt_nonzero"`
	Calldata      []felt.Felt `json:"calldata" yaml:"calldata"`
	Nonce         felt.Felt   `json:"nonce" yaml:"nonce"`
	Version       uint64      `json:"version" yaml:"version" validate:"oneof=1 3"`
	Signature     []felt.Felt `json:"signature" yaml:"signature"`
}

// FeeType is STRK for version 3 transactions and ETH before that.
func (t *Transaction) FeeType() api.FeeType {
	if t.Version >= 3 {
		return api.FeeTypeSTRK
	}
	return api.FeeTypeETH
}
