package transaction_test

import (
	"testing"

	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallContractCalldata(t *testing.T) {
	call := transaction.Call{
		To:       felt.FromUint64(0x100),
		Selector: felt.FromUint64(0x200),
		Calldata: []felt.Felt{felt.FromUint64(1), felt.FromUint64(2)},
	}

	calldata := transaction.EncodeCallContractCalldata(call)
	assert.Equal(t, []felt.Felt{call.To, call.Selector, felt.FromUint64(2), felt.FromUint64(1), felt.FromUint64(2)}, calldata)
	assert.Equal(t, call.Calldata, calldata[transaction.CallContractCalldataIndex:])

	decoded, err := transaction.DecodeCallContractCalldata(calldata)
	require.NoError(t, err)
	assert.Equal(t, call, decoded)
}

func TestDecodeMalformedCallContractCalldata(t *testing.T) {
	to := felt.FromUint64(0x100)
	tests := map[string][]felt.Felt{
		"empty":         nil,
		"missing len":   {to, to},
		"len too large": {to, to, felt.FromUint64(3), felt.One},
		"len too small": {to, to, felt.Zero, felt.One},
	}

	for name, calldata := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := transaction.DecodeCallContractCalldata(calldata)
			require.ErrorIs(t, err, transaction.ErrMalformedCalldata)
		})
	}
}
