package transaction

import (
	"fmt"
	"math/bits"

	"github.com/NethermindEth/blockifier/abi"
	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
)

// TransactionResources is what a transaction is charged for.
type TransactionResources struct {
	FeeType      api.FeeType
	NSteps       uint64
	StateChanges state.StateChanges
}

//go:generate mockgen -destination=../mocks/mock_fee_module.go -package=mocks github.com/NethermindEth/blockifier/transaction FeeModule
type FeeModule interface {
	ActualFee(resources *TransactionResources, blockContext *api.BlockContext) (felt.Felt, error)
	// BalanceCell is the storage cell holding account's balance of the fee token.
	BalanceCell(blockContext *api.BlockContext, feeType api.FeeType, account *felt.Felt) state.StorageEntry
}

// LinearFeeModule charges gas price times a weighted sum of steps, written
// storage cells and modified contracts.
type LinearFeeModule struct{}

var _ FeeModule = LinearFeeModule{}

func (LinearFeeModule) ActualFee(resources *TransactionResources, blockContext *api.BlockContext) (felt.Felt, error) {
	costs := blockContext.VersionedConstants.FeeCosts
	gas := costs.Base
	terms := []struct{ weight, amount uint64 }{
		{costs.PerStorageCell, uint64(resources.StateChanges.StorageCells)},
		{costs.PerModifiedContract, uint64(resources.StateChanges.ModifiedContracts)},
		{costs.PerStep, resources.NSteps},
	}

	var err error
	for _, term := range terms {
		if gas, err = mulAdd(gas, term.weight, term.amount); err != nil {
			return felt.Zero, err
		}
	}

	fee, err := mulAdd(0, gas, blockContext.BlockInfo.GasPrices.For(resources.FeeType))
	if err != nil {
		return felt.Zero, err
	}
	return felt.FromUint64(fee), nil
}

func (LinearFeeModule) BalanceCell(blockContext *api.BlockContext, feeType api.FeeType,
	account *felt.Felt,
) state.StorageEntry {
	return state.StorageEntry{
		ContractAddress: blockContext.FeeTokenAddress(feeType),
		Key:             abi.FeeTokenBalanceKey(account),
	}
}

// mulAdd returns acc + a*b.
func mulAdd(acc, a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	sum, carry := bits.Add64(acc, lo, 0)
	if hi != 0 || carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d * %d", ErrFeeOverflow, acc, a, b)
	}
	return sum, nil
}
