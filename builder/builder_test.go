package builder_test

import (
	"testing"

	"github.com/NethermindEth/blockifier/abi"
	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/builder"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/db"
	"github.com/NethermindEth/blockifier/db/pebble"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/state/dictreader"
	"github.com/NethermindEth/blockifier/state/snapshot"
	"github.com/NethermindEth/blockifier/testcontracts"
	"github.com/NethermindEth/blockifier/transaction"
	"github.com/NethermindEth/blockifier/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	account  = testcontracts.AccountWithoutValidationsCairo0.InstanceAddress(0)
	contract = testcontracts.TestContractCairo0.InstanceAddress(0)
)

func storeTxn(nonce uint64, selector string, key, value uint64) *transaction.Transaction {
	return &transaction.Transaction{
		SenderAddress: account,
		Nonce:         felt.FromUint64(nonce),
		Version:       1,
		Calldata: transaction.EncodeCallContractCalldata(transaction.Call{
			To:       contract,
			Selector: testcontracts.TestContractCairo0.Selector(selector),
			Calldata: []felt.Felt{felt.FromUint64(key), felt.FromUint64(value)},
		}),
	}
}

func genesis(blockContext *api.BlockContext) *dictreader.Reader {
	return testcontracts.InitialTestState(blockContext, 1_000_000,
		map[testcontracts.FeatureContract]uint16{testcontracts.TestContractCairo0: 1})
}

func newTxnExecutor(blockContext *api.BlockContext) *transaction.Executor {
	return transaction.NewExecutor(blockContext, testcontracts.Dispatcher{}, transaction.LinearFeeModule{},
		api.DefaultExecutionFlags(), utils.NewNopLogger())
}

func TestRunTxns(t *testing.T) {
	blockContext := testcontracts.BlockContext()

	var executed, finalised int
	rejected := make(map[transaction.FatalKind]int)
	listener := &builder.SelectiveListener{
		OnTxnExecutedCb:    func(*transaction.ExecutionInfo) { executed++ },
		OnTxnRejectedCb:    func(kind transaction.FatalKind) { rejected[kind]++ },
		OnBlockFinalisedCb: func(*builder.BuildResult) { finalised++ },
	}
	executor := builder.NewExecutor(newTxnExecutor(blockContext), listener, utils.NewNopLogger())

	buildState := builder.NewBuildState(genesis(blockContext))
	require.NoError(t, executor.RunTxns(buildState, []*transaction.Transaction{
		storeTxn(0, "test_storage_read_write", 1, 10),
		storeTxn(0, "test_storage_read_write", 2, 20), // stale nonce
		storeTxn(1, "write_and_revert", 3, 30),
	}))
	require.NoError(t, executor.RunTxns(buildState, []*transaction.Transaction{
		storeTxn(2, "test_storage_read_write", 4, 40),
	}))

	result, err := executor.Finish(buildState)
	require.NoError(t, err)

	assert.Equal(t, 3, executed)
	assert.Equal(t, map[transaction.FatalKind]int{transaction.FatalValidationFailed: 1}, rejected)
	assert.Equal(t, 1, finalised)

	require.Len(t, result.Receipts, 3)
	assert.Equal(t, []int{0, 2, 3}, []int{result.Receipts[0].Index, result.Receipts[1].Index, result.Receipts[2].Index})
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 1, result.Rejected[0].Index)
	require.ErrorIs(t, result.Rejected[0].Err, transaction.ErrInvalidNonce)
	assert.Equal(t, 1, result.RevertedCount())
	assert.Equal(t, uint64(testcontracts.BlockNumber), result.BlockInfo.BlockNumber)

	diff := result.StateDiff
	assert.Equal(t, felt.FromUint64(3), diff.Nonces[account])
	assert.Equal(t, map[felt.Felt]felt.Felt{
		felt.FromUint64(1): felt.FromUint64(10),
		felt.FromUint64(4): felt.FromUint64(40),
	}, diff.StorageDiffs[contract])

	fees := result.FeesCollected()
	var paid felt.Felt
	for _, receipt := range result.Receipts {
		paid.Add(&paid, &receipt.Info.ActualFee)
	}
	assert.Equal(t, paid, fees[api.FeeTypeETH])
	balanceKey := abi.FeeTokenBalanceKey(&account)
	remaining := felt.FromUint64(1_000_000)
	remaining.Sub(&remaining, &paid)
	assert.Equal(t, remaining, diff.StorageDiffs[testcontracts.ETHTokenAddress][balanceKey])
}

func TestBuildBlock(t *testing.T) {
	blockContext := testcontracts.BlockContext()
	database := pebble.NewMemTest(t)
	require.NoError(t, database.Update(func(b db.Batch) error {
		return snapshot.WriteGenesis(b, genesis(blockContext))
	}))

	b := builder.New(database, newTxnExecutor(blockContext), nil, utils.NewNopLogger())

	first, err := b.BuildBlock([]*transaction.Transaction{storeTxn(0, "test_storage_read_write", 1, 10)})
	require.NoError(t, err)
	require.Len(t, first.Receipts, 1)

	// the second block sees the committed nonce
	second, err := b.BuildBlock([]*transaction.Transaction{
		storeTxn(0, "test_storage_read_write", 1, 11),
		storeTxn(1, "test_storage_read_write", 1, 12),
	})
	require.NoError(t, err)
	require.Len(t, second.Receipts, 1)
	require.Len(t, second.Rejected, 1)
	assert.Equal(t, map[felt.Felt]felt.Felt{account: felt.FromUint64(2)}, second.StateDiff.Nonces)

	require.NoError(t, database.View(func(snap db.Snapshot) error {
		cs := state.NewCachedState(snapshot.NewReader(snap))
		key := felt.FromUint64(1)
		value, err := cs.ContractStorage(&contract, &key)
		require.NoError(t, err)
		assert.Equal(t, felt.FromUint64(12), value)

		nonce, err := cs.ContractNonce(&account)
		require.NoError(t, err)
		assert.Equal(t, felt.FromUint64(2), nonce)
		return nil
	}))
}

func TestBuildBlockEmpty(t *testing.T) {
	blockContext := testcontracts.BlockContext()
	b := builder.New(pebble.NewMemTest(t), newTxnExecutor(blockContext), nil, utils.NewNopLogger())

	result, err := b.BuildBlock(nil)
	require.NoError(t, err)
	assert.True(t, result.StateDiff.IsEmpty())
	assert.Empty(t, result.Receipts)
}
