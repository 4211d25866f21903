package builder

import (
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/transaction"
)

// Receipt records a transaction included in the block, reverted or not.
type Receipt struct {
	Index int
	Txn   *transaction.Transaction
	Info  *transaction.ExecutionInfo
}

// Rejection records a transaction excluded from the block.
type Rejection struct {
	Index int
	Txn   *transaction.Transaction
	Kind  transaction.FatalKind
	Err   error
}

// BuildState is the block under construction. It owns the CachedState every
// transaction of the block is applied to.
type BuildState struct {
	State         *state.CachedState
	Receipts      []*Receipt
	Rejected      []*Rejection
	StepsConsumed uint64
	// seen counts every transaction offered to the block.
	seen int
}

func NewBuildState(reader state.StateReader) *BuildState {
	return &BuildState{
		State: state.NewCachedState(reader),
	}
}

func (b *BuildState) TransactionCount() int {
	return len(b.Receipts)
}
