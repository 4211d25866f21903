package transaction

import (
	"fmt"

	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
)

// Phase is the stage a transaction has reached in the executor.
type Phase uint8

const (
	PhaseInit Phase = iota
	PhaseValidating
	PhaseExecuting
	PhaseChargingFee
	PhaseCommitted
	PhaseReverted
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseValidating:
		return "validating"
	case PhaseExecuting:
		return "executing"
	case PhaseChargingFee:
		return "charging fee"
	case PhaseCommitted:
		return "committed"
	case PhaseReverted:
		return "reverted"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ExecutionInfo is the outcome of a transaction that made it into the block,
// reverted or not.
type ExecutionInfo struct {
	ValidateCallInfo *CallInfo
	ExecuteCallInfo  *CallInfo
	ActualFee        felt.Felt
	FeeType          api.FeeType
	Reverted         bool
	RevertError      string
	Resources        TransactionResources
	// StateDiff is the diff of the whole CachedState once the transaction is applied.
	StateDiff *state.StateDiff
	Phase     Phase
}
