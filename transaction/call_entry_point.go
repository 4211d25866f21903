package transaction

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
)

// CallType represents the type of call, regular, or delegate
type CallType uint8

const (
	CallTypeCall CallType = iota
	CallTypeDelegate
)

func (c CallType) String() string {
	switch c {
	case CallTypeCall:
		return "CALL"
	case CallTypeDelegate:
		return "DELEGATE"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ExecutionMode tells contracts whether they run as part of validation.
type ExecutionMode uint8

const (
	ExecutionModeExecute ExecutionMode = iota
	ExecutionModeValidate
)

func (m ExecutionMode) String() string {
	switch m {
	case ExecutionModeExecute:
		return "execute"
	case ExecutionModeValidate:
		return "validate"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

//go:generate mockgen -destination=../mocks/mock_dispatcher.go -package=mocks github.com/NethermindEth/blockifier/transaction Dispatcher
type Dispatcher interface {
	// Execute runs the entry point of class selected by call. A contract-level
	// failure is reported through CallExecution.Failed; a returned error aborts
	// the whole transaction.
	Execute(call *CallEntryPoint, class *state.CompiledClass, syscalls SyscallHandler) (CallExecution, error)
}

type CallEntryPoint struct {
	// ClassHash is nil when the class is deduced from the storage address.
	ClassHash *felt.Felt
	// CodeAddress is nil for library calls and for calls made by the transaction itself.
	CodeAddress *felt.Felt

	EntryPointType     state.EntryPointType
	EntryPointSelector felt.Felt
	Calldata           []felt.Felt
	StorageAddress     felt.Felt
	CallerAddress      felt.Felt
	CallType           CallType
}

// EntryPointExecutionContext is shared by every frame of one transaction phase.
type EntryPointExecutionContext struct {
	State        *state.CachedState
	BlockContext *api.BlockContext
	Tx           *Transaction
	Mode         ExecutionMode
	Dispatcher   Dispatcher

	currentRecursionDepth uint64
}

func NewEntryPointExecutionContext(cs *state.CachedState, blockContext *api.BlockContext, txn *Transaction,
	mode ExecutionMode, dispatcher Dispatcher,
) *EntryPointExecutionContext {
	return &EntryPointExecutionContext{
		State:        cs,
		BlockContext: blockContext,
		Tx:           txn,
		Mode:         mode,
		Dispatcher:   dispatcher,
	}
}

// RecursionDepthGuard ensures that the recursion depth does not exceed the maximum allowed depth.
type RecursionDepthGuard struct {
	currentDepth *uint64
	maxDepth     uint64
}

func NewRecursionDepthGuard(currentDepth *uint64, maxDepth uint64) *RecursionDepthGuard {
	return &RecursionDepthGuard{
		currentDepth: currentDepth,
		maxDepth:     maxDepth,
	}
}

// TryIncrementAndCheckDepth tries to increment the current recursion depth and returns an error
// if the maximum depth would be exceeded.
func (g *RecursionDepthGuard) TryIncrementAndCheckDepth() error {
	if *g.currentDepth >= g.maxDepth {
		return fmt.Errorf("recursion depth exceeded: %d > %d", *g.currentDepth+1, g.maxDepth)
	}
	*g.currentDepth++
	return nil
}

func (g *RecursionDepthGuard) Release() {
	*g.currentDepth--
}

// Execute runs the call inside its own checkpoint, which is committed if the
// call succeeds and aborted if it fails. Failures of the called contract are
// returned as a failed CallInfo; errors abort the transaction.
func (c *CallEntryPoint) Execute(ctx *EntryPointExecutionContext) (*CallInfo, error) {
	guard := NewRecursionDepthGuard(&ctx.currentRecursionDepth, uint64(ctx.BlockContext.VersionedConstants.MaxRecursionDepth))
	if err := guard.TryIncrementAndCheckDepth(); err != nil {
		return c.failed(recursionDepthExceeded), nil
	}
	defer guard.Release()

	cp := ctx.State.Begin()
	callInfo, err := c.execute(ctx)
	if err != nil || callInfo.Execution.Failed {
		if abortErr := ctx.State.Abort(cp); abortErr != nil {
			return nil, errors.Join(err, abortErr)
		}
		return callInfo, err
	}

	if err = ctx.State.Commit(cp); err != nil {
		return nil, err
	}
	return callInfo, nil
}

func (c *CallEntryPoint) execute(ctx *EntryPointExecutionContext) (*CallInfo, error) {
	storageClassHash, err := ctx.State.ContractClassHash(&c.StorageAddress)
	if err != nil {
		return nil, err
	}

	classHash := c.ClassHash
	if classHash == nil {
		if storageClassHash.IsZero() {
			return c.failed(uninitializedStorage), nil
		}
		classHash = &storageClassHash
	}

	class, err := ctx.State.CompiledClass(classHash)
	if err != nil {
		return nil, err
	}

	if !class.HasEntryPoint(c.EntryPointType, &c.EntryPointSelector) {
		return c.failed(entryPointNotFound), nil
	}

	syscalls := newSyscallHandler(ctx, c)
	execution, err := ctx.Dispatcher.Execute(c, class, syscalls)
	if err != nil {
		return nil, err
	}

	return &CallInfo{
		Call:       *c,
		Execution:  execution,
		InnerCalls: syscalls.innerCalls,
	}, nil
}

func (c *CallEntryPoint) failed(reason felt.Felt) *CallInfo {
	return &CallInfo{
		Call: *c,
		Execution: CallExecution{
			Retdata: []felt.Felt{reason},
			Failed:  true,
		},
	}
}
