package transaction

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/utils"
)

// Executor runs transactions against a CachedState. A transaction either
// lands in the state, with its execute phase possibly reverted, or fails with
// a *FatalError and leaves the state exactly as it found it.
type Executor struct {
	blockContext *api.BlockContext
	dispatcher   Dispatcher
	feeModule    FeeModule
	flags        api.ExecutionFlags
	log          utils.SimpleLogger
}

func NewExecutor(blockContext *api.BlockContext, dispatcher Dispatcher, feeModule FeeModule,
	flags api.ExecutionFlags, log utils.SimpleLogger,
) *Executor {
	return &Executor{
		blockContext: blockContext,
		dispatcher:   dispatcher,
		feeModule:    feeModule,
		flags:        flags,
		log:          log,
	}
}

func (e *Executor) BlockContext() *api.BlockContext {
	return e.blockContext
}

// Execute runs txn on cs.
//
// The nonce bump and validation happen under an outer checkpoint. Execution
// runs under a nested checkpoint that alone is aborted when the account's
// __execute__ fails. The fee is computed from the changes made under the
// outer checkpoint and debited from the sender afterwards.
func (e *Executor) Execute(cs *state.CachedState, txn *Transaction) (*ExecutionInfo, error) {
	run := &pipeline{
		Executor: e,
		cs:       cs,
		txn:      txn,
		info: &ExecutionInfo{
			FeeType: txn.FeeType(),
			Phase:   PhaseInit,
		},
	}

	info, err := run.run()
	if err != nil {
		e.log.Debugw("Transaction rejected", "sender", &txn.SenderAddress, "nonce", &txn.Nonce, "err", err)
		return nil, err
	}

	e.log.Debugw("Transaction executed", "sender", &txn.SenderAddress, "nonce", &txn.Nonce,
		"reverted", info.Reverted, "fee", &info.ActualFee, "feeType", info.FeeType)
	return info, nil
}

type pipeline struct {
	*Executor
	cs   *state.CachedState
	txn  *Transaction
	info *ExecutionInfo
	// open holds the checkpoints the pipeline opened, innermost last.
	open []state.Checkpoint
}

func (p *pipeline) run() (*ExecutionInfo, error) {
	p.begin()

	p.info.Phase = PhaseValidating
	if p.flags.Validate {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	if err := p.cs.IncrementNonce(&p.txn.SenderAddress); err != nil {
		return nil, p.fatal(fatalKindOf(err), err)
	}

	p.begin()
	p.info.Phase = PhaseExecuting
	if err := p.execute(); err != nil {
		return nil, err
	}

	p.info.Phase = PhaseChargingFee
	if p.flags.ChargeFee {
		if err := p.chargeFee(); err != nil {
			return nil, err
		}
	}

	diff, err := p.cs.StateDiff()
	if err != nil {
		return nil, p.fatal(fatalKindOf(err), err)
	}
	p.info.StateDiff = diff

	if err = p.close(); err != nil {
		return nil, err
	}

	p.info.Phase = PhaseCommitted
	return p.info, nil
}

func (p *pipeline) validate() error {
	nonce, err := p.cs.ContractNonce(&p.txn.SenderAddress)
	if err != nil {
		return p.fatal(fatalKindOf(err), err)
	}
	if !nonce.Equal(&p.txn.Nonce) {
		return p.fatal(FatalValidationFailed,
			fmt.Errorf("%w: account nonce %s, transaction nonce %s", ErrInvalidNonce, &nonce, &p.txn.Nonce))
	}

	callInfo, err := p.callAccount(ValidateEntryPointSelector, ExecutionModeValidate)
	if err != nil {
		return p.fatal(fatalKindOf(err), err)
	}
	if callInfo.Execution.Failed {
		return p.fatal(FatalValidationFailed, errors.New(callInfo.RevertReason()))
	}
	if maxSteps := p.blockContext.VersionedConstants.ValidateMaxNSteps; callInfo.TotalSteps() > maxSteps {
		return p.fatal(FatalValidationFailed,
			fmt.Errorf("validation took %d steps, the limit is %d", callInfo.TotalSteps(), maxSteps))
	}

	p.info.ValidateCallInfo = callInfo
	return nil
}

func (p *pipeline) execute() error {
	callInfo, err := p.callAccount(ExecuteEntryPointSelector, ExecutionModeExecute)
	if err != nil {
		return p.fatal(fatalKindOf(err), err)
	}
	p.info.ExecuteCallInfo = callInfo

	if callInfo.Execution.Failed {
		if err = p.abortTop(); err != nil {
			return p.fatal(FatalInvalidCheckpoint, err)
		}
		p.info.Reverted = true
		p.info.RevertError = callInfo.RevertReason()
	}
	return nil
}

func (p *pipeline) chargeFee() error {
	changes, err := p.cs.ChangesSince(p.open[0])
	if err != nil {
		return p.fatal(fatalKindOf(err), err)
	}

	p.info.Resources = TransactionResources{
		FeeType:      p.info.FeeType,
		NSteps:       p.info.ValidateCallInfo.TotalSteps() + p.info.ExecuteCallInfo.TotalSteps(),
		StateChanges: changes,
	}
	fee, err := p.feeModule.ActualFee(&p.info.Resources, p.blockContext)
	if err != nil {
		return p.fatal(FatalStateRead, err)
	}
	p.info.ActualFee = fee
	if fee.IsZero() {
		return nil
	}

	cell := p.feeModule.BalanceCell(p.blockContext, p.info.FeeType, &p.txn.SenderAddress)
	balance, err := p.cs.ContractStorage(&cell.ContractAddress, &cell.Key)
	if err != nil {
		return p.fatal(fatalKindOf(err), err)
	}
	if balance.Cmp(&fee) < 0 {
		return p.fatal(FatalInsufficientBalance,
			fmt.Errorf("%w: balance %s, fee %s", ErrInsufficientBalance, &balance, &fee))
	}

	var remaining felt.Felt
	remaining.Sub(&balance, &fee)
	p.cs.SetStorage(&cell.ContractAddress, &cell.Key, &remaining)
	return nil
}

func (p *pipeline) callAccount(selector felt.Felt, mode ExecutionMode) (*CallInfo, error) {
	call := &CallEntryPoint{
		EntryPointType:     state.External,
		EntryPointSelector: selector,
		Calldata:           p.txn.Calldata,
		StorageAddress:     p.txn.SenderAddress,
		CallType:           CallTypeCall,
	}
	ctx := NewEntryPointExecutionContext(p.cs, p.blockContext, p.txn, mode, p.dispatcher)
	return call.Execute(ctx)
}

func (p *pipeline) begin() {
	p.open = append(p.open, p.cs.Begin())
}

func (p *pipeline) abortTop() error {
	top := p.open[len(p.open)-1]
	p.open = p.open[:len(p.open)-1]
	return p.cs.Abort(top)
}

// close commits the open checkpoints, or aborts them for queries.
func (p *pipeline) close() error {
	for len(p.open) > 0 {
		top := p.open[len(p.open)-1]
		p.open = p.open[:len(p.open)-1]

		closeFn := p.cs.Commit
		if p.flags.OnlyQuery {
			closeFn = p.cs.Abort
		}
		if err := closeFn(top); err != nil {
			return p.fatal(FatalInvalidCheckpoint, err)
		}
	}
	return nil
}

// fatal aborts every checkpoint still open, innermost first, and wraps err.
// The transaction ends in PhaseReverted; FailedIn keeps the phase that failed.
func (p *pipeline) fatal(kind FatalKind, err error) error {
	for len(p.open) > 0 {
		if abortErr := p.abortTop(); abortErr != nil {
			err = errors.Join(err, abortErr)
			kind = FatalInvalidCheckpoint
			break
		}
	}
	failedIn := p.info.Phase
	p.info.Phase = PhaseReverted
	return &FatalError{
		Kind:     kind,
		Phase:    PhaseReverted,
		FailedIn: failedIn,
		Err:      err,
	}
}
