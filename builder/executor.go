package builder

import (
	"errors"

	"github.com/NethermindEth/blockifier/transaction"
	"github.com/NethermindEth/blockifier/utils"
)

type Executor interface {
	RunTxns(*BuildState, []*transaction.Transaction) error
	Finish(*BuildState) (*BuildResult, error)
}

type executor struct {
	log         utils.SimpleLogger
	txnExecutor *transaction.Executor
	listener    EventListener
}

// NewExecutor returns an Executor reporting to listener, which may be nil.
func NewExecutor(txnExecutor *transaction.Executor, listener EventListener, log utils.SimpleLogger) Executor {
	if listener == nil {
		listener = &SelectiveListener{}
	}
	return &executor{
		log:         log,
		txnExecutor: txnExecutor,
		listener:    listener,
	}
}

// RunTxns applies txns in order to the block's state. Transactions failing
// with a fatal error are excluded from the block and leave no trace in the
// state; any other error stops the run.
func (e *executor) RunTxns(buildState *BuildState, txns []*transaction.Transaction) error {
	for _, txn := range txns {
		index := buildState.seen
		buildState.seen++

		info, err := e.txnExecutor.Execute(buildState.State, txn)
		if err != nil {
			var fatal *transaction.FatalError
			if !errors.As(err, &fatal) {
				return err
			}

			e.log.Warnw("Transaction excluded from block", "index", index, "sender", &txn.SenderAddress,
				"kind", fatal.Kind, "phase", fatal.FailedIn, "err", fatal.Err)
			buildState.Rejected = append(buildState.Rejected, &Rejection{
				Index: index,
				Txn:   txn,
				Kind:  fatal.Kind,
				Err:   err,
			})
			e.listener.OnTxnRejected(fatal.Kind)
			continue
		}

		if info.Reverted {
			e.log.Infow("Transaction reverted", "index", index, "sender", &txn.SenderAddress, "reason", info.RevertError)
		}
		buildState.StepsConsumed += info.Resources.NSteps
		buildState.Receipts = append(buildState.Receipts, &Receipt{
			Index: index,
			Txn:   txn,
			Info:  info,
		})
		e.listener.OnTxnExecuted(info)
	}
	return nil
}

// Finish computes the diff of the block.
func (e *executor) Finish(buildState *BuildState) (*BuildResult, error) {
	diff, err := buildState.State.StateDiff()
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		BlockInfo:     e.txnExecutor.BlockContext().BlockInfo,
		Receipts:      buildState.Receipts,
		Rejected:      buildState.Rejected,
		StateDiff:     diff,
		StepsConsumed: buildState.StepsConsumed,
	}
	e.log.Infow("Block finalised", "number", result.BlockInfo.BlockNumber, "txns", len(result.Receipts),
		"reverted", result.RevertedCount(), "rejected", len(result.Rejected), "diffLength", diff.Length())
	e.listener.OnBlockFinalised(result)
	return result, nil
}
