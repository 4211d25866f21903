package builder

import (
	"github.com/NethermindEth/blockifier/db"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/state/snapshot"
	"github.com/NethermindEth/blockifier/transaction"
	"github.com/NethermindEth/blockifier/utils"
)

// Builder builds blocks on top of the state committed in a database and
// commits each block's diff once it is finished.
type Builder struct {
	database db.KeyValueStore
	executor Executor

	stateListener state.EventListener
	log           utils.SimpleLogger
}

func New(database db.KeyValueStore, txnExecutor *transaction.Executor, listener EventListener,
	log utils.SimpleLogger,
) *Builder {
	return &Builder{
		database: database,
		executor: NewExecutor(txnExecutor, listener, log),
		log:      log,
	}
}

// WithStateListener registers a listener on the CachedState of every block built.
func (b *Builder) WithStateListener(listener state.EventListener) *Builder {
	b.stateListener = listener
	return b
}

// BuildBlock executes txns against a snapshot of the committed state and
// writes the resulting diff and declared classes back to the database.
func (b *Builder) BuildBlock(txns []*transaction.Transaction) (*BuildResult, error) {
	var (
		buildState *BuildState
		result     *BuildResult
	)
	err := b.database.View(func(snap db.Snapshot) error {
		buildState = NewBuildState(snapshot.NewReader(snap))
		if b.stateListener != nil {
			buildState.State.WithListener(b.stateListener)
		}
		if err := b.executor.RunTxns(buildState, txns); err != nil {
			return err
		}

		var err error
		result, err = b.executor.Finish(buildState)
		return err
	})
	if err != nil {
		return nil, err
	}

	// every baseline the diff needs was read while the snapshot was open
	if err = b.database.Update(func(batch db.Batch) error {
		return snapshot.WriteCachedState(batch, buildState.State)
	}); err != nil {
		return nil, err
	}

	b.log.Debugw("Block committed", "number", result.BlockInfo.BlockNumber)
	return result, nil
}
