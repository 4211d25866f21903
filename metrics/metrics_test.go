package metrics_test

import (
	"strings"
	"testing"

	"github.com/NethermindEth/blockifier/builder"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/db/memory"
	"github.com/NethermindEth/blockifier/metrics"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/state/dictreader"
	"github.com/NethermindEth/blockifier/transaction"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	cs := state.NewCachedState(dictreader.New()).WithListener(metrics.MakeStateMetrics(registry))

	addr := felt.FromUint64(1)
	for i := 0; i < 3; i++ {
		_, err := cs.ContractStorage(&addr, &addr)
		require.NoError(t, err)
	}

	expected := `
		# HELP state_reads CachedState reads by key space.
		# TYPE state_reads counter
		state_reads{cached="false",space="storage"} 1
		state_reads{cached="true",space="storage"} 2
	`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "state_reads"))
}

func TestDBMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	store := memory.New().WithListener(metrics.MakeDBMetrics(registry))

	require.NoError(t, store.Put([]byte("k"), []byte("v")))
	require.NoError(t, store.Get([]byte("k"), func([]byte) error { return nil }))

	count, err := testutil.GatherAndCount(registry, "db_ops")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBuilderMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	listener := metrics.MakeBuilderMetrics(registry)

	listener.OnTxnExecuted(&transaction.ExecutionInfo{Resources: transaction.TransactionResources{NSteps: 35}})
	listener.OnTxnExecuted(&transaction.ExecutionInfo{Reverted: true})
	listener.OnTxnRejected(transaction.FatalInsufficientBalance)

	diff := state.NewStateDiff()
	diff.Nonces[felt.One] = felt.One
	listener.OnBlockFinalised(&builder.BuildResult{StateDiff: diff})

	expected := `
		# HELP builder_txns Transactions offered to blocks by outcome.
		# TYPE builder_txns counter
		builder_txns{outcome="committed"} 1
		builder_txns{outcome="rejected"} 1
		builder_txns{outcome="reverted"} 1
		# HELP builder_rejected_txns Transactions excluded from blocks by fatal kind.
		# TYPE builder_rejected_txns counter
		builder_rejected_txns{kind="insufficient balance"} 1
		# HELP builder_state_diff_length Length of the last finalised block diff.
		# TYPE builder_state_diff_length gauge
		builder_state_diff_length 1
		# HELP builder_blocks Finalised blocks.
		# TYPE builder_blocks counter
		builder_blocks 1
	`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"builder_txns", "builder_rejected_txns", "builder_state_diff_length", "builder_blocks"))
	count, err := testutil.GatherAndCount(registry, "builder_txn_steps")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
