// Package metrics exposes the state, database and block-building listeners
// as prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/NethermindEth/blockifier/builder"
	"github.com/NethermindEth/blockifier/db"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/transaction"
	"github.com/prometheus/client_golang/prometheus"
)

// MakeStateMetrics counts CachedState reads per key space, split by whether
// they were served from the read cache.
func MakeStateMetrics(registerer prometheus.Registerer) state.EventListener {
	reads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "state",
		Name:      "reads",
		Help:      "CachedState reads by key space.",
	}, []string{"space", "cached"})
	registerer.MustRegister(reads)

	return &state.SelectiveListener{
		OnReadCb: func(space state.KeySpace, cached bool) {
			reads.WithLabelValues(space.String(), strconv.FormatBool(cached)).Inc()
		},
	}
}

func MakeDBMetrics(registerer prometheus.Registerer) db.EventListener {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "db",
		Name:      "ops",
		Help:      "Database operations.",
	}, []string{"op"})
	registerer.MustRegister(ops)

	return &db.SelectiveListener{
		OnIOCb: func(write bool) {
			if write {
				ops.WithLabelValues("write").Inc()
			} else {
				ops.WithLabelValues("read").Inc()
			}
		},
	}
}

func MakeBuilderMetrics(registerer prometheus.Registerer) builder.EventListener {
	txns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "builder",
		Name:      "txns",
		Help:      "Transactions offered to blocks by outcome.",
	}, []string{"outcome"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "builder",
		Name:      "rejected_txns",
		Help:      "Transactions excluded from blocks by fatal kind.",
	}, []string{"kind"})
	steps := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "builder",
		Name:      "txn_steps",
		Help:      "Steps charged per included transaction.",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 10),
	})
	blocks := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "builder",
		Name:      "blocks",
		Help:      "Finalised blocks.",
	})
	diffLength := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "builder",
		Name:      "state_diff_length",
		Help:      "Length of the last finalised block diff.",
	})
	registerer.MustRegister(txns, rejections, steps, blocks, diffLength)

	return &builder.SelectiveListener{
		OnTxnExecutedCb: func(info *transaction.ExecutionInfo) {
			if info.Reverted {
				txns.WithLabelValues("reverted").Inc()
			} else {
				txns.WithLabelValues("committed").Inc()
			}
			steps.Observe(float64(info.Resources.NSteps))
		},
		OnTxnRejectedCb: func(kind transaction.FatalKind) {
			txns.WithLabelValues("rejected").Inc()
			rejections.WithLabelValues(kind.String()).Inc()
		},
		OnBlockFinalisedCb: func(result *builder.BuildResult) {
			blocks.Inc()
			diffLength.Set(float64(result.StateDiff.Length()))
		},
	}
}
