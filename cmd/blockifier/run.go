package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/builder"
	"github.com/NethermindEth/blockifier/db"
	"github.com/NethermindEth/blockifier/db/memory"
	"github.com/NethermindEth/blockifier/db/pebble"
	"github.com/NethermindEth/blockifier/metrics"
	"github.com/NethermindEth/blockifier/state/snapshot"
	"github.com/NethermindEth/blockifier/testcontracts"
	"github.com/NethermindEth/blockifier/transaction"
	"github.com/NethermindEth/blockifier/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Run replays the scenario at scenarioPath and writes one report per block to out.
func Run(ctx context.Context, config *Config, scenarioPath string, out io.Writer) (err error) {
	log, err := utils.NewZapLogger(config.LogLevel, config.Colour)
	if err != nil {
		return err
	}
	log.Debugw("Configuration", "config", config)

	scenario, err := loadScenarioFile(scenarioPath)
	if err != nil {
		return err
	}

	var constants *api.VersionedConstants
	if config.ConstantsFile != "" {
		if constants, err = api.LoadVersionedConstants(config.ConstantsFile); err != nil {
			return err
		}
	}

	database, err := openDB(config.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, database.Close())
	}()

	registry := prometheus.NewRegistry()
	database = database.WithListener(metrics.MakeDBMetrics(registry))
	stateListener := metrics.MakeStateMetrics(registry)
	blockListener := metrics.MakeBuilderMetrics(registry)

	if err = writeGenesis(database, scenario, constants, log); err != nil {
		return fmt.Errorf("write genesis: %w", err)
	}

	reports := make([]*BlockReport, 0, len(scenario.Blocks))
	for i := range scenario.Blocks {
		if err = ctx.Err(); err != nil {
			return err
		}

		blockContext, err := scenario.BlockContext(i, constants)
		if err != nil {
			return err
		}
		txns, err := scenario.Transactions(i)
		if err != nil {
			return err
		}

		txnExecutor := transaction.NewExecutor(blockContext, testcontracts.Dispatcher{},
			transaction.LinearFeeModule{}, scenario.Flags, log)
		result, err := builder.New(database, txnExecutor, blockListener, log).
			WithStateListener(stateListener).
			BuildBlock(txns)
		if err != nil {
			return fmt.Errorf("block %d: %w", blockContext.BlockInfo.BlockNumber, err)
		}

		log.Infow("Built block", "number", result.BlockInfo.BlockNumber, "txns", len(result.Receipts),
			"reverted", result.RevertedCount(), "rejected", len(result.Rejected), "steps", result.StepsConsumed)
		reports = append(reports, NewBlockReport(result))
	}

	if config.MetricsFile != "" {
		if err = prometheus.WriteToTextfile(config.MetricsFile, registry); err != nil {
			return err
		}
	}

	if config.Output == "json" {
		return WriteJSON(out, reports)
	}
	return WriteTable(out, reports)
}

// writeGenesis seeds an empty database with the scenario's genesis. A database
// that already holds a genesis keeps its state and the scenario's genesis is
// ignored.
func writeGenesis(database db.KeyValueStore, scenario *Scenario, constants *api.VersionedConstants,
	log utils.SimpleLogger,
) error {
	written, err := snapshot.HasGenesis(database)
	if err != nil {
		return err
	}
	if written {
		log.Infow("Database already initialised, skipping genesis")
		return nil
	}

	genesisContext, err := scenario.BlockContext(0, constants)
	if err != nil {
		return err
	}
	genesis := testcontracts.InitialTestState(genesisContext, scenario.Genesis.Balance, scenario.Genesis.Contracts)
	return database.Update(func(batch db.Batch) error {
		return snapshot.WriteGenesis(batch, genesis)
	})
}

func loadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scenario, err := LoadScenario(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenario, nil
}

func openDB(path string) (db.KeyValueStore, error) {
	if path == "" {
		return memory.New(), nil
	}
	return pebble.New(path)
}
