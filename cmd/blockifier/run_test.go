package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/NethermindEth/blockifier/abi"
	blockifier "github.com/NethermindEth/blockifier/cmd/blockifier"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/testcontracts"
	"github.com/NethermindEth/blockifier/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, scenario string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0o600))
	return path
}

func runJSON(t *testing.T, config *blockifier.Config, path string) []*blockifier.BlockReport {
	t.Helper()
	out := new(bytes.Buffer)
	require.NoError(t, blockifier.Run(context.Background(), config, path, out))

	var reports []*blockifier.BlockReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	return reports
}

func TestRun(t *testing.T) {
	path := writeScenario(t, scenarioYAML)
	metricsFile := filepath.Join(t.TempDir(), "metrics.prom")
	config := &blockifier.Config{
		LogLevel:    utils.ERROR,
		Output:      "json",
		DBPath:      filepath.Join(t.TempDir(), "db"),
		MetricsFile: metricsFile,
	}

	reports := runJSON(t, config, path)
	require.Len(t, reports, 2)

	account := testcontracts.AccountWithoutValidationsCairo0.InstanceAddress(0)
	contract := testcontracts.TestContractCairo0.InstanceAddress(1)

	first := reports[0]
	assert.Equal(t, uint64(testcontracts.BlockNumber), first.Number)
	require.Len(t, first.Txns, 2)
	assert.Empty(t, first.Rejected)

	// base + storage cell + two modified contracts + steps
	assert.False(t, first.Txns[0].Reverted)
	assert.Equal(t, felt.FromUint64(53), first.Txns[0].ActualFee)
	assert.Equal(t, "ETH", first.Txns[0].FeeType)
	assert.Equal(t, uint64(35), first.Txns[0].Steps)

	assert.True(t, first.Txns[1].Reverted)
	assert.Equal(t, "write_and_revert", first.Txns[1].RevertError)
	assert.Equal(t, "STRK", first.Txns[1].FeeType)

	assert.Equal(t, map[felt.Felt]felt.Felt{felt.FromUint64(0x10): felt.FromUint64(5)},
		first.StateDiff.StorageDiffs[contract])
	assert.Equal(t, felt.FromUint64(2), first.StateDiff.Nonces[account])
	assert.Equal(t, felt.FromUint64(1000-53),
		first.StateDiff.StorageDiffs[testcontracts.ETHTokenAddress][abi.FeeTokenBalanceKey(&account)])

	second := reports[1]
	assert.Equal(t, uint64(testcontracts.BlockNumber+1), second.Number)
	assert.Empty(t, second.Txns)
	require.Len(t, second.Rejected, 1)
	assert.Equal(t, "validation failed", second.Rejected[0].Kind)
	assert.Contains(t, second.Rejected[0].Error, "invalid transaction nonce")
	assert.True(t, second.StateDiff.IsEmpty())

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "builder_blocks 2")
	assert.Contains(t, string(metrics), `builder_rejected_txns{kind="validation failed"} 1`)
}

func TestRunCommitsBetweenBlocks(t *testing.T) {
	// the second block reads what the first one committed
	path := writeScenario(t, `
genesis:
  contracts:
    test_contract(cairo0): 1
flags:
  charge_fee: false
blocks:
  - transactions:
      - call: {to: test_contract(cairo0), entry_point: test_storage_read_write, calldata: ["0x10", "0x5"]}
  - transactions:
      - nonce: 1
        call: {to: test_contract(cairo0), entry_point: test_storage_read_write, calldata: ["0x10", "0x5"]}
`)
	reports := runJSON(t, &blockifier.Config{LogLevel: utils.ERROR, Output: "json"}, path)
	require.Len(t, reports, 2)

	account := testcontracts.AccountWithoutValidationsCairo0.InstanceAddress(0)
	contract := testcontracts.TestContractCairo0.InstanceAddress(0)
	assert.Equal(t, felt.FromUint64(5), reports[0].StateDiff.StorageDiffs[contract][felt.FromUint64(0x10)])

	// writing the committed value again is not a change
	assert.Empty(t, reports[1].StateDiff.StorageDiffs)
	assert.Equal(t, felt.FromUint64(2), reports[1].StateDiff.Nonces[account])
	assert.Equal(t, felt.Zero, reports[1].Txns[0].ActualFee)
}

func TestRunReusesDatabase(t *testing.T) {
	config := &blockifier.Config{
		LogLevel: utils.ERROR,
		Output:   "json",
		DBPath:   filepath.Join(t.TempDir(), "db"),
	}
	runJSON(t, config, writeScenario(t, scenarioYAML))

	// a different genesis balance must not overwrite the stored state
	reports := runJSON(t, config, writeScenario(t, `
genesis:
  balance: 5000
  contracts:
    test_contract(cairo0): 2
blocks:
  - transactions:
      - nonce: 2
        call:
          to: test_contract(cairo0)/1
          entry_point: test_storage_read_write
          calldata: ["0x10", "0x8"]
`))
	require.Len(t, reports, 1)
	require.Empty(t, reports[0].Rejected)
	require.Len(t, reports[0].Txns, 1)
	assert.Equal(t, felt.FromUint64(53), reports[0].Txns[0].ActualFee)

	account := testcontracts.AccountWithoutValidationsCairo0.InstanceAddress(0)
	diff := reports[0].StateDiff
	assert.Equal(t, felt.FromUint64(3), diff.Nonces[account])
	assert.Equal(t, felt.FromUint64(1000-53-53),
		diff.StorageDiffs[testcontracts.ETHTokenAddress][abi.FeeTokenBalanceKey(&account)])
	assert.Equal(t, felt.FromUint64(8),
		diff.StorageDiffs[testcontracts.TestContractCairo0.InstanceAddress(1)][felt.FromUint64(0x10)])
}

func TestRunTable(t *testing.T) {
	path := writeScenario(t, scenarioYAML)
	out := new(bytes.Buffer)
	config := &blockifier.Config{LogLevel: utils.ERROR, Output: "table"}
	require.NoError(t, blockifier.Run(context.Background(), config, path, out))

	contract := testcontracts.TestContractCairo0.InstanceAddress(1)
	table := out.String()
	assert.Contains(t, table, "Block 2001")
	assert.Contains(t, table, "Block 2002")
	assert.Contains(t, table, "53 ETH")
	assert.Contains(t, table, "REVERTED: write_and_revert")
	assert.Contains(t, table, "REJECTED: validation failed")
	assert.Contains(t, table, contract.String())
}

func TestRunMissingScenario(t *testing.T) {
	config := &blockifier.Config{LogLevel: utils.ERROR, Output: "json"}
	err := blockifier.Run(context.Background(), config, filepath.Join(t.TempDir(), "missing.yaml"), new(bytes.Buffer))
	require.ErrorIs(t, err, os.ErrNotExist)
}
