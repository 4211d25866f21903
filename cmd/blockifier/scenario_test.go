package main_test

import (
	"strings"
	"testing"

	"github.com/NethermindEth/blockifier/abi"
	"github.com/NethermindEth/blockifier/api"
	blockifier "github.com/NethermindEth/blockifier/cmd/blockifier"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/testcontracts"
	"github.com/NethermindEth/blockifier/transaction"
	"github.com/NethermindEth/blockifier/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
genesis:
  balance: 1000
  contracts:
    test_contract(cairo0): 2
blocks:
  - transactions:
      - call:
          to: test_contract(cairo0)/1
          entry_point: test_storage_read_write
          calldata: ["0x10", "0x5"]
      - nonce: 1
        version: 3
        call:
          to: test_contract(cairo0)
          entry_point: write_and_revert
          calldata: ["0x10", "0x6"]
  - transactions:
      - nonce: 7
        call:
          to: test_contract(cairo0)
          entry_point: test_storage_read_write
          calldata: ["0x10", "0x7"]
`

func TestLoadScenario(t *testing.T) {
	scenario, err := blockifier.LoadScenario(strings.NewReader(scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, api.LatestProtocolVersion().String(), scenario.ProtocolVersion)
	assert.Equal(t, api.DefaultExecutionFlags(), scenario.Flags)
	assert.Equal(t, uint64(1000), scenario.Genesis.Balance)
	assert.Equal(t, map[testcontracts.FeatureContract]uint16{testcontracts.TestContractCairo0: 2}, scenario.Genesis.Contracts)
	require.Len(t, scenario.Blocks, 2)

	txns, err := scenario.Transactions(0)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	account := testcontracts.AccountWithoutValidationsCairo0.InstanceAddress(0)
	assert.Equal(t, &transaction.Transaction{
		SenderAddress: account,
		Calldata: transaction.EncodeCallContractCalldata(transaction.Call{
			To:       testcontracts.TestContractCairo0.InstanceAddress(1),
			Selector: abi.SelectorFromName("test_storage_read_write"),
			Calldata: []felt.Felt{felt.FromUint64(0x10), felt.FromUint64(5)},
		}),
		Version: 1,
	}, txns[0])
	assert.Equal(t, uint64(3), txns[1].Version)
	assert.Equal(t, felt.FromUint64(1), txns[1].Nonce)

	blockContext, err := scenario.BlockContext(1, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(testcontracts.BlockNumber+1), blockContext.BlockInfo.BlockNumber)
	assert.Equal(t, testcontracts.ETHTokenAddress, blockContext.FeeTokenAddress(api.FeeTypeETH))
	assert.Equal(t, api.LatestVersionedConstants(), blockContext.VersionedConstants)
}

func TestLoadScenarioOverrides(t *testing.T) {
	scenario, err := blockifier.LoadScenario(strings.NewReader(`
protocol_version: "0.13.0"
block:
  number: 7
  gas_prices: {eth: 3, strk: 4}
chain:
  chain_id: SN_SEPOLIA
  fee_token_addresses: {eth: "0x5", strk: "0x6"}
flags:
  charge_fee: false
blocks:
  - transactions:
      - sender: "0x1234"
        calldata: ["0x1", "0x2", "0x0"]
`))
	require.NoError(t, err)

	assert.Equal(t, api.ExecutionFlags{ChargeFee: false, Validate: true}, scenario.Flags)
	assert.Equal(t, "SN_SEPOLIA", scenario.Chain.ChainID)

	blockContext, err := scenario.BlockContext(0, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), blockContext.BlockInfo.BlockNumber)
	assert.Equal(t, uint64(4), blockContext.BlockInfo.GasPrices.For(api.FeeTypeSTRK))
	assert.Equal(t, felt.FromUint64(6), blockContext.FeeTokenAddress(api.FeeTypeSTRK))
	assert.Equal(t, uint64(8), blockContext.VersionedConstants.FeeCosts.PerStorageCell)

	txns, err := scenario.Transactions(0)
	require.NoError(t, err)
	assert.Equal(t, *utils.HexToFelt(t, "0x1234"), txns[0].SenderAddress)
	assert.Equal(t, []felt.Felt{felt.FromUint64(1), felt.FromUint64(2), felt.Zero}, txns[0].Calldata)

	constants := &api.VersionedConstants{MaxRecursionDepth: 3}
	blockContext, err = scenario.BlockContext(0, constants)
	require.NoError(t, err)
	assert.Same(t, constants, blockContext.VersionedConstants)
}

func TestLoadScenarioErrors(t *testing.T) {
	tests := map[string]struct {
		yaml string
		err  string
	}{
		"empty": {
			yaml: "",
			err:  "empty scenario",
		},
		"unknown field": {
			yaml: "blocks: []\ngas: 1\n",
			err:  "field gas not found",
		},
		"no blocks": {
			yaml: "genesis: {balance: 1}\n",
			err:  "Blocks",
		},
		"unsupported protocol version": {
			yaml: "protocol_version: \"0.12.0\"\nblocks: [{transactions: []}]\n",
			err:  "protocol_version",
		},
		"zero fee token": {
			yaml: "chain: {chain_id: SN_MAIN, fee_token_addresses: {eth: \"0x0\", strk: \"0x1\"}}\nblocks: [{transactions: []}]\n",
			err:  "felt_nonzero",
		},
		"unknown contract": {
			yaml: "genesis: {contracts: {nope(cairo0): 1}}\nblocks: [{transactions: []}]\n",
			err:  `unknown feature contract "nope(cairo0)"`,
		},
		"call and calldata": {
			yaml: "blocks: [{transactions: [{calldata: [\"0x1\"], call: {to: \"0x1\", entry_point: f}}]}]\n",
			err:  "excluded_with",
		},
		"neither call nor calldata": {
			yaml: "blocks: [{transactions: [{nonce: 1}]}]\n",
			err:  "required_without",
		},
		"call without entry point": {
			yaml: "blocks: [{transactions: [{call: {to: \"0x1\"}}]}]\n",
			err:  "EntryPoint",
		},
		"bad version": {
			yaml: "blocks: [{transactions: [{version: 2, calldata: []}]}]\n",
			err:  "oneof",
		},
		"instance of a plain address": {
			yaml: "blocks: [{transactions: [{sender: \"0x1/2\", calldata: []}]}]\n",
			err:  "instance given for plain address",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := blockifier.LoadScenario(strings.NewReader(test.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.err)
		})
	}
}
