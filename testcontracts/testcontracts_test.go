package testcontracts_test

import (
	"testing"

	"github.com/NethermindEth/blockifier/abi"
	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/testcontracts"
	"github.com/NethermindEth/blockifier/transaction"
	"github.com/NethermindEth/blockifier/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureContractsAreDistinct(t *testing.T) {
	hashes := make(map[felt.Felt]testcontracts.FeatureContract)
	for _, contract := range testcontracts.FeatureContracts() {
		for _, h := range []felt.Felt{contract.ClassHash(), contract.CompiledClassHash(), contract.InstanceAddress(0), contract.InstanceAddress(1)} {
			other, ok := hashes[h]
			require.False(t, ok, "%s collides with %s", contract, other)
			hashes[h] = contract
		}
	}
}

func TestFeatureContractClass(t *testing.T) {
	class := testcontracts.TestContractCairo1.Class()
	assert.Equal(t, state.Cairo1, class.Version)
	assert.Equal(t, testcontracts.TestContractCairo1.CompiledClassHash(), class.CompiledClassHash)
	assert.True(t, class.HasEntryPoint(state.Constructor, &transaction.ConstructorEntryPointSelector))
	assert.False(t, class.HasEntryPoint(state.External, &transaction.ConstructorEntryPointSelector))

	account := testcontracts.AccountWithoutValidationsCairo0
	assert.True(t, account.IsAccount())
	assert.Equal(t, transaction.ExecuteEntryPointSelector, account.Selector("__execute__"))
	assert.Equal(t, transaction.ValidateEntryPointSelector, account.Selector("__validate__"))
	assert.Panics(t, func() { account.Selector("transfer") })
}

func TestInitialTestState(t *testing.T) {
	blockContext := testcontracts.BlockContext()
	account := testcontracts.AccountWithLongValidateCairo1
	reader := testcontracts.InitialTestState(blockContext, 77, map[testcontracts.FeatureContract]uint16{
		account:                           2,
		testcontracts.TestContractCairo0:  1,
		testcontracts.FaultyAccountCairo0: 1,
	})

	for _, token := range []felt.Felt{testcontracts.ETHTokenAddress, testcontracts.STRKTokenAddress} {
		classHash, err := reader.ContractClassHash(&token)
		require.NoError(t, err)
		assert.Equal(t, testcontracts.ERC20.ClassHash(), classHash)
	}

	funded := []felt.Felt{
		testcontracts.AccountWithoutValidationsCairo0.InstanceAddress(0),
		account.InstanceAddress(0),
		account.InstanceAddress(1),
	}
	for _, addr := range funded {
		balanceKey := abi.FeeTokenBalanceKey(&addr)
		for _, feeType := range []api.FeeType{api.FeeTypeETH, api.FeeTypeSTRK} {
			token := blockContext.FeeTokenAddress(feeType)
			balance, err := reader.ContractStorage(&token, &balanceKey)
			require.NoError(t, err)
			assert.Equal(t, felt.FromUint64(77), balance)
		}
	}

	// the faulty account is deployed but holds no tokens
	faulty := testcontracts.FaultyAccountCairo0.InstanceAddress(0)
	classHash, err := reader.ContractClassHash(&faulty)
	require.NoError(t, err)
	assert.Equal(t, testcontracts.FaultyAccountCairo0.ClassHash(), classHash)
	faultyBalanceKey := abi.FeeTokenBalanceKey(&faulty)
	for _, feeType := range []api.FeeType{api.FeeTypeETH, api.FeeTypeSTRK} {
		token := blockContext.FeeTokenAddress(feeType)
		balance, err := reader.ContractStorage(&token, &faultyBalanceKey)
		require.NoError(t, err)
		assert.Equal(t, felt.Zero, balance)

		minter, err := reader.ContractStorage(&token, utils.HeapPtr(abi.PermittedMinterKey()))
		require.NoError(t, err)
		assert.NotEqual(t, faulty, minter)
	}

	contract := testcontracts.TestContractCairo0.InstanceAddress(0)
	classHash, err = reader.ContractClassHash(&contract)
	require.NoError(t, err)
	assert.Equal(t, testcontracts.TestContractCairo0.ClassHash(), classHash)

	classHash = testcontracts.TestContractCairo0.ClassHash()
	class, err := reader.CompiledClass(&classHash)
	require.NoError(t, err)
	assert.Equal(t, testcontracts.TestContractCairo0.Class(), class)

	_, err = reader.CompiledClass(utils.HeapPtr(testcontracts.FaultyAccountCairo1.ClassHash()))
	require.ErrorIs(t, err, state.ErrClassNotFound)
}

func TestFeatureContractText(t *testing.T) {
	for _, contract := range testcontracts.FeatureContracts() {
		text, err := contract.MarshalText()
		require.NoError(t, err)

		var got testcontracts.FeatureContract
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, contract, got)
	}

	var c testcontracts.FeatureContract
	assert.EqualError(t, c.UnmarshalText([]byte("test_contract")), `unknown feature contract "test_contract"`)
}
