package testcontracts

import (
	"github.com/NethermindEth/blockifier/abi"
	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state/dictreader"
)

// Addresses of the test block context.
var (
	SequencerAddress = felt.FromUint64(0x1000)
	ETHTokenAddress  = felt.FromUint64(0x1001)
	STRKTokenAddress = felt.FromUint64(0x1002)
)

const (
	ChainID         = "SN_GOERLI"
	BlockNumber     = 2001
	BlockTimestamp  = 1072023
	DefaultGasPrice = 1
)

// BlockContext returns the block context the fixtures are deployed against.
func BlockContext() *api.BlockContext {
	return api.NewBlockContext(
		api.BlockInfo{
			BlockNumber:      BlockNumber,
			BlockTimestamp:   BlockTimestamp,
			SequencerAddress: SequencerAddress,
			GasPrices:        api.GasPrices{ETH: DefaultGasPrice, STRK: DefaultGasPrice},
		},
		api.ChainInfo{
			ChainID: ChainID,
			FeeTokenAddresses: api.FeeTokenAddresses{
				ETH:  ETHTokenAddress,
				STRK: STRKTokenAddress,
			},
		},
		api.LatestVersionedConstants(),
	)
}

// InitialTestState builds a reader over a state in which
//   - a Cairo0 AccountWithoutValidations and the ERC20 class are declared,
//   - ERC20 is deployed at both fee token addresses of blockContext,
//   - the account is minter of both tokens and holds initialBalance of each,
//   - every contract of instances is declared and deployed instances[contract]
//     times, accounts among them other than the faulty account being made
//     privileged the same way.
func InitialTestState(blockContext *api.BlockContext, initialBalance uint64,
	instances map[FeatureContract]uint16,
) *dictreader.Reader {
	reader := dictreader.New()
	balance := felt.FromUint64(initialBalance)

	account := AccountWithoutValidationsCairo0
	accountAddress := account.InstanceAddress(0)
	reader.Classes[account.ClassHash()] = account.Class()
	reader.Classes[ERC20.ClassHash()] = ERC20.Class()
	reader.ClassHashes[accountAddress] = account.ClassHash()
	reader.ClassHashes[blockContext.FeeTokenAddress(api.FeeTypeETH)] = ERC20.ClassHash()
	reader.ClassHashes[blockContext.FeeTokenAddress(api.FeeTypeSTRK)] = ERC20.ClassHash()
	privilegedAccount(reader, blockContext, accountAddress, balance)

	for contract, n := range instances {
		reader.Classes[contract.ClassHash()] = contract.Class()
		for instance := uint16(0); instance < n; instance++ {
			addr := contract.InstanceAddress(instance)
			reader.ClassHashes[addr] = contract.ClassHash()
			if contract.isFunded() {
				privilegedAccount(reader, blockContext, addr, balance)
			}
		}
	}
	return reader
}

// privilegedAccount makes account minter of both fee tokens and funds it.
func privilegedAccount(reader *dictreader.Reader, blockContext *api.BlockContext, account, balance felt.Felt) {
	minterKey := abi.PermittedMinterKey()
	balanceKey := abi.FeeTokenBalanceKey(&account)
	for _, feeType := range []api.FeeType{api.FeeTypeSTRK, api.FeeTypeETH} {
		token := blockContext.FeeTokenAddress(feeType)
		reader.SetStorage(token, minterKey, account)
		reader.SetStorage(token, balanceKey, balance)
	}
}
