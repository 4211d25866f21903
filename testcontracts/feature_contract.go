// Package testcontracts provides fixture contracts implemented in Go and a
// dispatcher that runs them, so the transaction pipeline can be exercised
// without a bytecode interpreter.
package testcontracts

import (
	"fmt"

	"github.com/NethermindEth/blockifier/abi"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/transaction"
)

type FeatureContract uint8

const (
	AccountWithoutValidationsCairo0 FeatureContract = iota
	AccountWithoutValidationsCairo1
	AccountWithLongValidateCairo0
	AccountWithLongValidateCairo1
	FaultyAccountCairo0
	FaultyAccountCairo1
	TestContractCairo0
	TestContractCairo1
	ERC20
	numFeatureContracts
)

const (
	testContractBase              = 1000
	accountWithoutValidationsBase = 2000
	accountWithLongValidateBase   = 3000
	faultyAccountBase             = 5000
	erc20Base                     = 8000

	cairo1Bit            = 1 << 31
	compiledClassHashBit = 1 << 40
	addressBit           = 1 << 48
)

// behaviour is the native implementation of one entry point.
type behaviour func(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error)

type entryPointDef struct {
	name     string
	typ      state.EntryPointType
	selector felt.Felt
	run      behaviour
}

type featureContractInfo struct {
	name        string
	base        uint64
	version     state.CairoVersion
	isAccount   bool
	entryPoints []entryPointDef
}

var featureContracts [numFeatureContracts]featureContractInfo

func init() {
	account := []entryPointDef{
		{name: "__validate__", run: accountValidate},
		{name: "__execute__", run: accountExecute},
	}
	longValidate := []entryPointDef{
		{name: "__validate__", run: longValidate},
		{name: "__execute__", run: accountExecute},
	}
	faulty := []entryPointDef{
		{name: "__validate__", run: faultyValidate},
		{name: "__execute__", run: accountExecute},
	}
	testContract := []entryPointDef{
		{name: "constructor", typ: state.Constructor, run: testConstructor},
		{name: "test_storage_read_write", run: testStorageReadWrite},
		{name: "write_and_revert", run: writeAndRevert},
		{name: "test_call_contract", run: testCallContract},
		{name: "test_library_call", run: testLibraryCall},
		{name: "test_deploy", run: testDeploy},
		{name: "test_replace_class", run: testReplaceClass},
		{name: "test_get_nonce", run: testGetNonce},
		{name: "get_caller_address", run: getCallerAddress},
		{name: "recurse", run: recurse},
		{name: "return_result", run: returnResult},
	}
	erc20 := []entryPointDef{
		{name: "balanceOf", run: erc20BalanceOf},
		{name: "transfer", run: erc20Transfer},
		{name: "permissionedMint", run: erc20PermissionedMint},
	}

	featureContracts = [numFeatureContracts]featureContractInfo{
		AccountWithoutValidationsCairo0: {"account_without_validations", accountWithoutValidationsBase, state.Cairo0, true, account},
		AccountWithoutValidationsCairo1: {"account_without_validations", accountWithoutValidationsBase, state.Cairo1, true, account},
		AccountWithLongValidateCairo0:   {"account_with_long_validate", accountWithLongValidateBase, state.Cairo0, true, longValidate},
		AccountWithLongValidateCairo1:   {"account_with_long_validate", accountWithLongValidateBase, state.Cairo1, true, longValidate},
		FaultyAccountCairo0:             {"faulty_account", faultyAccountBase, state.Cairo0, true, faulty},
		FaultyAccountCairo1:             {"faulty_account", faultyAccountBase, state.Cairo1, true, faulty},
		TestContractCairo0:              {"test_contract", testContractBase, state.Cairo0, false, testContract},
		TestContractCairo1:              {"test_contract", testContractBase, state.Cairo1, false, testContract},
		ERC20:                           {"erc20", erc20Base, state.Cairo0, false, erc20},
	}

	for i := range featureContracts {
		for j := range featureContracts[i].entryPoints {
			ep := &featureContracts[i].entryPoints[j]
			if ep.typ == state.Constructor {
				ep.selector = transaction.ConstructorEntryPointSelector
			} else {
				ep.selector = abi.SelectorFromName(ep.name)
			}
		}
	}

	for _, contract := range FeatureContracts() {
		byCompiledClassHash[contract.CompiledClassHash()] = contract
	}
}

func (c FeatureContract) info() *featureContractInfo {
	if c >= numFeatureContracts {
		panic(fmt.Sprintf("unknown feature contract %d", c))
	}
	return &featureContracts[c]
}

func (c FeatureContract) String() string {
	info := c.info()
	return fmt.Sprintf("%s(%s)", info.name, info.version)
}

func (c FeatureContract) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the form produced by String, e.g. "test_contract(cairo1)".
func (c *FeatureContract) UnmarshalText(text []byte) error {
	for _, contract := range FeatureContracts() {
		if contract.String() == string(text) {
			*c = contract
			return nil
		}
	}
	return fmt.Errorf("unknown feature contract %q", text)
}

func (c FeatureContract) CairoVersion() state.CairoVersion {
	return c.info().version
}

func (c FeatureContract) IsAccount() bool {
	return c.info().isAccount
}

// isFunded reports whether genesis makes instances of c privileged accounts.
func (c FeatureContract) isFunded() bool {
	switch c {
	case FaultyAccountCairo0, FaultyAccountCairo1:
		return false
	default:
		return c.IsAccount()
	}
}

func (c FeatureContract) integerBase() uint64 {
	info := c.info()
	if info.version == state.Cairo1 {
		return info.base + cairo1Bit
	}
	return info.base
}

func (c FeatureContract) ClassHash() felt.Felt {
	return felt.FromUint64(c.integerBase())
}

func (c FeatureContract) CompiledClassHash() felt.Felt {
	return felt.FromUint64(c.integerBase() + compiledClassHashBit)
}

// InstanceAddress is the address of the instance-th deployment of c in the
// initial test state.
func (c FeatureContract) InstanceAddress(instance uint16) felt.Felt {
	return felt.FromUint64(c.integerBase() + addressBit + uint64(instance))
}

// Selector returns the selector of the named entry point. It panics if c has
// no such entry point.
func (c FeatureContract) Selector(name string) felt.Felt {
	for _, ep := range c.info().entryPoints {
		if ep.name == name {
			return ep.selector
		}
	}
	panic(fmt.Sprintf("%s has no entry point %q", c, name))
}

func (c FeatureContract) Class() *state.CompiledClass {
	info := c.info()
	entryPoints := make([]state.EntryPoint, len(info.entryPoints))
	for i, ep := range info.entryPoints {
		entryPoints[i] = state.EntryPoint{
			Selector: ep.selector,
			Type:     ep.typ,
			Offset:   uint64(i),
		}
	}
	return &state.CompiledClass{
		CompiledClassHash: c.CompiledClassHash(),
		Version:           info.version,
		EntryPoints:       entryPoints,
		Program:           []byte(info.name),
	}
}

// FeatureContracts lists every fixture contract.
func FeatureContracts() []FeatureContract {
	contracts := make([]FeatureContract, numFeatureContracts)
	for i := range contracts {
		contracts[i] = FeatureContract(i)
	}
	return contracts
}
