package testcontracts

import (
	"github.com/NethermindEth/blockifier/abi"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/transaction"
)

// Steps reported by the fixture entry points.
const (
	AccountSteps  = 20
	ValidateSteps = 10
	ContractSteps = 5
)

// Scenarios of FaultyAccount's __validate__, selected by the first signature element.
const (
	FaultyValid uint64 = iota
	FaultyInvalid
	FaultyWriteStorage
)

// FaultyValidateKey is written by FaultyAccount's __validate__ in the
// FaultyWriteStorage scenario.
var FaultyValidateKey = abi.StorageVarAddress("validate_writes")

func succeeded(steps uint64, retdata ...felt.Felt) transaction.CallExecution {
	return transaction.CallExecution{Retdata: retdata, NSteps: steps}
}

func failed(steps uint64, reason string) transaction.CallExecution {
	var f felt.Felt
	f.SetBytes([]byte(reason))
	return transaction.CallExecution{Retdata: []felt.Felt{f}, Failed: true, NSteps: steps}
}

// propagate returns the outcome of an inner call as the outcome of its caller.
func propagate(steps uint64, inner *transaction.CallInfo) transaction.CallExecution {
	return transaction.CallExecution{
		Retdata: inner.Execution.Retdata,
		Failed:  inner.Execution.Failed,
		NSteps:  steps,
	}
}

func accountValidate(*transaction.CallEntryPoint, transaction.SyscallHandler) (transaction.CallExecution, error) {
	return succeeded(ValidateSteps), nil
}

func accountExecute(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	inner, err := transaction.DecodeCallContractCalldata(call.Calldata)
	if err != nil {
		return failed(AccountSteps, "INVALID_CALLDATA"), nil
	}

	callInfo, err := syscalls.CallContract(&inner.To, &inner.Selector, inner.Calldata)
	if err != nil {
		return transaction.CallExecution{}, err
	}
	return propagate(AccountSteps, callInfo), nil
}

// longValidate spends as many steps as the first signature element asks for.
func longValidate(_ *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	signature := syscalls.ExecutionInfo().Tx.Signature
	if len(signature) == 0 {
		return succeeded(ValidateSteps), nil
	}
	steps, err := signature[0].Uint64()
	if err != nil {
		return failed(ValidateSteps, "INVALID_SIGNATURE"), nil
	}
	return succeeded(steps), nil
}

func faultyValidate(_ *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	scenario := FaultyValid
	if signature := syscalls.ExecutionInfo().Tx.Signature; len(signature) > 0 {
		var err error
		if scenario, err = signature[0].Uint64(); err != nil {
			return failed(ValidateSteps, "INVALID_SCENARIO"), nil
		}
	}

	switch scenario {
	case FaultyValid:
		return succeeded(ValidateSteps), nil
	case FaultyInvalid:
		return failed(ValidateSteps, "INVALID_SIGNATURE"), nil
	case FaultyWriteStorage:
		one := felt.FromUint64(1)
		if err := syscalls.StorageWrite(&FaultyValidateKey, &one); err != nil {
			return transaction.CallExecution{}, err
		}
		return succeeded(ValidateSteps), nil
	default:
		return failed(ValidateSteps, "INVALID_SCENARIO"), nil
	}
}

// testConstructor writes calldata[1] at key calldata[0] when given.
func testConstructor(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	if len(call.Calldata) < 2 {
		return succeeded(ContractSteps), nil
	}
	if err := syscalls.StorageWrite(&call.Calldata[0], &call.Calldata[1]); err != nil {
		return transaction.CallExecution{}, err
	}
	return succeeded(ContractSteps), nil
}

func testStorageReadWrite(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	if len(call.Calldata) != 2 {
		return failed(ContractSteps, "INVALID_CALLDATA"), nil
	}
	if err := syscalls.StorageWrite(&call.Calldata[0], &call.Calldata[1]); err != nil {
		return transaction.CallExecution{}, err
	}
	value, err := syscalls.StorageRead(&call.Calldata[0])
	if err != nil {
		return transaction.CallExecution{}, err
	}
	return succeeded(ContractSteps, value), nil
}

func writeAndRevert(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	if len(call.Calldata) != 2 {
		return failed(ContractSteps, "INVALID_CALLDATA"), nil
	}
	if err := syscalls.StorageWrite(&call.Calldata[0], &call.Calldata[1]); err != nil {
		return transaction.CallExecution{}, err
	}
	return failed(ContractSteps, "write_and_revert"), nil
}

// testCallContract takes [to, selector, len, calldata...].
func testCallContract(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	inner, err := transaction.DecodeCallContractCalldata(call.Calldata)
	if err != nil {
		return failed(ContractSteps, "INVALID_CALLDATA"), nil
	}
	callInfo, err := syscalls.CallContract(&inner.To, &inner.Selector, inner.Calldata)
	if err != nil {
		return transaction.CallExecution{}, err
	}
	return propagate(ContractSteps, callInfo), nil
}

// testLibraryCall takes [class hash, selector, len, calldata...].
func testLibraryCall(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	inner, err := transaction.DecodeCallContractCalldata(call.Calldata)
	if err != nil {
		return failed(ContractSteps, "INVALID_CALLDATA"), nil
	}
	callInfo, err := syscalls.LibraryCall(&inner.To, &inner.Selector, inner.Calldata)
	if err != nil {
		return transaction.CallExecution{}, err
	}
	return propagate(ContractSteps, callInfo), nil
}

// testDeploy takes [class hash, salt, deploy from zero, constructor calldata...]
// and returns the deployed address.
func testDeploy(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	if len(call.Calldata) < 3 {
		return failed(ContractSteps, "INVALID_CALLDATA"), nil
	}
	addr, constructor, err := syscalls.Deploy(&call.Calldata[0], &call.Calldata[1], call.Calldata[3:],
		!call.Calldata[2].IsZero())
	if err != nil {
		return transaction.CallExecution{}, err
	}
	if constructor.Execution.Failed {
		return propagate(ContractSteps, constructor), nil
	}
	return succeeded(ContractSteps, addr), nil
}

func testReplaceClass(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	if len(call.Calldata) != 1 {
		return failed(ContractSteps, "INVALID_CALLDATA"), nil
	}
	if err := syscalls.ReplaceClass(&call.Calldata[0]); err != nil {
		return transaction.CallExecution{}, err
	}
	return succeeded(ContractSteps), nil
}

func testGetNonce(_ *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	nonce, err := syscalls.GetNonce()
	if err != nil {
		return transaction.CallExecution{}, err
	}
	return succeeded(ContractSteps, nonce), nil
}

func getCallerAddress(_ *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	return succeeded(ContractSteps, syscalls.ExecutionInfo().CallerAddress), nil
}

// recurse calls itself until the depth in calldata[0] reaches zero.
func recurse(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	if len(call.Calldata) != 1 {
		return failed(ContractSteps, "INVALID_CALLDATA"), nil
	}
	if call.Calldata[0].IsZero() {
		return succeeded(ContractSteps), nil
	}

	var depth felt.Felt
	one := felt.FromUint64(1)
	depth.Sub(&call.Calldata[0], &one)
	self := syscalls.ExecutionInfo().ContractAddress
	callInfo, err := syscalls.CallContract(&self, &call.EntryPointSelector, []felt.Felt{depth})
	if err != nil {
		return transaction.CallExecution{}, err
	}
	return propagate(ContractSteps, callInfo), nil
}

func returnResult(call *transaction.CallEntryPoint, _ transaction.SyscallHandler) (transaction.CallExecution, error) {
	return succeeded(ContractSteps, call.Calldata...), nil
}

func erc20BalanceOf(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	if len(call.Calldata) != 1 {
		return failed(ContractSteps, "INVALID_CALLDATA"), nil
	}
	key := abi.FeeTokenBalanceKey(&call.Calldata[0])
	balance, err := syscalls.StorageRead(&key)
	if err != nil {
		return transaction.CallExecution{}, err
	}
	return succeeded(ContractSteps, balance), nil
}

// erc20Transfer moves calldata[1] tokens from the caller to calldata[0].
func erc20Transfer(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	if len(call.Calldata) != 2 {
		return failed(ContractSteps, "INVALID_CALLDATA"), nil
	}
	sender := syscalls.ExecutionInfo().CallerAddress
	amount := &call.Calldata[1]

	senderKey := abi.FeeTokenBalanceKey(&sender)
	senderBalance, err := syscalls.StorageRead(&senderKey)
	if err != nil {
		return transaction.CallExecution{}, err
	}
	if senderBalance.Cmp(amount) < 0 {
		return failed(ContractSteps, "INSUFFICIENT_BALANCE"), nil
	}
	senderBalance.Sub(&senderBalance, amount)
	if err = syscalls.StorageWrite(&senderKey, &senderBalance); err != nil {
		return transaction.CallExecution{}, err
	}

	if err = credit(syscalls, &call.Calldata[0], amount); err != nil {
		return transaction.CallExecution{}, err
	}
	return succeeded(ContractSteps, felt.One), nil
}

func erc20PermissionedMint(call *transaction.CallEntryPoint, syscalls transaction.SyscallHandler) (transaction.CallExecution, error) {
	if len(call.Calldata) != 2 {
		return failed(ContractSteps, "INVALID_CALLDATA"), nil
	}
	minterKey := abi.PermittedMinterKey()
	minter, err := syscalls.StorageRead(&minterKey)
	if err != nil {
		return transaction.CallExecution{}, err
	}
	if caller := syscalls.ExecutionInfo().CallerAddress; !caller.Equal(&minter) {
		return failed(ContractSteps, "ONLY_MINTER"), nil
	}

	if err = credit(syscalls, &call.Calldata[0], &call.Calldata[1]); err != nil {
		return transaction.CallExecution{}, err
	}
	return succeeded(ContractSteps), nil
}

func credit(syscalls transaction.SyscallHandler, account, amount *felt.Felt) error {
	key := abi.FeeTokenBalanceKey(account)
	balance, err := syscalls.StorageRead(&key)
	if err != nil {
		return err
	}
	balance.Add(&balance, amount)
	return syscalls.StorageWrite(&key, &balance)
}
