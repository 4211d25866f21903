package transaction

import (
	"errors"

	"github.com/NethermindEth/blockifier/abi"
	"github.com/NethermindEth/blockifier/api"
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
)

// SyscallHandler is the interface contract code uses to reach the state and
// other contracts. Errors it returns abort the transaction and must be
// propagated by the contract; failed inner calls are not errors.
type SyscallHandler interface {
	StorageRead(key *felt.Felt) (felt.Felt, error)
	StorageWrite(key, value *felt.Felt) error
	CallContract(to, selector *felt.Felt, calldata []felt.Felt) (*CallInfo, error)
	LibraryCall(classHash, selector *felt.Felt, calldata []felt.Felt) (*CallInfo, error)
	// Deploy returns the address of the new contract and the constructor call.
	Deploy(classHash, salt *felt.Felt, calldata []felt.Felt, deployFromZero bool) (felt.Felt, *CallInfo, error)
	ReplaceClass(classHash *felt.Felt) error
	// GetNonce returns the nonce of the executing contract.
	GetNonce() (felt.Felt, error)
	ExecutionInfo() CallContext
}

// CallContext is what a contract can learn about the frame it runs in.
type CallContext struct {
	CallerAddress      felt.Felt
	ContractAddress    felt.Felt
	EntryPointSelector felt.Felt
	Mode               ExecutionMode
	Tx                 *Transaction
	BlockInfo          api.BlockInfo
}

type syscallHandler struct {
	ctx        *EntryPointExecutionContext
	call       *CallEntryPoint
	innerCalls []*CallInfo
}

var _ SyscallHandler = (*syscallHandler)(nil)

func newSyscallHandler(ctx *EntryPointExecutionContext, call *CallEntryPoint) *syscallHandler {
	return &syscallHandler{ctx: ctx, call: call}
}

func (h *syscallHandler) StorageRead(key *felt.Felt) (felt.Felt, error) {
	return h.ctx.State.ContractStorage(&h.call.StorageAddress, key)
}

func (h *syscallHandler) StorageWrite(key, value *felt.Felt) error {
	h.ctx.State.SetStorage(&h.call.StorageAddress, key, value)
	return nil
}

func (h *syscallHandler) CallContract(to, selector *felt.Felt, calldata []felt.Felt) (*CallInfo, error) {
	return h.executeInner(&CallEntryPoint{
		CodeAddress:        to,
		EntryPointType:     state.External,
		EntryPointSelector: *selector,
		Calldata:           calldata,
		StorageAddress:     *to,
		CallerAddress:      h.call.StorageAddress,
		CallType:           CallTypeCall,
	})
}

func (h *syscallHandler) LibraryCall(classHash, selector *felt.Felt, calldata []felt.Felt) (*CallInfo, error) {
	return h.executeInner(&CallEntryPoint{
		ClassHash:          classHash,
		EntryPointType:     state.External,
		EntryPointSelector: *selector,
		Calldata:           calldata,
		StorageAddress:     h.call.StorageAddress,
		CallerAddress:      h.call.CallerAddress,
		CallType:           CallTypeDelegate,
	})
}

func (h *syscallHandler) Deploy(classHash, salt *felt.Felt, calldata []felt.Felt,
	deployFromZero bool,
) (felt.Felt, *CallInfo, error) {
	deployer := h.call.StorageAddress
	if deployFromZero {
		deployer = felt.Zero
	}

	calldataPtrs := make([]*felt.Felt, len(calldata))
	for i := range calldata {
		calldataPtrs[i] = &calldata[i]
	}
	addr := abi.ContractAddress(&deployer, classHash, salt, calldataPtrs)

	constructor := &CallEntryPoint{
		ClassHash:          classHash,
		CodeAddress:        &addr,
		EntryPointType:     state.Constructor,
		EntryPointSelector: ConstructorEntryPointSelector,
		Calldata:           calldata,
		StorageAddress:     addr,
		CallerAddress:      deployer,
		CallType:           CallTypeCall,
	}

	class, err := h.ctx.State.CompiledClass(classHash)
	if err != nil {
		return felt.Zero, nil, err
	}

	current, err := h.ctx.State.ContractClassHash(&addr)
	if err != nil {
		return felt.Zero, nil, err
	}
	if !current.IsZero() {
		callInfo := constructor.failed(contractAddressUnavailable)
		h.innerCalls = append(h.innerCalls, callInfo)
		return addr, callInfo, nil
	}

	cp := h.ctx.State.Begin()
	h.ctx.State.SetClassHash(&addr, classHash)

	var callInfo *CallInfo
	if class.HasEntryPoint(state.Constructor, &ConstructorEntryPointSelector) {
		callInfo, err = constructor.Execute(h.ctx)
	} else if len(calldata) > 0 {
		callInfo = constructor.failed(invalidCalldataLength)
	} else {
		callInfo = &CallInfo{Call: *constructor}
	}

	if err != nil || callInfo.Execution.Failed {
		if abortErr := h.ctx.State.Abort(cp); abortErr != nil {
			return felt.Zero, nil, errors.Join(err, abortErr)
		}
		if err != nil {
			return felt.Zero, nil, err
		}
	} else if err = h.ctx.State.Commit(cp); err != nil {
		return felt.Zero, nil, err
	}

	h.innerCalls = append(h.innerCalls, callInfo)
	return addr, callInfo, nil
}

func (h *syscallHandler) ReplaceClass(classHash *felt.Felt) error {
	if _, err := h.ctx.State.CompiledClass(classHash); err != nil {
		return err
	}
	h.ctx.State.SetClassHash(&h.call.StorageAddress, classHash)
	return nil
}

func (h *syscallHandler) GetNonce() (felt.Felt, error) {
	return h.ctx.State.ContractNonce(&h.call.StorageAddress)
}

func (h *syscallHandler) ExecutionInfo() CallContext {
	return CallContext{
		CallerAddress:      h.call.CallerAddress,
		ContractAddress:    h.call.StorageAddress,
		EntryPointSelector: h.call.EntryPointSelector,
		Mode:               h.ctx.Mode,
		Tx:                 h.ctx.Tx,
		BlockInfo:          h.ctx.BlockContext.BlockInfo,
	}
}

func (h *syscallHandler) executeInner(call *CallEntryPoint) (*CallInfo, error) {
	callInfo, err := call.Execute(h.ctx)
	if err != nil {
		return nil, err
	}
	h.innerCalls = append(h.innerCalls, callInfo)
	return callInfo, nil
}
