package testcontracts

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/transaction"
)

var ErrUnknownClass = errors.New("class is not a feature contract")

// byCompiledClassHash maps the classes of the fixture table to their contract.
// Filled once the table is built.
var byCompiledClassHash = make(map[felt.Felt]FeatureContract, numFeatureContracts)

// Dispatcher runs the native implementations of the feature contracts.
type Dispatcher struct{}

var _ transaction.Dispatcher = Dispatcher{}

func (Dispatcher) Execute(call *transaction.CallEntryPoint, class *state.CompiledClass,
	syscalls transaction.SyscallHandler,
) (transaction.CallExecution, error) {
	contract, ok := byCompiledClassHash[class.CompiledClassHash]
	if !ok {
		return transaction.CallExecution{}, fmt.Errorf("%w: compiled class hash %s", ErrUnknownClass, &class.CompiledClassHash)
	}

	for _, ep := range contract.info().entryPoints {
		if ep.typ == call.EntryPointType && ep.selector.Equal(&call.EntryPointSelector) {
			return ep.run(call, syscalls)
		}
	}
	return failed(0, "ENTRYPOINT_NOT_FOUND"), nil
}
