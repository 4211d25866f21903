package state

import "github.com/NethermindEth/blockifier/core/felt"

//go:generate mockgen -destination=../mocks/mock_state_reader.go -package=mocks github.com/NethermindEth/blockifier/state StateReader
type StateReader interface {
	// ContractStorage returns zero for cells that were never written.
	ContractStorage(addr, key *felt.Felt) (felt.Felt, error)
	// ContractNonce returns zero for undeployed contracts.
	ContractNonce(addr *felt.Felt) (felt.Felt, error)
	// ContractClassHash returns zero for undeployed contracts.
	ContractClassHash(addr *felt.Felt) (felt.Felt, error)
	// CompiledClass fails with ErrClassNotFound if the class was never declared.
	CompiledClass(classHash *felt.Felt) (*CompiledClass, error)
}

type CairoVersion uint8

const (
	Cairo0 CairoVersion = iota
	Cairo1
)

func (v CairoVersion) String() string {
	switch v {
	case Cairo0:
		return "cairo0"
	case Cairo1:
		return "cairo1"
	default:
		return "unknown"
	}
}

type EntryPointType uint8

const (
	External EntryPointType = iota
	L1Handler
	Constructor
)

func (t EntryPointType) String() string {
	switch t {
	case External:
		return "EXTERNAL"
	case L1Handler:
		return "L1_HANDLER"
	case Constructor:
		return "CONSTRUCTOR"
	default:
		return "UNKNOWN"
	}
}

type EntryPoint struct {
	Selector felt.Felt      `cbor:"1,keyasint"`
	Type     EntryPointType `cbor:"2,keyasint"`
	Offset   uint64         `cbor:"3,keyasint"`
}

// CompiledClass is the executable form of a declared class.
type CompiledClass struct {
	CompiledClassHash felt.Felt    `cbor:"1,keyasint"`
	Version           CairoVersion `cbor:"2,keyasint"`
	EntryPoints       []EntryPoint `cbor:"3,keyasint"`
	Program           []byte       `cbor:"4,keyasint"`
}

func (c *CompiledClass) HasEntryPoint(entryPointType EntryPointType, selector *felt.Felt) bool {
	for i := range c.EntryPoints {
		if c.EntryPoints[i].Type == entryPointType && c.EntryPoints[i].Selector.Equal(selector) {
			return true
		}
	}
	return false
}
