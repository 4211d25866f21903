package state

import (
	"maps"

	"github.com/NethermindEth/blockifier/core/felt"
)

const (
	DefaultNonceMapCapacity             = 100
	DefaultClassHashMapCapacity         = 100
	DefaultStorageMapCapacity           = 100
	DefaultCompiledClassHashMapCapacity = 100
	DefaultDeclaredContractMapCapacity  = 10
)

// StorageEntry represents a key-value pair in contract storage.
type StorageEntry struct {
	ContractAddress felt.Felt
	Key             felt.Felt
}

// StateMaps holds one value per key for each key space of the state.
type StateMaps struct {
	Nonces              map[felt.Felt]felt.Felt
	ClassHashes         map[felt.Felt]felt.Felt
	Storage             map[StorageEntry]felt.Felt
	CompiledClassHashes map[felt.Felt]felt.Felt
	DeclaredContracts   map[felt.Felt]bool
}

// NewStateMaps creates a new instance of StateMaps with initialized maps.
func NewStateMaps() StateMaps {
	return StateMaps{
		Nonces:              make(map[felt.Felt]felt.Felt, DefaultNonceMapCapacity),
		ClassHashes:         make(map[felt.Felt]felt.Felt, DefaultClassHashMapCapacity),
		Storage:             make(map[StorageEntry]felt.Felt, DefaultStorageMapCapacity),
		CompiledClassHashes: make(map[felt.Felt]felt.Felt, DefaultCompiledClassHashMapCapacity),
		DeclaredContracts:   make(map[felt.Felt]bool, DefaultDeclaredContractMapCapacity),
	}
}

// Clone returns a deep copy of sm.
func (sm StateMaps) Clone() StateMaps {
	return StateMaps{
		Nonces:              maps.Clone(sm.Nonces),
		ClassHashes:         maps.Clone(sm.ClassHashes),
		Storage:             maps.Clone(sm.Storage),
		CompiledClassHashes: maps.Clone(sm.CompiledClassHashes),
		DeclaredContracts:   maps.Clone(sm.DeclaredContracts),
	}
}

// Len is the total number of entries over all key spaces.
func (sm StateMaps) Len() int {
	return len(sm.Nonces) + len(sm.ClassHashes) + len(sm.Storage) +
		len(sm.CompiledClassHashes) + len(sm.DeclaredContracts)
}
