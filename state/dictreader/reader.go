// Package dictreader provides an in-memory StateReader.
package dictreader

import (
	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
)

var _ state.StateReader = (*Reader)(nil)

// Reader serves state from plain maps. Missing keys read as zero.
type Reader struct {
	Storage     map[state.StorageEntry]felt.Felt
	Nonces      map[felt.Felt]felt.Felt
	ClassHashes map[felt.Felt]felt.Felt
	Classes     map[felt.Felt]*state.CompiledClass
}

func New() *Reader {
	return &Reader{
		Storage:     make(map[state.StorageEntry]felt.Felt),
		Nonces:      make(map[felt.Felt]felt.Felt),
		ClassHashes: make(map[felt.Felt]felt.Felt),
		Classes:     make(map[felt.Felt]*state.CompiledClass),
	}
}

func (r *Reader) ContractStorage(addr, key *felt.Felt) (felt.Felt, error) {
	return r.Storage[state.StorageEntry{ContractAddress: *addr, Key: *key}], nil
}

func (r *Reader) ContractNonce(addr *felt.Felt) (felt.Felt, error) {
	return r.Nonces[*addr], nil
}

func (r *Reader) ContractClassHash(addr *felt.Felt) (felt.Felt, error) {
	return r.ClassHashes[*addr], nil
}

func (r *Reader) CompiledClass(classHash *felt.Felt) (*state.CompiledClass, error) {
	class, ok := r.Classes[*classHash]
	if !ok {
		return nil, state.ErrClassNotFound
	}
	return class, nil
}

// SetStorage is a convenience for building fixtures.
func (r *Reader) SetStorage(addr, key, value felt.Felt) {
	r.Storage[state.StorageEntry{ContractAddress: addr, Key: key}] = value
}
