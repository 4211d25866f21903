package state

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/blockifier/core/felt"
)

// CachedState layers a write overlay and a memoizing read cache over a
// StateReader. The reader is queried at most once per key for the lifetime of
// the CachedState, so all reads within a block observe the same snapshot.
//
// A CachedState is not safe for concurrent use.
type CachedState struct {
	reader StateReader

	// baseline values as returned by the reader
	cache StateMaps
	// nil entries are memoized ErrClassNotFound results
	classCache map[felt.Felt]*CompiledClass

	overlay StateMaps
	classes map[felt.Felt]*CompiledClass

	journal     []journalEntry
	checkpoints []Checkpoint
	nextID      uint64

	listener EventListener
}

func NewCachedState(reader StateReader) *CachedState {
	return &CachedState{
		reader:     reader,
		cache:      NewStateMaps(),
		classCache: make(map[felt.Felt]*CompiledClass),
		overlay:    NewStateMaps(),
		classes:    make(map[felt.Felt]*CompiledClass),
		listener:   &SelectiveListener{},
	}
}

// WithListener registers an EventListener
func (s *CachedState) WithListener(listener EventListener) *CachedState {
	s.listener = listener
	return s
}

func (s *CachedState) ContractStorage(addr, key *felt.Felt) (felt.Felt, error) {
	entry := StorageEntry{ContractAddress: *addr, Key: *key}
	if value, ok := s.overlay.Storage[entry]; ok {
		s.listener.OnRead(StorageSpace, true)
		return value, nil
	}
	return s.baselineStorage(entry)
}

func (s *CachedState) ContractNonce(addr *felt.Felt) (felt.Felt, error) {
	if nonce, ok := s.overlay.Nonces[*addr]; ok {
		s.listener.OnRead(NonceSpace, true)
		return nonce, nil
	}
	return s.baselineNonce(addr)
}

func (s *CachedState) ContractClassHash(addr *felt.Felt) (felt.Felt, error) {
	if classHash, ok := s.overlay.ClassHashes[*addr]; ok {
		s.listener.OnRead(ClassHashSpace, true)
		return classHash, nil
	}
	return s.baselineClassHash(addr)
}

// CompiledClass fails with ErrClassNotFound if the class was neither declared
// in the base state nor set on s.
func (s *CachedState) CompiledClass(classHash *felt.Felt) (*CompiledClass, error) {
	if class, ok := s.classes[*classHash]; ok {
		s.listener.OnRead(CompiledClassSpace, true)
		return class, nil
	}
	return s.baselineClass(classHash)
}

// CompiledClassHash returns zero for classes that are not declared.
func (s *CachedState) CompiledClassHash(classHash *felt.Felt) (felt.Felt, error) {
	if compiledClassHash, ok := s.overlay.CompiledClassHashes[*classHash]; ok {
		s.listener.OnRead(CompiledClassHashSpace, true)
		return compiledClassHash, nil
	}
	if class, ok := s.classes[*classHash]; ok {
		s.listener.OnRead(CompiledClassHashSpace, true)
		return class.CompiledClassHash, nil
	}
	return s.baselineCompiledClassHash(classHash)
}

func (s *CachedState) baselineStorage(entry StorageEntry) (felt.Felt, error) {
	if value, ok := s.cache.Storage[entry]; ok {
		s.listener.OnRead(StorageSpace, true)
		return value, nil
	}

	s.listener.OnRead(StorageSpace, false)
	value, err := s.reader.ContractStorage(&entry.ContractAddress, &entry.Key)
	if err != nil {
		return felt.Zero, err
	}
	s.cache.Storage[entry] = value
	return value, nil
}

func (s *CachedState) baselineNonce(addr *felt.Felt) (felt.Felt, error) {
	if nonce, ok := s.cache.Nonces[*addr]; ok {
		s.listener.OnRead(NonceSpace, true)
		return nonce, nil
	}

	s.listener.OnRead(NonceSpace, false)
	nonce, err := s.reader.ContractNonce(addr)
	if err != nil {
		return felt.Zero, err
	}
	s.cache.Nonces[*addr] = nonce
	return nonce, nil
}

func (s *CachedState) baselineClassHash(addr *felt.Felt) (felt.Felt, error) {
	if classHash, ok := s.cache.ClassHashes[*addr]; ok {
		s.listener.OnRead(ClassHashSpace, true)
		return classHash, nil
	}

	s.listener.OnRead(ClassHashSpace, false)
	classHash, err := s.reader.ContractClassHash(addr)
	if err != nil {
		return felt.Zero, err
	}
	s.cache.ClassHashes[*addr] = classHash
	return classHash, nil
}

func (s *CachedState) baselineClass(classHash *felt.Felt) (*CompiledClass, error) {
	if class, ok := s.classCache[*classHash]; ok {
		s.listener.OnRead(CompiledClassSpace, true)
		if class == nil {
			return nil, classNotFound(classHash)
		}
		return class, nil
	}

	s.listener.OnRead(CompiledClassSpace, false)
	class, err := s.reader.CompiledClass(classHash)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			s.classCache[*classHash] = nil
			return nil, classNotFound(classHash)
		}
		return nil, err
	}
	s.classCache[*classHash] = class
	return class, nil
}

func (s *CachedState) baselineCompiledClassHash(classHash *felt.Felt) (felt.Felt, error) {
	if compiledClassHash, ok := s.cache.CompiledClassHashes[*classHash]; ok {
		s.listener.OnRead(CompiledClassHashSpace, true)
		return compiledClassHash, nil
	}

	var compiledClassHash felt.Felt
	class, err := s.baselineClass(classHash)
	switch {
	case err == nil:
		compiledClassHash = class.CompiledClassHash
	case !errors.Is(err, ErrClassNotFound):
		return felt.Zero, err
	}
	s.cache.CompiledClassHashes[*classHash] = compiledClassHash
	return compiledClassHash, nil
}

func classNotFound(classHash *felt.Felt) error {
	return fmt.Errorf("%w: %s", ErrClassNotFound, classHash)
}

func (s *CachedState) SetStorage(addr, key, value *felt.Felt) {
	entry := StorageEntry{ContractAddress: *addr, Key: *key}
	prev, existed := s.overlay.Storage[entry]
	s.record(storageChange{entry: entry, prev: prev, existed: existed})
	s.overlay.Storage[entry] = *value
}

func (s *CachedState) SetNonce(addr, nonce *felt.Felt) {
	prev, existed := s.overlay.Nonces[*addr]
	s.record(nonceChange{addr: *addr, prev: prev, existed: existed})
	s.overlay.Nonces[*addr] = *nonce
}

// IncrementNonce bumps the nonce of addr by one.
func (s *CachedState) IncrementNonce(addr *felt.Felt) error {
	nonce, err := s.ContractNonce(addr)
	if err != nil {
		return fmt.Errorf("get nonce of %s: %w", addr, err)
	}
	nonce.Add(&nonce, &felt.One)
	s.SetNonce(addr, &nonce)
	return nil
}

func (s *CachedState) SetClassHash(addr, classHash *felt.Felt) {
	prev, existed := s.overlay.ClassHashes[*addr]
	s.record(classHashChange{addr: *addr, prev: prev, existed: existed})
	s.overlay.ClassHashes[*addr] = *classHash
}

// SetContractClass declares class under classHash.
func (s *CachedState) SetContractClass(classHash *felt.Felt, class *CompiledClass) {
	prev, existed := s.classes[*classHash]
	s.record(classChange{classHash: *classHash, prev: prev, existed: existed})
	s.classes[*classHash] = class
}

func (s *CachedState) SetCompiledClassHash(classHash, compiledClassHash *felt.Felt) {
	prev, existed := s.overlay.CompiledClassHashes[*classHash]
	s.record(compiledClassHashChange{classHash: *classHash, prev: prev, existed: existed})
	s.overlay.CompiledClassHashes[*classHash] = *compiledClassHash
}

// Reads returns a copy of the baseline values fetched from the reader so far.
func (s *CachedState) Reads() StateMaps {
	return s.cache.Clone()
}

// Writes returns a copy of the write overlay, including no-op writes.
func (s *CachedState) Writes() StateMaps {
	writes := s.overlay.Clone()
	for classHash := range s.classes {
		writes.DeclaredContracts[classHash] = true
	}
	return writes
}
