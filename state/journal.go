package state

import "github.com/NethermindEth/blockifier/core/felt"

// journalEntry is a modification of the overlay that can be reverted.
type journalEntry interface {
	// revert restores the overlay value the entry replaced.
	revert(*CachedState)
	// key identifies the overlay slot the entry modified.
	key() journalKey
}

type journalKey struct {
	space KeySpace
	addr  felt.Felt
	key   felt.Felt
}

// record journals a change if a checkpoint is open. Without an open
// checkpoint there is nothing to revert to.
func (s *CachedState) record(entry journalEntry) {
	if len(s.checkpoints) > 0 {
		s.journal = append(s.journal, entry)
	}
}

type (
	storageChange struct {
		entry   StorageEntry
		prev    felt.Felt
		existed bool
	}
	nonceChange struct {
		addr    felt.Felt
		prev    felt.Felt
		existed bool
	}
	classHashChange struct {
		addr    felt.Felt
		prev    felt.Felt
		existed bool
	}
	compiledClassHashChange struct {
		classHash felt.Felt
		prev      felt.Felt
		existed   bool
	}
	classChange struct {
		classHash felt.Felt
		prev      *CompiledClass
		existed   bool
	}
)

func (ch storageChange) revert(s *CachedState) {
	if ch.existed {
		s.overlay.Storage[ch.entry] = ch.prev
	} else {
		delete(s.overlay.Storage, ch.entry)
	}
}

func (ch storageChange) key() journalKey {
	return journalKey{space: StorageSpace, addr: ch.entry.ContractAddress, key: ch.entry.Key}
}

func (ch nonceChange) revert(s *CachedState) {
	if ch.existed {
		s.overlay.Nonces[ch.addr] = ch.prev
	} else {
		delete(s.overlay.Nonces, ch.addr)
	}
}

func (ch nonceChange) key() journalKey {
	return journalKey{space: NonceSpace, addr: ch.addr}
}

func (ch classHashChange) revert(s *CachedState) {
	if ch.existed {
		s.overlay.ClassHashes[ch.addr] = ch.prev
	} else {
		delete(s.overlay.ClassHashes, ch.addr)
	}
}

func (ch classHashChange) key() journalKey {
	return journalKey{space: ClassHashSpace, addr: ch.addr}
}

func (ch compiledClassHashChange) revert(s *CachedState) {
	if ch.existed {
		s.overlay.CompiledClassHashes[ch.classHash] = ch.prev
	} else {
		delete(s.overlay.CompiledClassHashes, ch.classHash)
	}
}

func (ch compiledClassHashChange) key() journalKey {
	return journalKey{space: CompiledClassHashSpace, addr: ch.classHash}
}

func (ch classChange) revert(s *CachedState) {
	if ch.existed {
		s.classes[ch.classHash] = ch.prev
	} else {
		delete(s.classes, ch.classHash)
	}
}

func (ch classChange) key() journalKey {
	return journalKey{space: CompiledClassSpace, addr: ch.classHash}
}
