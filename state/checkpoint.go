package state

import (
	"fmt"

	"github.com/NethermindEth/blockifier/core/felt"
)

// Checkpoint is a savepoint over the write overlay of a CachedState.
// Checkpoints nest and must be closed in LIFO order, each exactly once.
type Checkpoint struct {
	owner      *CachedState
	id         uint64
	depth      int
	journalLen int
}

// Depth is the number of checkpoints open when cp was taken, itself included.
func (cp Checkpoint) Depth() int {
	return cp.depth
}

// StateChanges counts the keys whose value differs from the value they had
// when a checkpoint was opened.
type StateChanges struct {
	StorageCells        int
	Nonces              int
	ClassHashes         int
	CompiledClassHashes int
	ModifiedContracts   int
}

// Depth returns the number of open checkpoints.
func (s *CachedState) Depth() int {
	return len(s.checkpoints)
}

// Begin opens a checkpoint nested in the current innermost one.
func (s *CachedState) Begin() Checkpoint {
	s.nextID++
	cp := Checkpoint{
		owner:      s,
		id:         s.nextID,
		depth:      len(s.checkpoints) + 1,
		journalLen: len(s.journal),
	}
	s.checkpoints = append(s.checkpoints, cp)
	return cp
}

// Abort discards every write made since cp was opened, restoring the values
// that were visible at that point. cp must be the innermost open checkpoint.
func (s *CachedState) Abort(cp Checkpoint) error {
	if err := s.checkTop(cp); err != nil {
		return err
	}

	for i := len(s.journal) - 1; i >= cp.journalLen; i-- {
		s.journal[i].revert(s)
		s.journal[i] = nil
	}
	s.journal = s.journal[:cp.journalLen]
	s.checkpoints = s.checkpoints[:len(s.checkpoints)-1]
	return nil
}

// Commit closes cp and keeps its writes, which become part of the enclosing
// checkpoint. cp must be the innermost open checkpoint.
func (s *CachedState) Commit(cp Checkpoint) error {
	if err := s.checkTop(cp); err != nil {
		return err
	}

	s.checkpoints = s.checkpoints[:len(s.checkpoints)-1]
	if len(s.checkpoints) == 0 {
		clear(s.journal)
		s.journal = s.journal[:0]
	}
	return nil
}

func (s *CachedState) checkTop(cp Checkpoint) error {
	if err := s.checkOpen(cp); err != nil {
		return err
	}
	if cp.depth != len(s.checkpoints) {
		return fmt.Errorf("%w: checkpoint at depth %d closed while depth is %d",
			ErrInvalidCheckpoint, cp.depth, len(s.checkpoints))
	}
	return nil
}

func (s *CachedState) checkOpen(cp Checkpoint) error {
	if cp.owner != s {
		return fmt.Errorf("%w: checkpoint belongs to another state", ErrInvalidCheckpoint)
	}
	if cp.depth < 1 || cp.depth > len(s.checkpoints) || s.checkpoints[cp.depth-1].id != cp.id {
		return fmt.Errorf("%w: checkpoint %d is already closed", ErrInvalidCheckpoint, cp.id)
	}
	return nil
}

// ChangesSince counts the keys written since cp was opened whose current value
// differs from the value visible when cp was opened. Writing a key back to its
// earlier value is not a change.
func (s *CachedState) ChangesSince(cp Checkpoint) (StateChanges, error) {
	var changes StateChanges
	if err := s.checkOpen(cp); err != nil {
		return changes, err
	}

	seen := make(map[journalKey]struct{})
	contracts := make(map[felt.Felt]struct{})
	for _, entry := range s.journal[cp.journalLen:] {
		key := entry.key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		changed, err := s.changedSinceEntry(entry)
		if err != nil {
			return changes, err
		}
		if !changed {
			continue
		}

		switch key.space {
		case StorageSpace:
			changes.StorageCells++
			contracts[key.addr] = struct{}{}
		case NonceSpace:
			changes.Nonces++
			contracts[key.addr] = struct{}{}
		case ClassHashSpace:
			changes.ClassHashes++
			contracts[key.addr] = struct{}{}
		case CompiledClassHashSpace:
			changes.CompiledClassHashes++
		}
	}
	changes.ModifiedContracts = len(contracts)
	return changes, nil
}

// changedSinceEntry compares the current overlay value of the entry's key with
// the value visible just before the entry was written.
func (s *CachedState) changedSinceEntry(entry journalEntry) (bool, error) {
	switch e := entry.(type) {
	case storageChange:
		return differs(e.prev, e.existed, s.overlay.Storage[e.entry], func() (felt.Felt, error) {
			return s.baselineStorage(e.entry)
		})
	case nonceChange:
		return differs(e.prev, e.existed, s.overlay.Nonces[e.addr], func() (felt.Felt, error) {
			return s.baselineNonce(&e.addr)
		})
	case classHashChange:
		return differs(e.prev, e.existed, s.overlay.ClassHashes[e.addr], func() (felt.Felt, error) {
			return s.baselineClassHash(&e.addr)
		})
	case compiledClassHashChange:
		return differs(e.prev, e.existed, s.overlay.CompiledClassHashes[e.classHash], func() (felt.Felt, error) {
			return s.baselineCompiledClassHash(&e.classHash)
		})
	default:
		// classes are counted through their compiled class hash
		return false, nil
	}
}

func differs(prev felt.Felt, existed bool, current felt.Felt,
	baseline func() (felt.Felt, error),
) (bool, error) {
	if !existed {
		var err error
		if prev, err = baseline(); err != nil {
			return false, err
		}
	}
	return prev != current, nil
}
