package state

import (
	"errors"

	"github.com/NethermindEth/blockifier/core/felt"
)

// StateDiff is the minimal set of bindings changed by a CachedState relative
// to its reader. Felt keys marshal to hex strings, so the JSON encoding is
// deterministic.
type StateDiff struct {
	DeployedContracts map[felt.Felt]felt.Felt               `json:"deployed_contracts"`
	DeclaredClasses   map[felt.Felt]felt.Felt               `json:"declared_classes"`
	StorageDiffs      map[felt.Felt]map[felt.Felt]felt.Felt `json:"storage_diffs"`
	Nonces            map[felt.Felt]felt.Felt               `json:"nonces"`
}

func NewStateDiff() *StateDiff {
	return &StateDiff{
		DeployedContracts: make(map[felt.Felt]felt.Felt),
		DeclaredClasses:   make(map[felt.Felt]felt.Felt),
		StorageDiffs:      make(map[felt.Felt]map[felt.Felt]felt.Felt),
		Nonces:            make(map[felt.Felt]felt.Felt),
	}
}

// Length is the number of bindings in the diff.
func (d *StateDiff) Length() int {
	length := len(d.DeployedContracts) + len(d.DeclaredClasses) + len(d.Nonces)
	for _, diffs := range d.StorageDiffs {
		length += len(diffs)
	}
	return length
}

func (d *StateDiff) IsEmpty() bool {
	return d.Length() == 0
}

// StateDiff returns the overlay minus the writes that equal the baseline value.
// Baseline values of keys that were written but never read are fetched from
// the reader, at most once per key like any other read.
func (s *CachedState) StateDiff() (*StateDiff, error) {
	diff := NewStateDiff()

	for entry, value := range s.overlay.Storage {
		baseline, err := s.baselineStorage(entry)
		if err != nil {
			return nil, err
		}
		if baseline == value {
			continue
		}
		if _, ok := diff.StorageDiffs[entry.ContractAddress]; !ok {
			diff.StorageDiffs[entry.ContractAddress] = make(map[felt.Felt]felt.Felt)
		}
		diff.StorageDiffs[entry.ContractAddress][entry.Key] = value
	}

	for addr, nonce := range s.overlay.Nonces {
		baseline, err := s.baselineNonce(&addr)
		if err != nil {
			return nil, err
		}
		if baseline != nonce {
			diff.Nonces[addr] = nonce
		}
	}

	for addr, classHash := range s.overlay.ClassHashes {
		baseline, err := s.baselineClassHash(&addr)
		if err != nil {
			return nil, err
		}
		if baseline != classHash {
			diff.DeployedContracts[addr] = classHash
		}
	}

	declared := make(map[felt.Felt]struct{}, len(s.classes)+len(s.overlay.CompiledClassHashes))
	for classHash := range s.classes {
		declared[classHash] = struct{}{}
	}
	for classHash := range s.overlay.CompiledClassHashes {
		declared[classHash] = struct{}{}
	}
	for classHash := range declared {
		compiledClassHash, err := s.CompiledClassHash(&classHash)
		if err != nil {
			return nil, err
		}
		_, err = s.baselineClass(&classHash)
		absent := errors.Is(err, ErrClassNotFound)
		if err != nil && !absent {
			return nil, err
		}
		baseline, err := s.baselineCompiledClassHash(&classHash)
		if err != nil {
			return nil, err
		}
		if absent || baseline != compiledClassHash {
			diff.DeclaredClasses[classHash] = compiledClassHash
		}
	}

	return diff, nil
}
