package snapshot

import (
	"maps"

	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/db"
	"github.com/NethermindEth/blockifier/encoder"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/state/dictreader"
)

// WriteClass stores a declared class.
func WriteClass(w db.KeyValueWriter, classHash *felt.Felt, class *state.CompiledClass) error {
	encoded, err := encoder.Marshal(class)
	if err != nil {
		return err
	}
	return w.Put(db.Class.Key(classHash.Marshal()), encoded)
}

// WriteStateDiff applies the storage, nonce and deployment bindings of diff.
// Declared classes carry only their compiled class hash in a diff, so their
// bodies must be written with WriteClass.
func WriteStateDiff(w db.KeyValueWriter, diff *state.StateDiff) error {
	for addr, diffs := range diff.StorageDiffs {
		for key, value := range diffs {
			if err := putFelt(w, db.ContractStorage.Key(addr.Marshal(), key.Marshal()), &value); err != nil {
				return err
			}
		}
	}
	for addr, nonce := range diff.Nonces {
		if err := putFelt(w, db.ContractNonce.Key(addr.Marshal()), &nonce); err != nil {
			return err
		}
	}
	for addr, classHash := range diff.DeployedContracts {
		if err := putFelt(w, db.ContractClassHash.Key(addr.Marshal()), &classHash); err != nil {
			return err
		}
	}
	return nil
}

// WriteCachedState commits the diff of cs and the classes declared on it.
func WriteCachedState(w db.KeyValueWriter, cs *state.CachedState) error {
	diff, err := cs.StateDiff()
	if err != nil {
		return err
	}
	for classHash := range diff.DeclaredClasses {
		class, err := cs.CompiledClass(&classHash)
		if err != nil {
			return err
		}
		if err := WriteClass(w, &classHash, class); err != nil {
			return err
		}
	}
	return WriteStateDiff(w, diff)
}

func putFelt(w db.KeyValueWriter, key []byte, value *felt.Felt) error {
	return w.Put(key, value.Marshal())
}

// WriteGenesis stores every binding and class served by genesis and marks the
// store as initialised, see HasGenesis.
func WriteGenesis(w db.KeyValueWriter, genesis *dictreader.Reader) error {
	for classHash, class := range genesis.Classes {
		if err := WriteClass(w, &classHash, class); err != nil {
			return err
		}
	}

	diff := state.NewStateDiff()
	for entry, value := range genesis.Storage {
		if _, ok := diff.StorageDiffs[entry.ContractAddress]; !ok {
			diff.StorageDiffs[entry.ContractAddress] = make(map[felt.Felt]felt.Felt)
		}
		diff.StorageDiffs[entry.ContractAddress][entry.Key] = value
	}
	maps.Copy(diff.Nonces, genesis.Nonces)
	maps.Copy(diff.DeployedContracts, genesis.ClassHashes)
	if err := WriteStateDiff(w, diff); err != nil {
		return err
	}
	return w.Put(db.Genesis.Key(), []byte{1})
}

// HasGenesis reports whether WriteGenesis already ran against the store.
func HasGenesis(r db.KeyValueReader) (bool, error) {
	return r.Has(db.Genesis.Key())
}
