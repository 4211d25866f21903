// Package snapshot serves committed state out of a key-value store.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/db"
	"github.com/NethermindEth/blockifier/encoder"
	"github.com/NethermindEth/blockifier/state"
)

var _ state.StateReader = (*Reader)(nil)

// Reader reads state stored under the bucket prefixes of package db. It is
// meant to wrap a db.Snapshot so that it observes a single point in time.
type Reader struct {
	txn db.KeyValueReader
}

func NewReader(txn db.KeyValueReader) *Reader {
	return &Reader{txn: txn}
}

func (r *Reader) ContractStorage(addr, key *felt.Felt) (felt.Felt, error) {
	return r.felt(db.ContractStorage.Key(addr.Marshal(), key.Marshal()))
}

func (r *Reader) ContractNonce(addr *felt.Felt) (felt.Felt, error) {
	return r.felt(db.ContractNonce.Key(addr.Marshal()))
}

func (r *Reader) ContractClassHash(addr *felt.Felt) (felt.Felt, error) {
	return r.felt(db.ContractClassHash.Key(addr.Marshal()))
}

func (r *Reader) CompiledClass(classHash *felt.Felt) (*state.CompiledClass, error) {
	var class state.CompiledClass
	err := r.txn.Get(db.Class.Key(classHash.Marshal()), func(val []byte) error {
		return encoder.Unmarshal(val, &class)
	})
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, state.ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read class %s: %w", classHash, err)
	}
	return &class, nil
}

func (r *Reader) felt(key []byte) (felt.Felt, error) {
	var value felt.Felt
	err := r.txn.Get(key, func(val []byte) error {
		value.SetBytes(val)
		return nil
	})
	if errors.Is(err, db.ErrKeyNotFound) {
		return felt.Zero, nil
	}
	return value, err
}
