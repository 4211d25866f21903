package pebble

import (
	"github.com/NethermindEth/blockifier/db"
	"github.com/cockroachdb/pebble"
)

var _ db.Snapshot = (*snapshot)(nil)

type snapshot struct {
	snapshot *pebble.Snapshot
	listener db.EventListener
}

func newSnapshot(db *pebble.DB, listener db.EventListener) *snapshot {
	return &snapshot{snapshot: db.NewSnapshot(), listener: listener}
}

func (s *snapshot) Has(key []byte) (bool, error) {
	return has(s.snapshot, key, s.listener)
}

func (s *snapshot) Get(key []byte, cb func(value []byte) error) error {
	return get(s.snapshot, key, cb, s.listener)
}

func (s *snapshot) Close() error {
	return s.snapshot.Close()
}
