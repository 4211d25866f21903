package pebble

import (
	"errors"
	"io"
	"testing"

	"github.com/NethermindEth/blockifier/db"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var _ db.KeyValueStore = (*DB)(nil)

type DB struct {
	pebble   *pebble.DB
	listener db.EventListener
}

// New opens a new database at the given path
func New(path string, options ...Option) (*DB, error) {
	opts := &pebble.Options{}
	for _, option := range options {
		if err := option(opts); err != nil {
			return nil, err
		}
	}
	return newPebble(path, opts)
}

// NewMem opens a new in-memory database
func NewMem() (*DB, error) {
	return newPebble("", &pebble.Options{
		FS: vfs.NewMem(),
	})
}

// NewMemTest opens a new in-memory database, fails the test on error
func NewMemTest(t testing.TB) *DB {
	t.Helper()

	memDB, err := NewMem()
	if err != nil {
		t.Fatalf("create in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := memDB.Close(); err != nil {
			t.Errorf("close in-memory db: %v", err)
		}
	})
	return memDB
}

func newPebble(path string, options *pebble.Options) (*DB, error) {
	pDB, err := pebble.Open(path, options)
	if err != nil {
		return nil, err
	}
	return &DB{pebble: pDB, listener: &db.SelectiveListener{}}, nil
}

// WithListener registers an EventListener
func (d *DB) WithListener(listener db.EventListener) db.KeyValueStore {
	d.listener = listener
	return d
}

// Close : see io.Closer.Close
func (d *DB) Close() error {
	return d.pebble.Close()
}

func (d *DB) Has(key []byte) (bool, error) {
	return has(d.pebble, key, d.listener)
}

func (d *DB) Get(key []byte, cb func(value []byte) error) error {
	return get(d.pebble, key, cb, d.listener)
}

func (d *DB) Put(key, value []byte) error {
	d.listener.OnIO(true)
	return d.pebble.Set(key, value, pebble.Sync)
}

func (d *DB) Delete(key []byte) error {
	d.listener.OnIO(true)
	return d.pebble.Delete(key, pebble.Sync)
}

func (d *DB) NewBatch() db.Batch {
	return newBatch(d.pebble.NewBatch(), d.listener)
}

func (d *DB) NewSnapshot() db.Snapshot {
	return newSnapshot(d.pebble, d.listener)
}

// View : see db.Helper.View
func (d *DB) View(fn func(db.Snapshot) error) error {
	snap := d.NewSnapshot()
	return errors.Join(fn(snap), snap.Close())
}

// Update : see db.Helper.Update
func (d *DB) Update(fn func(db.Batch) error) error {
	b := newBatch(d.pebble.NewBatch(), d.listener)
	if err := fn(b); err != nil {
		return errors.Join(err, b.close())
	}
	return b.Write()
}

// Impl : see db.Helper.Impl
func (d *DB) Impl() any {
	return d.pebble
}

type getter interface {
	Get(key []byte) ([]byte, io.Closer, error)
}

func get(g getter, key []byte, cb func([]byte) error, listener db.EventListener) error {
	listener.OnIO(false)

	val, closer, err := g.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return db.ErrKeyNotFound
		}
		return err
	}

	return errors.Join(cb(val), closer.Close())
}

func has(g getter, key []byte, listener db.EventListener) (bool, error) {
	listener.OnIO(false)

	_, closer, err := g.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, closer.Close()
}
