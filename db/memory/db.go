package memory

import (
	"errors"
	"slices"
	"sync"

	"github.com/NethermindEth/blockifier/db"
)

var errDBClosed = errors.New("memory database closed")

var _ db.KeyValueStore = (*Database)(nil)

// Represents an in-memory key-value store.
// It is thread-safe.
type Database struct {
	db       map[string][]byte
	lock     sync.RWMutex
	listener db.EventListener
}

func New() *Database {
	return &Database{
		db:       make(map[string][]byte),
		listener: &db.SelectiveListener{},
	}
}

func (d *Database) Has(key []byte) (bool, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.db == nil {
		return false, errDBClosed
	}

	_, ok := d.db[string(key)]
	return ok, nil
}

func (d *Database) Get(key []byte, cb func(value []byte) error) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.db == nil {
		return errDBClosed
	}
	d.listener.OnIO(false)

	val, ok := d.db[string(key)]
	if !ok {
		return db.ErrKeyNotFound
	}

	return cb(val)
}

func (d *Database) Put(key, value []byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.db == nil {
		return errDBClosed
	}
	d.listener.OnIO(true)

	d.db[string(key)] = slices.Clone(value)
	return nil
}

func (d *Database) Delete(key []byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.db == nil {
		return errDBClosed
	}
	d.listener.OnIO(true)

	delete(d.db, string(key))
	return nil
}

func (d *Database) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.db = nil
	return nil
}

func (d *Database) NewBatch() db.Batch { return newBatch(d) }

// NewSnapshot returns a deep copy of the store. Writes to the store after
// this call are not visible through the snapshot.
func (d *Database) NewSnapshot() db.Snapshot {
	if d.db == nil {
		panic(errDBClosed)
	}
	return d.Copy()
}

func (d *Database) Update(fn func(db.Batch) error) error {
	if d.db == nil {
		return errDBClosed
	}

	batch := d.NewBatch()
	if err := fn(batch); err != nil {
		return err
	}

	return batch.Write()
}

func (d *Database) View(fn func(db.Snapshot) error) error {
	if d.db == nil {
		return errDBClosed
	}

	snap := d.NewSnapshot()
	defer snap.Close()
	return fn(snap)
}

func (d *Database) WithListener(listener db.EventListener) db.KeyValueStore {
	d.listener = listener
	return d
}

// Returns a deep Copy of the key-value store
func (d *Database) Copy() *Database {
	d.lock.RLock()
	defer d.lock.RUnlock()

	cp := &Database{
		db:       make(map[string][]byte, len(d.db)),
		listener: d.listener,
	}

	for k, v := range d.db {
		cp.db[k] = slices.Clone(v)
	}

	return cp
}

func (d *Database) Impl() any {
	return d.db
}
