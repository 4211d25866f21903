package pebble

import (
	"github.com/NethermindEth/blockifier/db"
	"github.com/cockroachdb/pebble"
)

var _ db.Batch = (*batch)(nil)

type batch struct {
	batch    *pebble.Batch
	size     int // size of the batch in bytes
	listener db.EventListener
}

func newBatch(dbBatch *pebble.Batch, listener db.EventListener) *batch {
	return &batch{
		batch:    dbBatch,
		listener: listener,
	}
}

func (b *batch) Put(key, value []byte) error {
	if b.batch == nil {
		return pebble.ErrClosed
	}
	b.listener.OnIO(true)

	if err := b.batch.Set(key, value, pebble.Sync); err != nil {
		return err
	}
	b.size += len(key) + len(value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	if b.batch == nil {
		return pebble.ErrClosed
	}
	b.listener.OnIO(true)

	if err := b.batch.Delete(key, pebble.Sync); err != nil {
		return err
	}
	b.size += len(key)
	return nil
}

func (b *batch) Size() int {
	return b.size
}

func (b *batch) Write() error {
	if b.batch == nil {
		return pebble.ErrClosed
	}

	if err := b.batch.Commit(pebble.Sync); err != nil {
		return err
	}

	return b.close()
}

func (b *batch) Reset() {
	if b.batch != nil {
		b.batch.Reset()
	}
	b.size = 0
}

func (b *batch) close() error {
	if b.batch == nil {
		return pebble.ErrClosed
	}

	if err := b.batch.Close(); err != nil {
		return err
	}

	// Clear all the fields to prevent any further use of the batch.
	*b = batch{}
	return nil
}
