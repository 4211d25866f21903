package pebble_test

import (
	"testing"

	"github.com/NethermindEth/blockifier/db"
	"github.com/NethermindEth/blockifier/db/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noop = func(val []byte) error {
	return nil
}

func TestUpdateAndView(t *testing.T) {
	t.Run("committed batch is visible", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		require.NoError(t, testDB.Update(func(b db.Batch) error {
			return b.Put([]byte("key"), []byte("value"))
		}))

		require.NoError(t, testDB.View(func(snap db.Snapshot) error {
			return snap.Get([]byte("key"), func(val []byte) error {
				assert.Equal(t, "value", string(val))
				return nil
			})
		}))
	})

	t.Run("failed update is not written", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		err := testDB.Update(func(b db.Batch) error {
			require.NoError(t, b.Put([]byte("key"), []byte("value")))
			return db.ErrKeyNotFound
		})
		require.ErrorIs(t, err, db.ErrKeyNotFound)

		has, err := testDB.Has([]byte("key"))
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestSnapshotIsolation(t *testing.T) {
	testDB := pebble.NewMemTest(t)
	require.NoError(t, testDB.Put([]byte("key"), []byte("old")))

	snap := testDB.NewSnapshot()
	t.Cleanup(func() {
		require.NoError(t, snap.Close())
	})

	require.NoError(t, testDB.Put([]byte("key"), []byte("new")))
	require.NoError(t, testDB.Put([]byte("other"), []byte("value")))

	require.NoError(t, snap.Get([]byte("key"), func(val []byte) error {
		assert.Equal(t, "old", string(val))
		return nil
	}))
	require.ErrorIs(t, snap.Get([]byte("other"), noop), db.ErrKeyNotFound)
}

func TestListener(t *testing.T) {
	var reads, writes int
	testDB := pebble.NewMemTest(t)
	testDB.WithListener(&db.SelectiveListener{
		OnIOCb: func(write bool) {
			if write {
				writes++
			} else {
				reads++
			}
		},
	})

	require.NoError(t, testDB.Put([]byte("key"), []byte("value")))
	require.NoError(t, testDB.Get([]byte("key"), noop))
	require.ErrorIs(t, testDB.Get([]byte("missing"), noop), db.ErrKeyNotFound)

	assert.Equal(t, 1, writes)
	assert.Equal(t, 2, reads)
}

func TestBatchDelete(t *testing.T) {
	testDB := pebble.NewMemTest(t)
	require.NoError(t, testDB.Put([]byte("key"), []byte("value")))

	b := testDB.NewBatch()
	require.NoError(t, b.Delete([]byte("key")))
	assert.Equal(t, 3, b.Size())
	require.NoError(t, b.Write())

	require.ErrorIs(t, testDB.Get([]byte("key"), noop), db.ErrKeyNotFound)
}
