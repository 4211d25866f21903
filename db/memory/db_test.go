package memory_test

import (
	"testing"

	"github.com/NethermindEth/blockifier/db"
	"github.com/NethermindEth/blockifier/db/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotIsACopy(t *testing.T) {
	memDB := memory.New()
	require.NoError(t, memDB.Put([]byte("key"), []byte("old")))

	snap := memDB.NewSnapshot()
	require.NoError(t, memDB.Put([]byte("key"), []byte("new")))

	require.NoError(t, snap.Get([]byte("key"), func(val []byte) error {
		assert.Equal(t, "old", string(val))
		return nil
	}))
	require.NoError(t, snap.Close())
}

func TestBatchPreservesWriteOrder(t *testing.T) {
	memDB := memory.New()

	require.NoError(t, memDB.Update(func(b db.Batch) error {
		require.NoError(t, b.Put([]byte("key"), []byte("first")))
		require.NoError(t, b.Delete([]byte("key")))
		return b.Put([]byte("key"), []byte("last"))
	}))

	require.NoError(t, memDB.Get([]byte("key"), func(val []byte) error {
		assert.Equal(t, "last", string(val))
		return nil
	}))
}

func TestClosed(t *testing.T) {
	memDB := memory.New()
	require.NoError(t, memDB.Close())

	_, err := memDB.Has([]byte("key"))
	require.Error(t, err)
	require.Error(t, memDB.Put([]byte("key"), nil))
}
