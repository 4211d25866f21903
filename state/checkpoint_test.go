package state_test

import (
	"testing"

	"github.com/NethermindEth/blockifier/core/felt"
	"github.com/NethermindEth/blockifier/state"
	"github.com/NethermindEth/blockifier/state/dictreader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storageAt(t *testing.T, cs *state.CachedState, addr, key felt.Felt) felt.Felt {
	t.Helper()
	value, err := cs.ContractStorage(&addr, &key)
	require.NoError(t, err)
	return value
}

func TestCheckpointAbortRestores(t *testing.T) {
	base := felt.FromUint64(1)
	prior := felt.FromUint64(2)
	written := felt.FromUint64(3)

	tests := map[string]struct {
		setup func(*dictreader.Reader, *state.CachedState)
		want  felt.Felt
	}{
		"never written": {
			setup: func(*dictreader.Reader, *state.CachedState) {},
			want:  felt.Zero,
		},
		"value in reader": {
			setup: func(r *dictreader.Reader, _ *state.CachedState) {
				r.SetStorage(addr, key, base)
			},
			want: base,
		},
		"value in overlay": {
			setup: func(r *dictreader.Reader, cs *state.CachedState) {
				r.SetStorage(addr, key, base)
				cs.SetStorage(&addr, &key, &prior)
			},
			want: prior,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			reader := dictreader.New()
			cs := state.NewCachedState(reader)
			test.setup(reader, cs)

			cp := cs.Begin()
			cs.SetStorage(&addr, &key, &written)
			assert.Equal(t, written, storageAt(t, cs, addr, key))

			require.NoError(t, cs.Abort(cp))
			assert.Equal(t, test.want, storageAt(t, cs, addr, key))
			assert.Equal(t, 0, cs.Depth())
		})
	}
}

func TestCheckpointAbortRemovesOverlayEntries(t *testing.T) {
	cs := state.NewCachedState(dictreader.New())
	value := felt.FromUint64(3)

	cp := cs.Begin()
	cs.SetStorage(&addr, &key, &value)
	cs.SetClassHash(&addr, &classHash)
	cs.SetContractClass(&classHash, &state.CompiledClass{})
	cs.SetCompiledClassHash(&classHash, &value)
	require.NoError(t, cs.IncrementNonce(&addr))
	require.NoError(t, cs.Abort(cp))

	assert.Zero(t, cs.Writes().Len())
	_, err := cs.CompiledClass(&classHash)
	require.ErrorIs(t, err, state.ErrClassNotFound)
}

func TestCheckpointCommitIsVisibleToParent(t *testing.T) {
	cs := state.NewCachedState(dictreader.New())
	inner := felt.FromUint64(5)

	outer := cs.Begin()
	cp := cs.Begin()
	cs.SetStorage(&addr, &key, &inner)
	require.NoError(t, cs.Commit(cp))
	assert.Equal(t, inner, storageAt(t, cs, addr, key))
	assert.Equal(t, 1, cs.Depth())

	require.NoError(t, cs.Commit(outer))
	assert.Equal(t, inner, storageAt(t, cs, addr, key))
}

func TestCheckpointAbortUndoesCommittedChildren(t *testing.T) {
	reader := dictreader.New()
	reader.SetStorage(addr, key, felt.FromUint64(1))
	cs := state.NewCachedState(reader)

	outer := cs.Begin()
	two := felt.FromUint64(2)
	cs.SetStorage(&addr, &key, &two)

	for i := uint64(0); i < 3; i++ {
		cp := cs.Begin()
		value := felt.FromUint64(10 + i)
		cs.SetStorage(&addr, &key, &value)
		require.NoError(t, cs.Commit(cp))
	}

	aborted := cs.Begin()
	discarded := felt.FromUint64(99)
	cs.SetStorage(&addr, &key, &discarded)
	require.NoError(t, cs.Abort(aborted))
	assert.Equal(t, felt.FromUint64(12), storageAt(t, cs, addr, key))

	require.NoError(t, cs.Abort(outer))
	assert.Equal(t, felt.FromUint64(1), storageAt(t, cs, addr, key))
}

func TestCheckpointCommitOfOutermostIsPermanent(t *testing.T) {
	cs := state.NewCachedState(dictreader.New())
	first := felt.FromUint64(1)
	second := felt.FromUint64(2)

	cp := cs.Begin()
	cs.SetStorage(&addr, &key, &first)
	require.NoError(t, cs.Commit(cp))

	cp = cs.Begin()
	cs.SetStorage(&addr, &key, &second)
	require.NoError(t, cs.Abort(cp))

	assert.Equal(t, first, storageAt(t, cs, addr, key))
}

func TestInvalidCheckpoint(t *testing.T) {
	t.Run("out of order", func(t *testing.T) {
		cs := state.NewCachedState(dictreader.New())
		value := felt.FromUint64(1)

		outer := cs.Begin()
		inner := cs.Begin()
		cs.SetStorage(&addr, &key, &value)

		require.ErrorIs(t, cs.Abort(outer), state.ErrInvalidCheckpoint)
		require.ErrorIs(t, cs.Commit(outer), state.ErrInvalidCheckpoint)

		// nothing changed
		assert.Equal(t, 2, cs.Depth())
		assert.Equal(t, value, storageAt(t, cs, addr, key))

		require.NoError(t, cs.Abort(inner))
		require.NoError(t, cs.Abort(outer))
	})

	t.Run("double close", func(t *testing.T) {
		cs := state.NewCachedState(dictreader.New())
		cp := cs.Begin()
		require.NoError(t, cs.Commit(cp))
		require.ErrorIs(t, cs.Commit(cp), state.ErrInvalidCheckpoint)
		require.ErrorIs(t, cs.Abort(cp), state.ErrInvalidCheckpoint)
	})

	t.Run("stale handle at a reused depth", func(t *testing.T) {
		cs := state.NewCachedState(dictreader.New())
		stale := cs.Begin()
		require.NoError(t, cs.Abort(stale))

		fresh := cs.Begin()
		require.ErrorIs(t, cs.Abort(stale), state.ErrInvalidCheckpoint)
		require.NoError(t, cs.Abort(fresh))
	})

	t.Run("handle of another state", func(t *testing.T) {
		cs := state.NewCachedState(dictreader.New())
		other := state.NewCachedState(dictreader.New())
		cp := other.Begin()
		cs.Begin()
		require.ErrorIs(t, cs.Abort(cp), state.ErrInvalidCheckpoint)
	})

	t.Run("zero handle", func(t *testing.T) {
		cs := state.NewCachedState(dictreader.New())
		require.ErrorIs(t, cs.Commit(state.Checkpoint{}), state.ErrInvalidCheckpoint)
	})
}

func TestChangesSince(t *testing.T) {
	reader := dictreader.New()
	one := felt.FromUint64(1)
	reader.SetStorage(addr, key, one)
	cs := state.NewCachedState(reader)

	otherKey := felt.FromUint64(0x20)
	otherAddr := felt.FromUint64(0x200)
	five := felt.FromUint64(5)

	cp := cs.Begin()
	// written back to the base value
	cs.SetStorage(&addr, &key, &five)
	cs.SetStorage(&addr, &key, &one)
	// two cells of one contract
	cs.SetStorage(&otherAddr, &key, &five)
	cs.SetStorage(&otherAddr, &otherKey, &five)
	require.NoError(t, cs.IncrementNonce(&addr))

	changes, err := cs.ChangesSince(cp)
	require.NoError(t, err)
	assert.Equal(t, state.StateChanges{
		StorageCells:      2,
		Nonces:            1,
		ModifiedContracts: 2,
	}, changes)

	inner := cs.Begin()
	changes, err = cs.ChangesSince(inner)
	require.NoError(t, err)
	assert.Equal(t, state.StateChanges{}, changes)

	require.NoError(t, cs.Commit(inner))
	require.NoError(t, cs.Commit(cp))
	_, err = cs.ChangesSince(cp)
	require.ErrorIs(t, err, state.ErrInvalidCheckpoint)
}
