// Package storagetest holds a conformance suite every storage.Store must pass.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dailysplit/internal/storage"
)

// Run exercises store against the storage.Store contract. The store must start empty.
func Run(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get on missing key returns ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
	})

	t.Run("Set then Get round-trips the blob", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "groups", []byte(`[{"id":"g1"}]`)))

		got, err := store.Get(ctx, "groups")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"g1"}]`, string(got))
	})

	t.Run("Set replaces the previous value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "theme", []byte(`"light"`)))
		require.NoError(t, store.Set(ctx, "theme", []byte(`"dark"`)))

		got, err := store.Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, `"dark"`, string(got))
	})

	t.Run("Remove deletes the key", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "currentUser", []byte(`{"id":"u1"}`)))
		require.NoError(t, store.Remove(ctx, "currentUser"))

		_, err := store.Get(ctx, "currentUser")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Remove on missing key is not an error", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, "never-set"))
	})

	t.Run("SetAll writes every entry", func(t *testing.T) {
		err := storage.SetAll(ctx, store, []storage.Entry{
			{Key: "batch-a", Value: []byte("1")},
			{Key: "batch-b", Value: []byte("2")},
		})
		require.NoError(t, err)

		a, err := store.Get(ctx, "batch-a")
		require.NoError(t, err)
		b, err := store.Get(ctx, "batch-b")
		require.NoError(t, err)
		assert.Equal(t, "1", string(a))
		assert.Equal(t, "2", string(b))
	})

	t.Run("stored value is not aliased to the caller's slice", func(t *testing.T) {
		buf := []byte("original")
		require.NoError(t, store.Set(ctx, "alias", buf))
		copy(buf, "mutated!")

		got, err := store.Get(ctx, "alias")
		require.NoError(t, err)
		assert.Equal(t, "original", string(got))
	})
}
