package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestSQLite(t *testing.T, path string) *SQLiteStore {
	store, err := NewSQLiteStore(path, "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.RunMigrations())
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := setupTestSQLite(t, ":memory:")
	ctx := context.Background()

	_, err := store.Get(ctx, CartKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, CartKey, []byte(`[{"_id":"p1"}]`)))
	require.NoError(t, store.Set(ctx, CartKey, []byte(`[{"_id":"p2"}]`)))

	v, err := store.Get(ctx, CartKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"_id":"p2"}]`, string(v))

	require.NoError(t, store.Delete(ctx, CartKey))
	_, err = store.Get(ctx, CartKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(path, "")
	require.NoError(t, err)
	require.NoError(t, first.RunMigrations())
	require.NoError(t, first.Set(ctx, UserKey, []byte(`{"name":"A"}`)))
	require.NoError(t, first.Close())

	second := setupTestSQLite(t, path)
	v, err := second.Get(ctx, UserKey)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"A"}`, string(v))
}

func TestSQLiteStore_CancelledContext(t *testing.T) {
	store := setupTestSQLite(t, ":memory:")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, CartKey)
	assert.Error(t, err)
}
