package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db), db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", `{"userId":7}`))

	v, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"userId":7}`, v)
}

func TestGet_Absent(t *testing.T) {
	s, _ := setupStore(t)

	v, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "theme", "light"))
	require.NoError(t, s.Set(ctx, "theme", "dark"))

	v, ok, err := s.Get(ctx, "theme")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "dark", v)
}

func TestSet_EmptyStringIsPresent(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", ""))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRemove_IsIdempotent(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "x", "1"))
	require.NoError(t, s.Remove(ctx, "x"))

	_, ok, err := s.Get(ctx, "x")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Remove(ctx, "x"))
}

func TestRemoveMany_RemovesOnlyNamedKeys(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))
	require.NoError(t, s.Set(ctx, "c", "3"))

	require.NoError(t, s.RemoveMany(ctx, "a", "b", "never-set"))

	for key, want := range map[string]bool{"a": false, "b": false, "c": true} {
		_, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, ok, key)
	}
}

func TestRemoveMany_NoKeys(t *testing.T) {
	s, _ := setupStore(t)
	require.NoError(t, s.RemoveMany(context.Background()))
}

func TestStore_ErrorsAreWrapped(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := s.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[k]")

	err = s.Set(ctx, "k", "v")
	require.ErrorContains(t, err, "failed to set kv[k]")

	err = s.Remove(ctx, "k")
	require.ErrorContains(t, err, "failed to remove kv[k]")

	require.Error(t, s.RemoveMany(ctx, "k"))
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "client.db")

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, NewSQLiteStore(db).Set(ctx, "user-has-onboarded", "true"))
	require.NoError(t, db.Close())

	db, err = Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := NewSQLiteStore(db).Get(ctx, "user-has-onboarded")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	_, db := setupStore(t)
	require.NoError(t, RunMigrations(context.Background(), db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&n))
	require.Equal(t, 1, n)
}
