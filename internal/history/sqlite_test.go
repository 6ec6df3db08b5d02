package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(Options{})

	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Close())
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(Options{})
	ctx := context.Background()

	_, err := store.Record(ctx, "1", 1)
	assert.Error(t, err)
	_, err = store.List(ctx)
	assert.Error(t, err)
	assert.Error(t, store.Clear(ctx))
	assert.Error(t, store.Migrate())
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	store, err := Open(path, Options{})
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, path)
	assert.Equal(t, path, store.(*SQLiteStore).Path())
}

func TestSQLiteStore_MigrationVersion(t *testing.T) {
	store := NewSQLiteStore(Options{})
	require.NoError(t, store.Open(":memory:"))
	defer store.Close()

	require.NoError(t, store.Migrate())
	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Migrating twice is a no-op.
	require.NoError(t, store.Migrate())
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path, Options{})
	require.NoError(t, err)
	_, err = store.Record(ctx, "6 * 7", 42)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path, Options{})
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "6 * 7", entries[0].Expression)
}

func TestSQLiteStore_DatabaseErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	t.Run("insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO history").WillReturnError(boom)
		mock.ExpectRollback()

		store := NewSQLiteStoreWithDB(db, Options{})
		_, err = store.Record(ctx, "1 + 1", 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to record calculation")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("prune failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO history").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM history WHERE created_at").WillReturnError(boom)
		mock.ExpectRollback()

		store := NewSQLiteStoreWithDB(db, Options{})
		_, err = store.Record(ctx, "1 + 1", 2)
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT id, expression, result, created_at FROM history").WillReturnError(boom)

		store := NewSQLiteStoreWithDB(db, Options{})
		_, err = store.List(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to list history")
	})

	t.Run("corrupt result", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "expression", "result", "created_at"}).
			AddRow("abc", "1 + 1", "two", int64(0))
		mock.ExpectQuery("SELECT id, expression, result, created_at FROM history").WillReturnRows(rows)

		store := NewSQLiteStoreWithDB(db, Options{Retention: -1})
		_, err = store.List(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid result for entry abc")
	})

	t.Run("clear failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM history").WillReturnError(boom)

		store := NewSQLiteStoreWithDB(db, Options{})
		err = store.Clear(ctx)
		assert.ErrorIs(t, err, boom)
	})
}
