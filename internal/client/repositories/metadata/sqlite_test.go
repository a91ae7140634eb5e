package metadata

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB);`)
	require.NoError(t, err)
	return db
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, ok, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSet_Upsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", "old"))
	require.NoError(t, r.Set(ctx, "k", "new"))

	v, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestCurrentDir(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	dir, err := CurrentDir(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "", dir)

	require.NoError(t, SetCurrentDir(ctx, r, "/photos//2024/"))
	dir, err = CurrentDir(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "photos/2024", dir)

	v, _, err := r.Get(ctx, KeyCurrentDir)
	require.NoError(t, err)
	assert.Equal(t, "photos/2024", v)
}

func TestErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("database is locked")
	mock.ExpectQuery("SELECT value FROM metadata").WithArgs(KeyCurrentDir).WillReturnError(boom)
	mock.ExpectExec("INSERT INTO metadata").WithArgs(KeyCurrentDir, "docs").WillReturnError(boom)

	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err = CurrentDir(ctx, r)
	assert.ErrorContains(t, err, `failed to read state "cwd"`)
	assert.ErrorIs(t, err, boom)

	err = SetCurrentDir(ctx, r, "docs")
	assert.ErrorContains(t, err, `failed to save state "cwd"`)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}
