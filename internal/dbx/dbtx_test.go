package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophdrive/internal/common"
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
	_, err = db.Exec(`CREATE TABLE upload_chunks (task_id TEXT, chunk_index INTEGER);`)
	require.NoError(t, err)
	return db
}

func countChunks(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM upload_chunks`).Scan(&n))
	return n
}

func insert(ctx context.Context, tx DBTX, idx int) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO upload_chunks (task_id, chunk_index) VALUES ('t1', ?)`, idx)
	return err
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := WithTx(ctx, db, func(tx DBTX) error {
		if err := insert(ctx, tx, 0); err != nil {
			return err
		}
		return insert(ctx, tx, 1)
	})

	require.NoError(t, err)
	assert.Equal(t, 2, countChunks(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := WithTx(ctx, db, func(tx DBTX) error {
		require.NoError(t, insert(ctx, tx, 0))
		return errors.New("boom")
	})

	assert.EqualError(t, err, "boom")
	assert.Equal(t, 0, countChunks(t, db))
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(ctx, db, func(tx DBTX) error {
			require.NoError(t, insert(ctx, tx, 0))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, countChunks(t, db))
}

func TestWithTx_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	err = WithTx(context.Background(), db, func(tx DBTX) error {
		t.Fatal("fn must not run")
		return nil
	})

	assert.ErrorContains(t, err, "begin transaction: database is locked")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAffected(t *testing.T) {
	boom := errors.New("boom")

	assert.NoError(t, Affected(sqlmock.NewResult(0, 1), nil))
	assert.ErrorIs(t, Affected(sqlmock.NewResult(0, 0), nil), common.ErrNotFound)
	assert.ErrorIs(t, Affected(nil, boom), boom)
	assert.ErrorContains(t, Affected(sqlmock.NewErrorResult(boom), nil), "rows affected")
}
