package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openDB(t *testing.T) *DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "tx.db")+"?_journal_mode=WAL")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = sqlDB.Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	return NewDB(sqlDB, zap.NewNop())
}

func countKeys(t *testing.T, db *DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	return n
}

func insert(ctx context.Context, db *DB, key string) error {
	_, err := ExecutorFor(ctx, db.DB).ExecContext(ctx, `INSERT INTO kv (k) VALUES (?)`, key)
	return err
}

func TestWithTransaction_NestedCallJoinsOuter(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTransaction(ctx, func(ctx context.Context) error {
		outer := TxFromContext(ctx)
		require.NotNil(t, outer)

		require.NoError(t, db.WithTransaction(ctx, func(inner context.Context) error {
			assert.Same(t, outer, TxFromContext(inner))
			return insert(inner, db, "a")
		}))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countKeys(t, db), "outer rollback discards the inner write")
}

func TestWithTransaction_Commit(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	require.NoError(t, db.WithTransaction(ctx, func(ctx context.Context) error {
		return insert(ctx, db, "a")
	}))
	assert.Equal(t, 1, countKeys(t, db))
	assert.Nil(t, TxFromContext(ctx))
}

func TestWithTransaction_CancelledContext(t *testing.T) {
	db := openDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := db.WithTransaction(ctx, func(ctx context.Context) error {
		return insert(ctx, db, "a")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, countKeys(t, db))
}

func TestIsConstraint(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	require.NoError(t, insert(ctx, db, "a"))
	err := insert(ctx, db, "a")
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	assert.False(t, IsBusy(err))
	assert.False(t, IsConstraint(errors.New("other")))
}
