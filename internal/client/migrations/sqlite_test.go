package migrations

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/quicklog/internal/common"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "quicklog.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sqliteObjectExists(t *testing.T, db *sql.DB, kind, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type=? AND name=?`, kind, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestRunSQLite_CreatesSchema(t *testing.T) {
	db := openDB(t)

	version, err := RunSQLite(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(SchemaVersion), version)

	assert.True(t, sqliteObjectExists(t, db, "table", "entries"))
	assert.True(t, sqliteObjectExists(t, db, "table", "goose_db_version"))
	assert.True(t, sqliteObjectExists(t, db, "index", "idx_entries_timestamp"))
	assert.True(t, sqliteObjectExists(t, db, "index", "idx_entries_type"))
}

func TestRunSQLite_IsIdempotent(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	_, err := RunSQLite(ctx, db)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO entries(type, content, timestamp) VALUES ('note', 'keep me', '2024-01-01T00:00:00.000Z')`)
	require.NoError(t, err)

	version, err := RunSQLite(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(SchemaVersion), version)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n))
	assert.Equal(t, 1, n)

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM goose_db_version WHERE version_id = 1`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestRunSQLite_SchemaTooNew(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	_, err := RunSQLite(ctx, db)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO goose_db_version(version_id, is_applied) VALUES (99, 1)`)
	require.NoError(t, err)

	_, err = RunSQLite(ctx, db)
	require.ErrorIs(t, err, common.ErrSchemaTooNew)
}

func TestRunSQLite_UpError(t *testing.T) {
	db := openDB(t)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return errors.New("boom")
	}
	t.Cleanup(func() { gooseUpContext = orig })

	_, err := RunSQLite(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestSQLiteVersion(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	v, err := SQLiteVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	_, err = RunSQLite(ctx, db)
	require.NoError(t, err)

	v, err = SQLiteVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(SchemaVersion), v)
}
