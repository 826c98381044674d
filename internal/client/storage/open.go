package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/quicklog/internal/client/migrations"
	"github.com/dmitrijs2005/quicklog/internal/client/repositories/entries"
	"github.com/dmitrijs2005/quicklog/internal/filex"
	"go.etcd.io/bbolt"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// sqlitePragmas are applied by the driver on every new connection.
const sqlitePragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

var errNoPath = errors.New("store path is empty")

func openSQLite(ctx context.Context, path string) (entries.Repository, int64, func() error, error) {
	if path == "" {
		return nil, 0, nil, errNoPath
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, 0, nil, err
	}

	db, err := sql.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps the pragmas consistent.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, 0, nil, fmt.Errorf("open sqlite: %w", err)
	}

	version, err := migrations.RunSQLite(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, 0, nil, err
	}

	return entries.NewSQLiteRepository(db), version, db.Close, nil
}

func openBolt(path string, timeout time.Duration) (entries.Repository, int64, func() error, error) {
	if path == "" {
		return nil, 0, nil, errNoPath
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, 0, nil, err
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, 0, nil, fmt.Errorf("open bolt: %w", err)
	}

	version, err := migrations.RunBolt(db, migrations.BoltMigrations())
	if err != nil {
		_ = db.Close()
		return nil, 0, nil, err
	}

	return entries.NewBoltRepository(db), int64(version), db.Close, nil
}

func openMemory() (entries.Repository, int64, func() error) {
	return entries.NewMemoryRepository(), migrations.SchemaVersion, nil
}
