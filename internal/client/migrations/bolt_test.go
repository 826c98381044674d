package migrations

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/quicklog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func openBolt(t *testing.T) *bbolt.DB {
	t.Helper()
	db, err := bbolt.Open(filepath.Join(t.TempDir(), "quicklog.bolt"), 0o600, &bbolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func bucketExists(t *testing.T, db *bbolt.DB, name string) bool {
	t.Helper()
	var ok bool
	require.NoError(t, db.View(func(tx *bbolt.Tx) error {
		ok = tx.Bucket([]byte(name)) != nil
		return nil
	}))
	return ok
}

func TestRunBolt_CreatesBuckets(t *testing.T) {
	db := openBolt(t)

	version, err := RunBolt(db, BoltMigrations())
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	for _, name := range []string{BucketMeta, BucketEntries, BucketIdxTimestamp, BucketIdxType} {
		assert.True(t, bucketExists(t, db, name), name)
	}
}

func TestRunBolt_IsIdempotent(t *testing.T) {
	db := openBolt(t)

	_, err := RunBolt(db, BoltMigrations())
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(BucketEntries)).Put([]byte("k"), []byte("v"))
	}))

	version, err := RunBolt(db, BoltMigrations())
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	require.NoError(t, db.View(func(tx *bbolt.Tx) error {
		assert.Equal(t, []byte("v"), tx.Bucket([]byte(BucketEntries)).Get([]byte("k")))
		return nil
	}))
}

func TestRunBolt_SchemaTooNew(t *testing.T) {
	db := openBolt(t)

	_, err := RunBolt(db, BoltMigrations())
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error { return putVersion(tx, 7) }))

	_, err = RunBolt(db, BoltMigrations())
	require.ErrorIs(t, err, common.ErrSchemaTooNew)
}

func TestRunBolt_FailedStepLeavesVersion(t *testing.T) {
	db := openBolt(t)

	steps := append(BoltMigrations(), BoltMigration{
		Version:     2,
		Description: "broken",
		Up: func(tx *bbolt.Tx) error {
			if _, err := tx.CreateBucket([]byte("half_done")); err != nil {
				return err
			}
			return errors.New("boom")
		},
	})

	version, err := RunBolt(db, steps)
	require.Error(t, err)
	assert.Equal(t, 1, version)

	stored, err := BoltVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
	assert.False(t, bucketExists(t, db, "half_done"), "failed step must roll back")
}

func TestRunBolt_NilDB(t *testing.T) {
	_, err := RunBolt(nil, BoltMigrations())
	require.Error(t, err)
}
