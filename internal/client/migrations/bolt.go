package migrations

import (
	"encoding/binary"
	"fmt"

	"github.com/dmitrijs2005/quicklog/internal/common"
	"go.etcd.io/bbolt"
)

// Bucket names of the bbolt layout.
const (
	BucketMeta         = "meta"          // key: schema_version -> uint64
	BucketEntries      = "entries"       // key: bigendian(id) -> Entry JSON
	BucketIdxTimestamp = "idx_timestamp" // key: timestamp 0x00 bigendian(id) -> nil
	BucketIdxType      = "idx_type"      // key: type 0x00 bigendian(id) -> nil
)

const schemaVersionKey = "schema_version"

// BoltMigration is one version step of the bbolt layout. Up runs inside the
// same write transaction that records the new version.
type BoltMigration struct {
	Version     int
	Description string
	Up          func(tx *bbolt.Tx) error
}

var boltMigrations = []BoltMigration{
	{
		Version:     1,
		Description: "create entries and indexes",
		Up: func(tx *bbolt.Tx) error {
			for _, name := range []string{BucketEntries, BucketIdxTimestamp, BucketIdxType} {
				if _, err := tx.CreateBucket([]byte(name)); err != nil {
					return fmt.Errorf("create bucket %s: %w", name, err)
				}
			}
			return nil
		},
	},
}

// BoltMigrations returns a copy of the ordered bbolt migrations.
func BoltMigrations() []BoltMigration {
	out := make([]BoltMigration, len(boltMigrations))
	copy(out, boltMigrations)
	return out
}

// RunBolt applies every migration newer than the stored version and returns
// the resulting version. Each step commits atomically with its version bump.
func RunBolt(db *bbolt.DB, steps []BoltMigration) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("run bolt migrations: db is nil")
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketMeta))
		return err
	}); err != nil {
		return 0, fmt.Errorf("ensure meta bucket: %w", err)
	}

	current, err := BoltVersion(db)
	if err != nil {
		return 0, err
	}

	latest := 0
	for _, m := range steps {
		if m.Version > latest {
			latest = m.Version
		}
	}
	if current > latest {
		return current, fmt.Errorf("%w: db=%d code=%d", common.ErrSchemaTooNew, current, latest)
	}

	for _, m := range steps {
		if m.Version <= current {
			continue
		}
		err := db.Update(func(tx *bbolt.Tx) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return putVersion(tx, m.Version)
		})
		if err != nil {
			return current, fmt.Errorf("migration v%d (%s): %w", m.Version, m.Description, err)
		}
		current = m.Version
	}

	return current, nil
}

// BoltVersion reads the stored schema version; a fresh file reports 0.
func BoltVersion(db *bbolt.DB) (int, error) {
	var version int
	err := db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket([]byte(BucketMeta))
		if meta == nil {
			return nil
		}
		v := meta.Get([]byte(schemaVersionKey))
		if v == nil {
			return nil
		}
		if len(v) != 8 {
			return fmt.Errorf("corrupt schema version value (%d bytes)", len(v))
		}
		version = int(binary.BigEndian.Uint64(v))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func putVersion(tx *bbolt.Tx, version int) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(version))
	return tx.Bucket([]byte(BucketMeta)).Put([]byte(schemaVersionKey), buf)
}
