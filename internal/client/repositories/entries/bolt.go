package entries

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/quicklog/internal/client/migrations"
	"github.com/dmitrijs2005/quicklog/internal/client/models"
	"go.etcd.io/bbolt"
)

var (
	bucketEntries      = []byte(migrations.BucketEntries)
	bucketIdxTimestamp = []byte(migrations.BucketIdxTimestamp)
	bucketIdxType      = []byte(migrations.BucketIdxType)
)

var errMissingBucket = errors.New("bucket missing, store not migrated")

// boltRecord is the JSON value stored under bigendian(id) in the entries bucket.
type boltRecord struct {
	Id        int64  `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Synced    bool   `json:"synced"`
}

// BoltRepository implements Repository over a bbolt file migrated with
// migrations.RunBolt. Ids come from the entries bucket sequence.
type BoltRepository struct {
	db *bbolt.DB
}

// NewBoltRepository returns a new BoltRepository bound to db.
func NewBoltRepository(db *bbolt.DB) *BoltRepository {
	return &BoltRepository{db: db}
}

// Insert stores the record and both index keys in one write transaction.
func (r *BoltRepository) Insert(ctx context.Context, e *models.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var id int64
	err := r.db.Update(func(tx *bbolt.Tx) error {
		entries := tx.Bucket(bucketEntries)
		byTime := tx.Bucket(bucketIdxTimestamp)
		byType := tx.Bucket(bucketIdxType)
		if entries == nil || byTime == nil || byType == nil {
			return errMissingBucket
		}

		seq, err := entries.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate id: %w", err)
		}
		id = int64(seq)

		ts := models.FormatTimestamp(e.Timestamp)
		data, err := json.Marshal(boltRecord{
			Id:        id,
			Type:      string(e.Type),
			Content:   e.Content,
			Timestamp: ts,
			Synced:    e.Synced,
		})
		if err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}

		key := idKey(id)
		if err := entries.Put(key, data); err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
		if err := byTime.Put(indexKey(ts, id), nil); err != nil {
			return fmt.Errorf("failed to index entry timestamp: %w", err)
		}
		if err := byType.Put(indexKey(string(e.Type), id), nil); err != nil {
			return fmt.Errorf("failed to index entry type: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.Id = id
	return nil
}

// ListRecent walks idx_timestamp backwards from its last key.
func (r *BoltRepository) ListRecent(ctx context.Context, limit int) ([]models.Entry, error) {
	if limit <= 0 {
		return []models.Entry{}, nil
	}
	result := make([]models.Entry, 0, min(limit, preallocRows))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := r.db.View(func(tx *bbolt.Tx) error {
		entries := tx.Bucket(bucketEntries)
		byTime := tx.Bucket(bucketIdxTimestamp)
		if entries == nil || byTime == nil {
			return errMissingBucket
		}

		c := byTime.Cursor()
		for k, _ := c.Last(); k != nil && len(result) < limit; k, _ = c.Prev() {
			if len(k) < 9 {
				return fmt.Errorf("corrupt timestamp index key %x", k)
			}
			idBytes := k[len(k)-8:]
			v := entries.Get(idBytes)
			if v == nil {
				return fmt.Errorf("index points at missing entry %d", binary.BigEndian.Uint64(idBytes))
			}

			item, err := decodeBoltRecord(v)
			if err != nil {
				return err
			}
			result = append(result, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	return result, nil
}

// Count returns the number of keys in the entries bucket.
func (r *BoltRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int64
	err := r.db.View(func(tx *bbolt.Tx) error {
		entries := tx.Bucket(bucketEntries)
		if entries == nil {
			return errMissingBucket
		}
		n = int64(entries.Stats().KeyN)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

func decodeBoltRecord(v []byte) (models.Entry, error) {
	var rec boltRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return models.Entry{}, fmt.Errorf("failed to decode entry: %w", err)
	}
	ts, err := models.ParseTimestamp(rec.Timestamp)
	if err != nil {
		return models.Entry{}, fmt.Errorf("entry %d: %w", rec.Id, err)
	}
	return models.Entry{
		Id:        rec.Id,
		Type:      models.EntryType(rec.Type),
		Content:   rec.Content,
		Timestamp: ts,
		Synced:    rec.Synced,
	}, nil
}

func idKey(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// indexKey orders by prefix first and id second.
func indexKey(prefix string, id int64) []byte {
	k := make([]byte, 0, len(prefix)+9)
	k = append(k, prefix...)
	k = append(k, 0)
	return append(k, idKey(id)...)
}
