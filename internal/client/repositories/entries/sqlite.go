package entries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/quicklog/internal/client/models"
	"github.com/dmitrijs2005/quicklog/internal/dbx"
)

// SQLiteRepository implements Repository over a SQLite database migrated to
// the entries schema.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert writes the entry in its own transaction and assigns the rowid.
func (r *SQLiteRepository) Insert(ctx context.Context, e *models.Entry) error {
	var id int64
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `INSERT INTO entries (type, content, timestamp, synced) VALUES (?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, query,
			string(e.Type), e.Content, models.FormatTimestamp(e.Timestamp), e.Synced)
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get inserted id: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.Id = id
	return nil
}

// ListRecent reads the newest entries through idx_entries_timestamp. The index
// carries the rowid, so the id tie-break needs no extra sort.
func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]models.Entry, error) {
	if limit <= 0 {
		return []models.Entry{}, nil
	}
	result := make([]models.Entry, 0, min(limit, preallocRows))

	query := `SELECT id, type, content, timestamp, synced FROM entries
		ORDER BY timestamp DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item      models.Entry
			entryType string
			ts        string
		)
		if err := rows.Scan(&item.Id, &entryType, &item.Content, &ts, &item.Synced); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		item.Type = models.EntryType(entryType)
		if item.Timestamp, err = models.ParseTimestamp(ts); err != nil {
			return nil, fmt.Errorf("entry %d: %w", item.Id, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of rows in entries.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}
