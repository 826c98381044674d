package entries

import (
	"context"

	"github.com/dmitrijs2005/quicklog/internal/client/models"
)

// preallocRows caps the capacity reserved by ListRecent so a large limit
// costs no more than the rows actually returned.
const preallocRows = 64

// Repository describes the append-only operations on the entry log.
type Repository interface {
	// Insert stores a validated entry atomically and assigns entry.Id.
	// On failure nothing is stored and entry.Id is left untouched.
	Insert(ctx context.Context, entry *models.Entry) error

	// ListRecent returns at most limit entries, newest first (timestamp
	// descending, then id descending). A non-positive limit yields no rows.
	ListRecent(ctx context.Context, limit int) ([]models.Entry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)
}
