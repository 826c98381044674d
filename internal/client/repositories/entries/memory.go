package entries

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/quicklog/internal/client/models"
)

// MemoryRepository keeps entries in process memory, sorted by (timestamp, id).
// It backs the degraded mode used when the durable store cannot be opened;
// everything it holds is lost on exit.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  []models.Entry
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Insert assigns the next id and places the entry at its sorted position.
func (r *MemoryRepository) Insert(ctx context.Context, e *models.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	item := *e
	item.Id = r.nextID

	pos := sort.Search(len(r.items), func(i int) bool {
		return newer(r.items[i], item)
	})
	r.items = append(r.items, models.Entry{})
	copy(r.items[pos+1:], r.items[pos:])
	r.items[pos] = item

	e.Id = item.Id
	return nil
}

// ListRecent reads the sorted slice from its tail.
func (r *MemoryRepository) ListRecent(ctx context.Context, limit int) ([]models.Entry, error) {
	if limit <= 0 {
		return []models.Entry{}, nil
	}
	result := make([]models.Entry, 0, min(limit, preallocRows))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.items) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.items[i])
	}
	return result, nil
}

// Count returns the number of entries held.
func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

// newer reports whether a sorts after b in recency order.
func newer(a, b models.Entry) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.Id > b.Id
}
