package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/quicklog/internal/client/models"
)

// timeNow is the clock entries are stamped with; tests replace it.
var timeNow = time.Now

// Store is the part of storage.Engine the service depends on.
type Store interface {
	Append(ctx context.Context, entry *models.Entry) error
	ListRecent(ctx context.Context, limit int) ([]models.Entry, error)
	Count(ctx context.Context) (int64, error)
	SchemaVersion() (int64, error)
}

// Stats summarizes the store for the info command.
type Stats struct {
	Entries       int64
	SchemaVersion int64
}

type EntryService interface {
	// Capture builds an entry from raw user input, stamps it with the
	// current time and appends it. Validation failures never reach the store.
	Capture(ctx context.Context, t models.EntryType, content string) (*models.Entry, error)

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]models.Entry, error)

	Stats(ctx context.Context) (Stats, error)
}

type entryService struct {
	store Store
}

func NewEntryService(store Store) EntryService {
	return &entryService{store: store}
}

func (s *entryService) Capture(ctx context.Context, t models.EntryType, content string) (*models.Entry, error) {
	e, err := models.NewEntry(t, content, timeNow())
	if err != nil {
		return nil, err
	}

	if err := s.store.Append(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *entryService) Recent(ctx context.Context, limit int) ([]models.Entry, error) {
	return s.store.ListRecent(ctx, limit)
}

func (s *entryService) Stats(ctx context.Context) (Stats, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return Stats{}, err
	}

	v, err := s.store.SchemaVersion()
	if err != nil {
		return Stats{}, fmt.Errorf("schema version: %w", err)
	}

	return Stats{Entries: n, SchemaVersion: v}, nil
}
