package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/quicklog/internal/client/models"
	"github.com/dmitrijs2005/quicklog/internal/client/storage"
	"github.com/dmitrijs2005/quicklog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubClock(t *testing.T, times ...time.Time) {
	t.Helper()
	orig := timeNow
	t.Cleanup(func() { timeNow = orig })

	i := 0
	timeNow = func() time.Time {
		tm := times[min(i, len(times)-1)]
		i++
		return tm
	}
}

func newSQLiteService(t *testing.T) EntryService {
	t.Helper()
	path := storage.BackendSQLite.DatabasePath(t.TempDir(), storage.DatabaseName)
	e := storage.New(storage.Options{Backend: storage.BackendSQLite, Path: path}, nil)
	require.NoError(t, e.Initialize(context.Background()))
	t.Cleanup(func() { _ = e.Close() })
	return NewEntryService(e)
}

type fakeStore struct {
	appended  []*models.Entry
	appendErr error
	listErr   error
	countErr  error
	version   int64
}

func (f *fakeStore) Append(_ context.Context, e *models.Entry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	e.Id = int64(len(f.appended) + 1)
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeStore) ListRecent(_ context.Context, limit int) ([]models.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Entry{}
	for i := len(f.appended) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.appended[i])
	}
	return out, nil
}

func (f *fakeStore) Count(context.Context) (int64, error) {
	return int64(len(f.appended)), f.countErr
}

func (f *fakeStore) SchemaVersion() (int64, error) { return f.version, nil }

func TestCapture_StampsAndTrims(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 678_901_234, time.FixedZone("EET", 2*3600))
	stubClock(t, at)

	svc := newSQLiteService(t)
	e, err := svc.Capture(context.Background(), models.EntryTypeIssue, "  Spill in aisle 3 \n")
	require.NoError(t, err)

	assert.Equal(t, int64(1), e.Id)
	assert.Equal(t, "Spill in aisle 3", e.Content)
	assert.Equal(t, "2025-01-02T01:04:05.678Z", e.FormattedTimestamp())
	assert.False(t, e.Synced)
}

func TestCapture_RecentScenario(t *testing.T) {
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	stubClock(t, base, base.Add(time.Second), base.Add(2*time.Second))

	ctx := context.Background()
	svc := newSQLiteService(t)

	for _, in := range []struct {
		t       models.EntryType
		content string
	}{
		{models.EntryTypeIssue, "Spill in aisle 3"},
		{models.EntryTypeTask, "Restock"},
		{models.EntryTypeNote, "Delivery late"},
	} {
		_, err := svc.Capture(ctx, in.t, in.content)
		require.NoError(t, err)
	}

	got, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.EntryTypeNote, got[0].Type)
	assert.Equal(t, models.EntryTypeTask, got[1].Type)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Entries: 3, SchemaVersion: 1}, st)
}

func TestCapture_ValidationNeverReachesStore(t *testing.T) {
	store := &fakeStore{}
	svc := NewEntryService(store)

	_, err := svc.Capture(context.Background(), models.EntryTypeNote, "   ")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Capture(context.Background(), models.EntryType("bug"), "x")
	require.ErrorIs(t, err, common.ErrValidation)

	assert.Empty(t, store.appended)
}

func TestCapture_WriteErrorPropagates(t *testing.T) {
	cause := errors.New("disk full")
	store := &fakeStore{appendErr: errors.Join(common.ErrWrite, cause)}
	svc := NewEntryService(store)

	e, err := svc.Capture(context.Background(), models.EntryTypeTask, "restock")
	require.ErrorIs(t, err, common.ErrWrite)
	require.ErrorIs(t, err, cause)
	assert.Nil(t, e)
}

func TestRecentAndStats_Errors(t *testing.T) {
	store := &fakeStore{listErr: common.ErrRead, countErr: common.ErrRead}
	svc := NewEntryService(store)

	_, err := svc.Recent(context.Background(), 3)
	require.ErrorIs(t, err, common.ErrRead)

	_, err = svc.Stats(context.Background())
	require.ErrorIs(t, err, common.ErrRead)
}

func TestRecent_OnClosedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quicklog.bolt")
	e := storage.New(storage.Options{Backend: storage.BackendBolt, Path: path}, nil)
	require.NoError(t, e.Initialize(context.Background()))
	require.NoError(t, e.Close())

	_, err := NewEntryService(e).Recent(context.Background(), 1)
	require.ErrorIs(t, err, common.ErrClosed)
}
