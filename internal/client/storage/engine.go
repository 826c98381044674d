package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/quicklog/internal/client/models"
	"github.com/dmitrijs2005/quicklog/internal/client/repositories/entries"
	"github.com/dmitrijs2005/quicklog/internal/common"
	"github.com/dmitrijs2005/quicklog/internal/logging"
)

// DefaultRecentLimit is used by ListRecent when the caller passes a
// non-positive limit.
const DefaultRecentLimit = 10

// maxClockSkew is how far ahead of the engine's clock an entry timestamp
// may be. Entries are stamped by models.NewEntry moments before Append, so
// anything later was not stamped from the clock.
const maxClockSkew = time.Minute

// DefaultBoltOpenTimeout bounds how long Initialize waits for the bolt file
// lock held by another process.
const DefaultBoltOpenTimeout = time.Second

// Options describes the store an Engine opens.
type Options struct {
	Backend Backend

	// Path is the store file. Ignored by the memory backend.
	Path string

	BoltOpenTimeout time.Duration
}

type state int

const (
	stateNew state = iota
	stateReady
	stateClosed
)

// Engine owns the store handle and serializes its lifecycle. Append,
// ListRecent and Count may be called concurrently once Initialize returned.
type Engine struct {
	opts Options
	log  logging.Logger
	now  func() time.Time

	mu      sync.RWMutex
	state   state
	repo    entries.Repository
	version int64
	closeFn func() error
}

// New returns an engine that has not opened anything yet.
func New(opts Options, log logging.Logger) *Engine {
	if opts.Backend == "" {
		opts.Backend = BackendSQLite
	}
	if opts.BoltOpenTimeout <= 0 {
		opts.BoltOpenTimeout = DefaultBoltOpenTimeout
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{
		opts: opts,
		log:  log.With("backend", string(opts.Backend)),
		now:  time.Now,
	}
}

// Backend reports the backend the engine was built for.
func (e *Engine) Backend() Backend { return e.opts.Backend }

// Path reports the store location, empty for the memory backend.
func (e *Engine) Path() string {
	if e.opts.Backend == BackendMemory {
		return ""
	}
	return e.opts.Path
}

// Initialize opens the store and brings its schema to the current version.
// It is safe to call repeatedly; only the first successful call does work.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case stateReady:
		return nil
	case stateClosed:
		return fmt.Errorf("%w: %w", common.ErrInitialization, common.ErrClosed)
	}

	var (
		repo    entries.Repository
		version int64
		closeFn func() error
		err     error
	)
	switch e.opts.Backend {
	case BackendSQLite:
		repo, version, closeFn, err = openSQLite(ctx, e.opts.Path)
	case BackendBolt:
		repo, version, closeFn, err = openBolt(e.opts.Path, e.opts.BoltOpenTimeout)
	case BackendMemory:
		repo, version, closeFn = openMemory()
	default:
		err = fmt.Errorf("%w: %q", common.ErrUnknownBackend, e.opts.Backend)
	}
	if err != nil {
		e.log.Error(ctx, "store initialization failed", "path", e.opts.Path, "err", err)
		return fmt.Errorf("%w: %w", common.ErrInitialization, err)
	}

	e.attach(repo, version, closeFn)
	e.log.Info(ctx, "store ready", "path", e.Path(), "schema_version", version)
	return nil
}

// attach installs an opened repository. Callers hold e.mu.
func (e *Engine) attach(repo entries.Repository, version int64, closeFn func() error) {
	e.repo = repo
	e.version = version
	e.closeFn = closeFn
	e.state = stateReady
}

// usable reports why the engine cannot serve requests. Callers hold e.mu.
func (e *Engine) usable() error {
	switch e.state {
	case stateNew:
		return common.ErrNotInitialized
	case stateClosed:
		return common.ErrClosed
	}
	return nil
}

// Append validates entry and stores it atomically. On success entry.Id holds
// the assigned id; on failure nothing is stored and entry is unchanged.
//
// Entries must be built with models.NewEntry, which stamps the creation time
// and leaves Id and Synced unset. Anything else, such as a pre-assigned id,
// Synced set or a timestamp ahead of the clock, fails with
// common.ErrValidation.
func (e *Engine) Append(ctx context.Context, entry *models.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if limit := e.now().Add(maxClockSkew); entry.Timestamp.After(limit) {
		return fmt.Errorf("%w: timestamp %s is ahead of the clock", common.ErrValidation, entry.FormattedTimestamp())
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.usable(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrWrite, err)
	}

	if err := e.repo.Insert(ctx, entry); err != nil {
		e.log.Error(ctx, "append failed", "type", entry.Type, "err", err)
		return fmt.Errorf("%w: %w", common.ErrWrite, err)
	}

	e.log.Debug(ctx, "entry appended", "id", entry.Id, "type", entry.Type)
	return nil
}

// ListRecent returns up to limit entries, newest first. A non-positive limit
// means DefaultRecentLimit. The result is never nil on success.
func (e *Engine) ListRecent(ctx context.Context, limit int) ([]models.Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.usable(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRead, err)
	}

	list, err := e.repo.ListRecent(ctx, limit)
	if err != nil {
		e.log.Error(ctx, "list recent failed", "limit", limit, "err", err)
		return nil, fmt.Errorf("%w: %w", common.ErrRead, err)
	}
	return list, nil
}

// Count returns the number of stored entries.
func (e *Engine) Count(ctx context.Context) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.usable(); err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrRead, err)
	}

	n, err := e.repo.Count(ctx)
	if err != nil {
		e.log.Error(ctx, "count failed", "err", err)
		return 0, fmt.Errorf("%w: %w", common.ErrRead, err)
	}
	return n, nil
}

// SchemaVersion returns the schema version the store was migrated to.
func (e *Engine) SchemaVersion() (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.usable(); err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrRead, err)
	}
	return e.version, nil
}

// Close releases the store. Later calls to Append, ListRecent and Count fail
// with common.ErrClosed. Closing twice is a no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateClosed {
		return nil
	}
	wasOpen := e.state == stateReady
	e.state = stateClosed
	e.repo = nil

	if !wasOpen || e.closeFn == nil {
		return nil
	}
	if err := e.closeFn(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
