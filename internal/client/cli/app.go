package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/quicklog/internal/client/config"
	"github.com/dmitrijs2005/quicklog/internal/client/models"
	"github.com/dmitrijs2005/quicklog/internal/client/services"
	"github.com/dmitrijs2005/quicklog/internal/client/storage"
	"github.com/dmitrijs2005/quicklog/internal/common"
	"github.com/dmitrijs2005/quicklog/internal/logging"
)

// reportedError marks an error the App already explained to the user, so
// Execute does not print it a second time. errors.Is still reaches the cause.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// App is the UI layer: it owns the storage engine for the lifetime of the
// process and turns user actions into service calls.
type App struct {
	config       *config.Config
	log          logging.Logger
	engine       *storage.Engine
	entryService services.EntryService
	degraded     bool

	reader      *bufio.Reader
	out         io.Writer
	interactive bool
}

// openEngine initializes the configured store. When that fails and degraded
// mode is allowed, it falls back to an in-memory store and reports degraded.
func openEngine(ctx context.Context, cfg *config.Config, log logging.Logger) (*storage.Engine, bool, error) {
	opts, err := cfg.StorageOptions()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", common.ErrInitialization, err)
	}

	engine := storage.New(opts, log)
	err = engine.Initialize(ctx)
	if err == nil {
		return engine, false, nil
	}
	if !cfg.AllowDegraded || opts.Backend == storage.BackendMemory {
		return nil, false, err
	}

	log.Warn(ctx, "store unavailable, continuing in memory; entries will not be kept", "err", err)
	mem := storage.New(storage.Options{Backend: storage.BackendMemory}, log)
	if merr := mem.Initialize(ctx); merr != nil {
		return nil, false, errors.Join(err, merr)
	}
	return mem, true, nil
}

// NewApp opens the store described by cfg and wires the services on top of it.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	engine, degraded, err := openEngine(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &App{
		config:       cfg,
		log:          log,
		engine:       engine,
		entryService: services.NewEntryService(engine),
		degraded:     degraded,
		reader:       bufio.NewReader(in),
		out:          out,
		interactive:  interactiveInput(in),
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.engine.Close()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Add captures one entry and then shows the refreshed recent list. Nothing
// is shown as saved unless the store accepted it.
func (a *App) Add(ctx context.Context, t models.EntryType, content string) error {
	e, err := a.entryService.Capture(ctx, t, content)
	switch {
	case errors.Is(err, common.ErrValidation):
		a.printf("Not saved: %v\n", err)
		return reported(err)
	case err != nil:
		a.printf("Could not save the %s, please try again.\n", t)
		return reported(err)
	}

	a.printf("Saved %s #%d\n", e.Type, e.Id)
	// A failed refresh does not undo the save.
	_ = a.List(ctx, 0)
	return nil
}

// AddInteractive reads multiline content for an entry of type t.
func (a *App) AddInteractive(ctx context.Context, t models.EntryType) error {
	content, err := GetMultiline(a.reader, fmt.Sprintf("Enter %s text", t), a.out)
	if err != nil {
		return err
	}
	return a.Add(ctx, t, content)
}

// List prints up to limit recent entries; a non-positive limit uses the
// configured default.
func (a *App) List(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = a.config.RecentLimit
	}

	list, err := a.entryService.Recent(ctx, limit)
	if err != nil {
		a.printf("Could not load recent entries.\n")
		return reported(err)
	}

	if len(list) == 0 {
		a.printf("No entries yet.\n")
		return nil
	}
	for _, e := range list {
		a.printf("%s\n", e)
	}
	return nil
}

// Info prints where entries are stored and how many there are.
func (a *App) Info(ctx context.Context) error {
	st, err := a.entryService.Stats(ctx)
	if err != nil {
		a.printf("Could not read store statistics.\n")
		return reported(err)
	}

	path := a.engine.Path()
	if path == "" {
		path = "(in memory)"
	}
	a.printf("backend:        %s\n", a.engine.Backend())
	a.printf("path:           %s\n", path)
	a.printf("schema version: %d\n", st.SchemaVersion)
	a.printf("entries:        %d\n", st.Entries)
	a.printf("degraded:       %t\n", a.degraded)
	return nil
}
