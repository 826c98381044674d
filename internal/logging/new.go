package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process logger.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string

	// Format is text or json. Empty means text.
	Format string

	// File, when set, receives the log instead of the writer passed to New.
	// It is rotated once it reaches MaxSizeMB; MaxFiles old files are kept.
	File      string
	MaxSizeMB int
	MaxFiles  int
}

// ParseLevel maps a level name onto slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// New builds a slog-backed Logger writing to w, or to a rotating file when
// opts.File is set. The returned closer releases the file and is a no-op
// otherwise.
func New(opts Options, w io.Writer) (*SlogLogger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxFiles,
		}
		w, closer = lj, lj
	}
	if w == nil {
		w = os.Stderr
	}

	ho := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, ho)
	case "json":
		h = slog.NewJSONHandler(w, ho)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return NewSlogLogger(slog.New(h)), closer, nil
}

// Discard returns a Logger that drops everything.
func Discard() *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
