package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/quicklog/internal/client/storage"
	"github.com/dmitrijs2005/quicklog/internal/logging"
)

// Config holds runtime settings for the quicklog CLI.
//
// Units: BoltOpenTimeout is a time.Duration, LogMaxSizeMB is megabytes.
type Config struct {
	DataDir       string
	DatabaseName  string
	Backend       string
	RecentLimit   int
	AllowDegraded bool

	BoltOpenTimeout time.Duration

	LogLevel     string
	LogFormat    string
	LogFile      string
	LogMaxSizeMB int
	LogMaxFiles  int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.DatabaseName = storage.DatabaseName
	c.Backend = string(storage.BackendSQLite)
	c.RecentLimit = storage.DefaultRecentLimit
	c.AllowDegraded = true
	c.BoltOpenTimeout = storage.DefaultBoltOpenTimeout
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.LogFile = ""
	c.LogMaxSizeMB = 10
	c.LogMaxFiles = 3
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".quicklog"
	}
	return filepath.Join(home, ".quicklog")
}

// DatabasePath is the store file for the configured backend, empty for memory.
func (c *Config) DatabasePath() string {
	b, err := storage.ParseBackend(c.Backend)
	if err != nil {
		return ""
	}
	return b.DatabasePath(c.DataDir, c.DatabaseName)
}

// StorageOptions converts c into storage.Options.
func (c *Config) StorageOptions() (storage.Options, error) {
	b, err := storage.ParseBackend(c.Backend)
	if err != nil {
		return storage.Options{}, err
	}
	return storage.Options{
		Backend:         b,
		Path:            b.DatabasePath(c.DataDir, c.DatabaseName),
		BoltOpenTimeout: c.BoltOpenTimeout,
	}, nil
}

// LoggingOptions converts c into logging.Options.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:     c.LogLevel,
		Format:    c.LogFormat,
		File:      c.LogFile,
		MaxSizeMB: c.LogMaxSizeMB,
		MaxFiles:  c.LogMaxFiles,
	}
}
