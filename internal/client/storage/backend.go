package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/quicklog/internal/common"
)

// Backend selects the store implementation behind an Engine.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendBolt   Backend = "bolt"
	BackendMemory Backend = "memory"
)

// Backends lists the supported backends, default first.
var Backends = []Backend{BackendSQLite, BackendBolt, BackendMemory}

// DatabaseName is the fixed base name of the on-disk store.
const DatabaseName = "quicklog"

// ParseBackend maps a configuration value onto a Backend.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BackendSQLite, BackendBolt, BackendMemory:
		return b, nil
	case "":
		return BackendSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownBackend, s)
}

// FileName returns the store file name for name, e.g. quicklog.db.
// The memory backend has no file.
func (b Backend) FileName(name string) string {
	switch b {
	case BackendSQLite:
		return name + ".db"
	case BackendBolt:
		return name + ".bolt"
	}
	return ""
}

// DatabasePath joins dir with the backend file name.
func (b Backend) DatabasePath(dir, name string) string {
	f := b.FileName(name)
	if f == "" {
		return ""
	}
	return filepath.Join(dir, f)
}

func (b Backend) String() string { return string(b) }
