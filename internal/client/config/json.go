package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/quicklog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "2s" or as integer nanoseconds. Absent keys stay nil and
// leave the corresponding Config field untouched.
type JsonConfig struct {
	DataDir         *string         `json:"data_dir"`
	Backend         *string         `json:"backend"`
	RecentLimit     *int            `json:"recent_limit"`
	AllowDegraded   *bool           `json:"allow_degraded"`
	BoltOpenTimeout *timex.Duration `json:"bolt_open_timeout"`
	LogLevel        *string         `json:"log_level"`
	LogFormat       *string         `json:"log_format"`
	LogFile         *string         `json:"log_file"`
	LogMaxSizeMB    *int            `json:"log_max_size_mb"`
	LogMaxFiles     *int            `json:"log_max_files"`
}

// parseJson overlays cfg with values loaded from the JSON file at path.
// An empty path loads nothing.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.DataDir, jc.DataDir)
	setIf(&cfg.Backend, jc.Backend)
	setIf(&cfg.RecentLimit, jc.RecentLimit)
	setIf(&cfg.AllowDegraded, jc.AllowDegraded)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
	setIf(&cfg.LogFile, jc.LogFile)
	setIf(&cfg.LogMaxSizeMB, jc.LogMaxSizeMB)
	setIf(&cfg.LogMaxFiles, jc.LogMaxFiles)
	if jc.BoltOpenTimeout != nil {
		cfg.BoltOpenTimeout = jc.BoltOpenTimeout.Duration
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
