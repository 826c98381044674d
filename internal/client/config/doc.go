// Package config loads runtime configuration for the quicklog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/--config.
//  3. Command-line flags the user set explicitly, which override earlier values.
//
// Supported flags
//
//	-c, --config string         JSON config file
//	-d, --data-dir string       directory holding the store
//	-b, --backend string        sqlite, bolt or memory
//	-n, --limit int             number of recent entries to show
//	    --allow-degraded        fall back to memory when the store cannot be opened
//	    --bolt-timeout duration wait for the bolt file lock
//	    --log-level string      debug, info, warn or error
//	    --log-format string     text or json
//	    --log-file string       rotating log file
//
// # JSON schema
//
// Every key is optional. Durations use timex.Duration, so they can be either
// strings like "2s" or integer nanoseconds:
//
//	{
//	  "data_dir": "/var/lib/quicklog",
//	  "backend": "bolt",
//	  "recent_limit": 20,
//	  "allow_degraded": false,
//	  "bolt_open_timeout": "2s",
//	  "log_level": "info",
//	  "log_format": "json",
//	  "log_file": "/var/log/quicklog.log",
//	  "log_max_size_mb": 5,
//	  "log_max_files": 2
//	}
//
// The database name is fixed; the backend picks its extension (quicklog.db or
// quicklog.bolt). Environment variables are not read.
package config
