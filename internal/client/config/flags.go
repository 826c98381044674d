package config

import "github.com/spf13/pflag"

const (
	flagConfig          = "config"
	flagDataDir         = "data-dir"
	flagBackend         = "backend"
	flagRecentLimit     = "limit"
	flagAllowDegraded   = "allow-degraded"
	flagBoltOpenTimeout = "bolt-timeout"
	flagLogLevel        = "log-level"
	flagLogFormat       = "log-format"
	flagLogFile         = "log-file"
)

// Loader binds configuration flags to a pflag.FlagSet and builds the Config
// once the set has been parsed.
type Loader struct {
	fs         *pflag.FlagSet
	configFile string
	flags      Config
}

// Bind registers the configuration flags on fs. Flag defaults mirror
// LoadDefaults so help output shows the effective values.
func Bind(fs *pflag.FlagSet) *Loader {
	l := &Loader{fs: fs}
	l.flags.LoadDefaults()

	fs.StringVarP(&l.configFile, flagConfig, "c", "", "path to a JSON config file")
	fs.StringVarP(&l.flags.DataDir, flagDataDir, "d", l.flags.DataDir, "directory holding the store")
	fs.StringVarP(&l.flags.Backend, flagBackend, "b", l.flags.Backend, "storage backend: sqlite, bolt or memory")
	fs.IntVarP(&l.flags.RecentLimit, flagRecentLimit, "n", l.flags.RecentLimit, "number of recent entries to show")
	fs.BoolVar(&l.flags.AllowDegraded, flagAllowDegraded, l.flags.AllowDegraded, "fall back to an in-memory store when the store cannot be opened")
	fs.DurationVar(&l.flags.BoltOpenTimeout, flagBoltOpenTimeout, l.flags.BoltOpenTimeout, "how long to wait for the bolt file lock")
	fs.StringVar(&l.flags.LogLevel, flagLogLevel, l.flags.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&l.flags.LogFormat, flagLogFormat, l.flags.LogFormat, "log format: text or json")
	fs.StringVar(&l.flags.LogFile, flagLogFile, l.flags.LogFile, "write logs to a rotating file instead of stderr")

	return l
}

// Load applies defaults, then the JSON file named by --config, then every
// flag the user set explicitly. Later sources take precedence.
func (l *Loader) Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, l.configFile); err != nil {
		return nil, err
	}
	parseFlags(cfg, l.fs, &l.flags)

	return cfg, nil
}

// parseFlags copies the values of changed flags from src into cfg. Changed is
// read from the flag itself because cobra parses persistent flags through the
// subcommand's merged set.
func parseFlags(cfg *Config, fs *pflag.FlagSet, src *Config) {
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		switch f.Name {
		case flagDataDir:
			cfg.DataDir = src.DataDir
		case flagBackend:
			cfg.Backend = src.Backend
		case flagRecentLimit:
			cfg.RecentLimit = src.RecentLimit
		case flagAllowDegraded:
			cfg.AllowDegraded = src.AllowDegraded
		case flagBoltOpenTimeout:
			cfg.BoltOpenTimeout = src.BoltOpenTimeout
		case flagLogLevel:
			cfg.LogLevel = src.LogLevel
		case flagLogFormat:
			cfg.LogFormat = src.LogFormat
		case flagLogFile:
			cfg.LogFile = src.LogFile
		}
	})
}
