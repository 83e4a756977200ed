package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Adapter types, selecting the database driver and the connection library.
const (
	AdapterSQLite       = "sqlite"
	AdapterSQLiteSQLX   = "sqlite-sqlx"
	AdapterPGX          = "pgx"
	AdapterPostgres     = "postgres"
	AdapterPostgresSQLX = "postgres-sqlx"
)

// Output formats for query results.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Environment variables overriding the flag defaults.
const (
	EnvAdapter     = "LIBRARY_DB_ADAPTER"
	EnvDSN         = "LIBRARY_DSN"
	EnvLogLevel    = "LIBRARY_LOG_LEVEL"
	EnvLogFormat   = "LIBRARY_LOG_FORMAT"
	EnvMetricsAddr = "LIBRARY_METRICS_ADDR"
)

const (
	defaultAdapter   = AdapterSQLite
	defaultDSN       = "library.db"
	defaultLogLevel  = "warn"
	defaultLogFormat = LogFormatText
	defaultOutput    = OutputText
)

// ErrInvalidConfig is returned when a configuration value is not one of the supported choices.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the runtime configuration of the librarian CLI.
type Config struct {
	Adapter     string
	DSN         string
	LogLevel    string
	LogFormat   string
	Output      string
	MetricsAddr string
}

// Load parses args (without the program name) into a Config.
// Environment variables looked up with getenv provide the defaults, explicit flags win over both.
func Load(args []string, getenv func(string) string, errOutput io.Writer) (Config, error) {
	fs := flag.NewFlagSet("librarian", flag.ContinueOnError)
	fs.SetOutput(errOutput)

	var (
		adapter     = fs.String("adapter", envOr(getenv, EnvAdapter, defaultAdapter), "database adapter: sqlite, sqlite-sqlx, pgx, postgres, postgres-sqlx")
		dsn         = fs.String("dsn", envOr(getenv, EnvDSN, defaultDSN), "database file path (sqlite) or connection string (postgres)")
		logLevel    = fs.String("log-level", envOr(getenv, EnvLogLevel, defaultLogLevel), "log level: debug, info, warn, error")
		logFormat   = fs.String("log-format", envOr(getenv, EnvLogFormat, defaultLogFormat), "log format: text, json")
		output      = fs.String("output", defaultOutput, "query result format: text, json")
		metricsAddr = fs.String("metrics-addr", envOr(getenv, EnvMetricsAddr, ""), "serve Prometheus metrics on this address, e.g. :9090")
	)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Adapter:     strings.ToLower(strings.TrimSpace(*adapter)),
		DSN:         strings.TrimSpace(*dsn),
		LogLevel:    strings.ToLower(strings.TrimSpace(*logLevel)),
		LogFormat:   strings.ToLower(strings.TrimSpace(*logFormat)),
		Output:      strings.ToLower(strings.TrimSpace(*output)),
		MetricsAddr: strings.TrimSpace(*metricsAddr),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that every value is one of the supported choices.
func (c Config) Validate() error {
	switch c.Adapter {
	case AdapterSQLite, AdapterSQLiteSQLX, AdapterPGX, AdapterPostgres, AdapterPostgresSQLX:
	default:
		return fmt.Errorf("%w: unknown adapter %q", ErrInvalidConfig, c.Adapter)
	}

	if c.DSN == "" {
		return fmt.Errorf("%w: dsn must not be empty", ErrInvalidConfig)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}

	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("%w: unknown output %q", ErrInvalidConfig, c.Output)
	}

	return nil
}

// IsSQLite reports whether the configured adapter talks to a SQLite database.
func (c Config) IsSQLite() bool {
	return c.Adapter == AdapterSQLite || c.Adapter == AdapterSQLiteSQLX
}

func envOr(getenv func(string) string, key, fallback string) string {
	if getenv == nil {
		return fallback
	}

	if value := getenv(key); value != "" {
		return value
	}

	return fallback
}
