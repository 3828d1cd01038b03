// Package config reads the settings that decide where reference tables come
// from and how loading is logged. Values are taken from the environment,
// optionally seeded from a .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/SanteonNL/icdmappings/source"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Source kinds.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceHTTP     = "http"
	SourceSQL      = "sql"
)

type Config struct {
	SourceKind string
	DataDir    string
	BaseURL    string
	DBDriver   string
	DBDSN      string
	LogLevel   zerolog.Level
}

// Load reads envFile when it exists and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		SourceKind: strings.ToLower(getenv("ICDMAP_SOURCE", SourceEmbedded)),
		DataDir:    os.Getenv("ICDMAP_DATA_DIR"),
		BaseURL:    os.Getenv("ICDMAP_BASE_URL"),
		DBDriver:   getenv("ICDMAP_DB_DRIVER", "postgres"),
		DBDSN:      os.Getenv("ICDMAP_DB_DSN"),
	}

	level, err := zerolog.ParseLevel(getenv("ICDMAP_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid ICDMAP_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.SourceKind {
	case SourceEmbedded:
	case SourceDir:
		if c.DataDir == "" {
			return fmt.Errorf("ICDMAP_DATA_DIR is required for source %q", c.SourceKind)
		}
	case SourceHTTP:
		if c.BaseURL == "" {
			return fmt.Errorf("ICDMAP_BASE_URL is required for source %q", c.SourceKind)
		}
	case SourceSQL:
		if c.DBDSN == "" {
			return fmt.Errorf("ICDMAP_DB_DSN is required for source %q", c.SourceKind)
		}
	default:
		return fmt.Errorf("unknown ICDMAP_SOURCE %q", c.SourceKind)
	}
	return nil
}

// Logger returns a console logger at the configured level.
func (c *Config) Logger() zerolog.Logger {
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })).
		Level(c.LogLevel).
		With().Timestamp().Caller().Logger()
}

// OpenSource opens the configured table source. The returned close function
// releases the database connection of a SQL source and is a no-op otherwise.
func (c *Config) OpenSource(ctx context.Context, log zerolog.Logger) (source.Source, func() error, error) {
	noop := func() error { return nil }

	switch c.SourceKind {
	case SourceDir:
		src, err := source.Dir(c.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return src, noop, nil
	case SourceHTTP:
		return source.NewHTTP(c.BaseURL, log), noop, nil
	case SourceSQL:
		db, err := sqlx.ConnectContext(ctx, c.DBDriver, c.DBDSN)
		if err != nil {
			log.Error().Err(err).Str("driver", c.DBDriver).Msg("Failed to connect to the database")
			return nil, nil, fmt.Errorf("failed to connect to the database: %w", err)
		}
		return source.NewSQL(db, log), db.Close, nil
	default:
		return source.Embedded(), noop, nil
	}
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
