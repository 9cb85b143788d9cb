// Package config loads the muse configuration from a YAML or .env file and
// MUSE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"musescore/internal/logging"
)

// Dataset sources.
const (
	SourceCSV       = "csv"
	SourceDelimited = "delimited"
	SourceXLSX      = "xlsx"
	SourceShapefile = "shapefile"
	SourceSQL       = "sql"
)

// Database drivers.
const (
	DriverOracle   = "oracle"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the complete application configuration.
type Config struct {
	Log        logging.LogConfig `mapstructure:"log"`
	Dataset    DatasetConfig     `mapstructure:"dataset"`
	Database   DatabaseConfig    `mapstructure:"database"`
	Scoring    ScoringConfig     `mapstructure:"scoring"`
	Boundaries BoundariesConfig  `mapstructure:"boundaries"`
	Server     ServerConfig      `mapstructure:"server"`
	Watchlist  WatchlistConfig   `mapstructure:"watchlist"`
}

// DatasetConfig selects where area records come from.
type DatasetConfig struct {
	// Source is one of csv, delimited, xlsx, shapefile, sql. Empty means
	// infer from the Path extension.
	Source    string `mapstructure:"source"`
	Path      string `mapstructure:"path"`
	Sheet     string `mapstructure:"sheet"`
	Delimiter string `mapstructure:"delimiter"`
	Table     string `mapstructure:"table"`
	// RequireCoordinates drops rows without lat/lng when true.
	RequireCoordinates bool `mapstructure:"require_coordinates"`
}

// DatabaseConfig holds connection settings for the sql source.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	Host           string `mapstructure:"host"`
	Port           string `mapstructure:"port"`
	Service        string `mapstructure:"service"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	WalletLocation string `mapstructure:"wallet_location"`
}

// ScoringConfig bounds the accepted AGI.
type ScoringConfig struct {
	MinAGI float64 `mapstructure:"min_agi"`
	MaxAGI float64 `mapstructure:"max_agi"`
}

// BoundariesConfig points at an optional ZIP polygon shapefile.
type BoundariesConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// WatchlistConfig points at the watched ZIP file.
type WatchlistConfig struct {
	Path string `mapstructure:"path"`
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	var errs []error

	switch c.Dataset.Source {
	case "", SourceCSV, SourceDelimited, SourceXLSX, SourceShapefile:
		if strings.TrimSpace(c.Dataset.Path) == "" {
			errs = append(errs, errors.New("dataset.path is required"))
		}
	case SourceSQL:
		switch c.Database.Driver {
		case DriverOracle, DriverPostgres, DriverSQLite:
		default:
			errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
		}
		if strings.TrimSpace(c.Dataset.Table) == "" {
			errs = append(errs, errors.New("dataset.table is required for the sql source"))
		}
	default:
		errs = append(errs, fmt.Errorf("dataset.source %q is not supported", c.Dataset.Source))
	}

	if len([]rune(c.Dataset.Delimiter)) > 1 {
		errs = append(errs, fmt.Errorf("dataset.delimiter must be empty or a single character, got %q", c.Dataset.Delimiter))
	}
	if c.Scoring.MinAGI < 0 || c.Scoring.MaxAGI < 0 {
		errs = append(errs, errors.New("scoring AGI bounds must not be negative"))
	}
	if c.Scoring.MaxAGI > 0 && c.Scoring.MaxAGI < c.Scoring.MinAGI {
		errs = append(errs, fmt.Errorf("scoring.max_agi %.0f is below scoring.min_agi %.0f", c.Scoring.MaxAGI, c.Scoring.MinAGI))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	}

	return errors.Join(errs...)
}
