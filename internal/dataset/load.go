package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"musescore/internal/config"
	"musescore/internal/database"
	"musescore/internal/logging"
)

// SourceFor returns the configured source, or infers one from the file
// extension when none is set.
func SourceFor(cfg config.DatasetConfig) (string, error) {
	if cfg.Source != "" {
		return cfg.Source, nil
	}
	switch strings.ToLower(filepath.Ext(cfg.Path)) {
	case ".csv":
		return config.SourceCSV, nil
	case ".txt", ".psv", ".tsv", ".dat":
		return config.SourceDelimited, nil
	case ".xlsx", ".xlsm":
		return config.SourceXLSX, nil
	case ".shp":
		return config.SourceShapefile, nil
	}
	return "", fmt.Errorf("dataset: cannot infer source for %q; set dataset.source", cfg.Path)
}

// delimiterFor returns the configured delimiter, a tab for .tsv files, or
// '|' otherwise.
func delimiterFor(cfg config.DatasetConfig) rune {
	if d := []rune(cfg.Delimiter); len(d) == 1 {
		return d[0]
	}
	if strings.EqualFold(filepath.Ext(cfg.Path), ".tsv") {
		return '\t'
	}
	return '|'
}

// ReadRows fetches raw rows from the configured source.
func ReadRows(ctx context.Context, cfg *config.Config) ([]Row, error) {
	source, err := SourceFor(cfg.Dataset)
	if err != nil {
		return nil, err
	}

	switch source {
	case config.SourceCSV:
		return LoadCSV(cfg.Dataset.Path)
	case config.SourceDelimited:
		return LoadDelimited(cfg.Dataset.Path, delimiterFor(cfg.Dataset))
	case config.SourceXLSX:
		return LoadXLSX(cfg.Dataset.Path, cfg.Dataset.Sheet)
	case config.SourceShapefile:
		return LoadShapefile(cfg.Dataset.Path)
	case config.SourceSQL:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		defer db.Close()
		return LoadSQL(ctx, db, cfg.Dataset.Table)
	}
	return nil, fmt.Errorf("dataset: unsupported source %q", source)
}

// Load reads the configured source and builds a snapshot from it.
func Load(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Snapshot, error) {
	start := time.Now()
	rows, err := ReadRows(ctx, cfg)
	if err != nil {
		return nil, err
	}

	snap, report, err := Build(rows, Options{RequireCoordinates: cfg.Dataset.RequireCoordinates})
	if err != nil {
		logger.Error("dataset build failed", logging.Int("rows", report.Total), logging.Any("reasons", report.Reasons))
		return nil, err
	}

	logger.Info("dataset loaded",
		logging.String("path", cfg.Dataset.Path),
		logging.Int("active", report.Active),
		logging.Int("dropped", report.Dropped),
		logging.Int("duplicates", report.Duplicates),
		logging.Duration("elapsed", time.Since(start)),
	)
	if report.Dropped > 0 {
		logger.Debug("dropped rows", logging.Any("reasons", report.Reasons))
	}
	return snap, nil
}
