package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"musescore/internal/config"
	"musescore/internal/dataset"
	"musescore/internal/geo"
	"musescore/internal/logging"
	"musescore/internal/scoring"
	"musescore/internal/watchlist"
)

var version = "dev"

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	debug      bool
	dataPath   string
	source     string
	agi        float64

	cfg    *config.Config
	logger logging.Logger
	scorer *scoring.Scorer
	snap   *dataset.Snapshot
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "muse",
		Short: "Muse Score - ZIP-level financial health scores",
		Long: `Muse computes a 300-850 financial health score for a household income
(AGI) placed in a ZIP code, from the area's cost of living, tax burden,
income, savings and filing indicators.

The dataset is read once per invocation from the configured source
(CSV, delimited text, Excel workbook, shapefile or SQL table).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (.yaml, .json, .toml or .env)")
	pf.BoolVar(&a.debug, "debug", false, "enable debug logging")
	pf.StringVar(&a.dataPath, "data", "", "dataset path, overrides dataset.path")
	pf.StringVar(&a.source, "source", "", "dataset source: csv, delimited, xlsx, shapefile or sql")
	pf.Float64Var(&a.agi, "agi", 0, "household adjusted gross income")

	cmd.AddCommand(newScoreCommand(a))
	cmd.AddCommand(newScoresCommand(a))
	cmd.AddCommand(newRegionsCommand(a))
	cmd.AddCommand(newNearbyCommand(a))
	cmd.AddCommand(newOutliersCommand(a))
	cmd.AddCommand(newFilterCommand(a))
	cmd.AddCommand(newWatchCommand(a))
	cmd.AddCommand(newChartCommand(a))
	cmd.AddCommand(newBandsCommand(a))
	cmd.AddCommand(newServeCommand(a))

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

// setup loads configuration and applies command line overrides.
func (a *app) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if a.dataPath != "" {
		cfg.Dataset.Path = a.dataPath
		if a.source == "" {
			cfg.Dataset.Source = ""
		}
	}
	if a.source != "" {
		cfg.Dataset.Source = a.source
	}
	if a.debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.scorer = scoring.NewScorer(
		scoring.WithAGIBounds(cfg.Scoring.MinAGI, cfg.Scoring.MaxAGI),
		scoring.WithLogger(logger.Named("scoring")),
	)
	return nil
}

// dataset loads the configured snapshot on first use.
func (a *app) dataset(ctx context.Context) (*dataset.Snapshot, error) {
	if a.snap != nil {
		return a.snap, nil
	}
	snap, err := dataset.Load(ctx, a.cfg, a.logger.Named("dataset"))
	if err != nil {
		return nil, err
	}
	a.snap = snap
	return snap, nil
}

// requireAGI returns the --agi value, validated against the configured bounds.
func (a *app) requireAGI() (float64, error) {
	if a.agi == 0 {
		return 0, fmt.Errorf("%w: --agi is required", scoring.ErrInvalidInput)
	}
	if err := a.scorer.ValidateAGI(a.agi); err != nil {
		return 0, err
	}
	return a.agi, nil
}

// batch scores the whole dataset for the --agi value.
func (a *app) batch(ctx context.Context) ([]scoring.Scored, error) {
	agi, err := a.requireAGI()
	if err != nil {
		return nil, err
	}
	snap, err := a.dataset(ctx)
	if err != nil {
		return nil, err
	}
	scored, _, err := a.scorer.ScoreAll(snap, agi)
	return scored, err
}

func (a *app) boundaries() (*geo.Boundaries, error) {
	if strings.TrimSpace(a.cfg.Boundaries.Path) == "" {
		return nil, fmt.Errorf("%w: boundaries.path is not configured", scoring.ErrInvalidInput)
	}
	return geo.LoadBoundaries(a.cfg.Boundaries.Path)
}

func (a *app) watchlist() *watchlist.List {
	return watchlist.Open(a.cfg.Watchlist.Path)
}
