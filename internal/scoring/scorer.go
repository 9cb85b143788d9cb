package scoring

import (
	"errors"
	"fmt"

	"musescore/internal/logging"
	"musescore/internal/types"
)

// Default AGI bounds, matching the dashboard input range.
const (
	DefaultMinAGI = 1_000
	DefaultMaxAGI = 1_000_000
)

// Dataset is the read-only view of an active dataset snapshot the Scorer
// needs. Stats must describe exactly the records returned by Records.
type Dataset interface {
	Lookup(zip string) (types.AreaRecord, bool)
	Records() []types.AreaRecord
	Stats() Stats
}

// Scorer applies AGI bounds and logging around the pure scoring functions.
// It holds no per-request state and is safe for concurrent use.
type Scorer struct {
	minAGI float64
	maxAGI float64
	logger logging.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithAGIBounds sets the accepted AGI range. A zero bound disables that side.
func WithAGIBounds(min, max float64) Option {
	return func(s *Scorer) {
		s.minAGI = min
		s.maxAGI = max
	}
}

// WithLogger sets the logger used for batch exclusions.
func WithLogger(l logging.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScorer returns a Scorer with the default AGI bounds.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		minAGI: DefaultMinAGI,
		maxAGI: DefaultMaxAGI,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateAGI rejects non-positive values and values outside the bounds.
func (s *Scorer) ValidateAGI(agi float64) error {
	if err := checkAGI(agi); err != nil {
		return err
	}
	if s.minAGI > 0 && agi < s.minAGI {
		return fmt.Errorf("%w: agi %.0f below minimum %.0f", ErrInvalidInput, agi, s.minAGI)
	}
	if s.maxAGI > 0 && agi > s.maxAGI {
		return fmt.Errorf("%w: agi %.0f above maximum %.0f", ErrInvalidInput, agi, s.maxAGI)
	}
	return nil
}

// Score looks up zip in ds and scores it against the dataset statistics.
func (s *Scorer) Score(ds Dataset, zip string, agi float64) (types.AreaRecord, ScoreResult, error) {
	if err := s.ValidateAGI(agi); err != nil {
		return types.AreaRecord{}, ScoreResult{}, err
	}
	area, ok := ds.Lookup(zip)
	if !ok {
		return types.AreaRecord{}, ScoreResult{}, fmt.Errorf("%w: zip %q", ErrNotFound, zip)
	}
	res, err := ComputeScore(agi, area, ds.Stats())
	if err != nil {
		if errors.Is(err, ErrInvalidData) {
			s.logger.Error("selected area failed scoring", logging.String("zip", zip), logging.Err(err))
		}
		return area, ScoreResult{}, err
	}
	return area, res, nil
}

// ScoreAll scores every record of ds, logging any exclusions.
func (s *Scorer) ScoreAll(ds Dataset, agi float64) ([]Scored, []Exclusion, error) {
	return s.ScoreRecords(agi, ds.Records(), ds.Stats())
}

// ScoreRecords scores a subset of a dataset against that dataset's stats,
// logging any exclusions.
func (s *Scorer) ScoreRecords(agi float64, records []types.AreaRecord, stats Stats) ([]Scored, []Exclusion, error) {
	if err := s.ValidateAGI(agi); err != nil {
		return nil, nil, err
	}
	scored, excluded, err := ComputeAllWithStats(agi, records, stats)
	if err != nil {
		return nil, nil, err
	}
	for _, ex := range excluded {
		s.logger.Warn("area excluded from batch", logging.String("zip", ex.Zip), logging.Err(ex.Err))
	}
	return scored, excluded, nil
}
