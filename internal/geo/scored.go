package geo

import (
	"fmt"

	"musescore/internal/scoring"
	"musescore/internal/types"
)

// ScoredNeighbor is a nearby area with its score.
type ScoredNeighbor struct {
	scoring.Scored
	Miles float64 `json:"miles"`
}

// ScoreNearby scores the areas within radius miles of zip, nearest first.
// Neighbors whose data cannot be scored are logged by the scorer and skipped.
func ScoreNearby(s *scoring.Scorer, ds scoring.Dataset, zip string, agi, radius float64) ([]ScoredNeighbor, error) {
	if err := s.ValidateAGI(agi); err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", scoring.ErrInvalidInput)
	}
	origin, ok := ds.Lookup(zip)
	if !ok {
		return nil, fmt.Errorf("%w: zip %q", scoring.ErrNotFound, zip)
	}
	if !origin.HasLocation {
		return nil, fmt.Errorf("%w: zip %q has no coordinates", scoring.ErrInvalidInput, zip)
	}

	near := Nearby(origin, ds.Records(), radius)
	areas := make([]types.AreaRecord, len(near))
	for i, n := range near {
		areas[i] = n.Area
	}
	scored, _, err := s.ScoreRecords(agi, areas, ds.Stats())
	if err != nil {
		return nil, err
	}

	// scored keeps the order of areas minus exclusions; zips are unique.
	out := make([]ScoredNeighbor, 0, len(scored))
	j := 0
	for _, n := range near {
		if j < len(scored) && scored[j].Area.Zip == n.Area.Zip {
			out = append(out, ScoredNeighbor{Scored: scored[j], Miles: n.Miles})
			j++
		}
	}
	return out, nil
}
