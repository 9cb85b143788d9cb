package scoring

import (
	"math"

	"musescore/internal/types"
)

// NeutralScore is the normalized value assigned to every element of a column
// whose minimum equals its maximum.
const NeutralScore = 50.0

// ColumnStats is the (min, max) range of one numeric column.
type ColumnStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// StatsOf returns the range of values, ignoring NaN and infinities.
// An input with no finite values yields the zero ColumnStats.
func StatsOf(values []float64) ColumnStats {
	var s ColumnStats
	seen := false
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !seen {
			s.Min, s.Max = v, v
			seen = true
			continue
		}
		s.observe(v)
	}
	return s
}

func (s *ColumnStats) observe(v float64) {
	if v < s.Min {
		s.Min = v
	}
	if v > s.Max {
		s.Max = v
	}
}

// Degenerate reports a zero-variance column.
func (s ColumnStats) Degenerate() bool {
	return s.Max == s.Min
}

// Scale maps v onto 0-100 where the column maximum scores 100.
func (s ColumnStats) Scale(v float64) float64 {
	if s.Degenerate() {
		return NeutralScore
	}
	return 100 * (v - s.Min) / (s.Max - s.Min)
}

// InverseScale maps v onto 0-100 where the column minimum scores 100.
func (s ColumnStats) InverseScale(v float64) float64 {
	if s.Degenerate() {
		return NeutralScore
	}
	return 100 * (s.Max - v) / (s.Max - s.Min)
}

// Normalize min-max scales values against their own range.
func Normalize(values []float64) []float64 {
	s := StatsOf(values)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.Scale(v)
	}
	return out
}

// InverseNormalize is Normalize with the orientation flipped, for indicators
// where a larger raw value is economically worse.
func InverseNormalize(values []float64) []float64 {
	s := StatsOf(values)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.InverseScale(v)
	}
	return out
}

// Stats holds the column statistics of a dataset keyed by column.
type Stats map[types.Column]ColumnStats

// ComputeStats walks records once and returns the range of every scoring
// column. Non-finite values are skipped.
func ComputeStats(records []types.AreaRecord) Stats {
	stats := make(Stats, len(types.ScoringColumns))
	seen := make(map[types.Column]bool, len(types.ScoringColumns))
	for _, r := range records {
		for _, col := range types.ScoringColumns {
			v, _ := r.Value(col)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			s := stats[col]
			if !seen[col] {
				s = ColumnStats{Min: v, Max: v}
				seen[col] = true
			} else {
				s.observe(v)
			}
			stats[col] = s
		}
	}
	return stats
}
