package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musescore/internal/types"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]float64{10, 20, 30})
	assert.Equal(t, []float64{0, 50, 100}, got)

	got = InverseNormalize([]float64{10, 20, 30})
	assert.Equal(t, []float64{100, 50, 0}, got)
}

func TestNormalize_SumsToHundred(t *testing.T) {
	columns := [][]float64{
		{1.5, 2.25, 9.75, 3.1},
		{-4, 0, 12.5, 7.3, 7.3},
		{0.0012, 0.0031, 0.0044},
		{100000, 52000.5, 87123.25},
	}
	for _, col := range columns {
		n := Normalize(col)
		inv := InverseNormalize(col)
		require.Len(t, n, len(col))
		for i := range col {
			assert.GreaterOrEqual(t, n[i], 0.0)
			assert.LessOrEqual(t, n[i], 100.0)
			assert.GreaterOrEqual(t, inv[i], 0.0)
			assert.LessOrEqual(t, inv[i], 100.0)
			assert.InDelta(t, 100.0, n[i]+inv[i], 1e-9)
		}
	}
}

func TestNormalize_DegenerateColumn(t *testing.T) {
	for _, col := range [][]float64{{7}, {3.3, 3.3, 3.3}} {
		for _, v := range Normalize(col) {
			assert.Equal(t, NeutralScore, v)
		}
		for _, v := range InverseNormalize(col) {
			assert.Equal(t, NeutralScore, v)
		}
	}
	assert.Empty(t, Normalize(nil))
}

func TestStatsOf_SkipsNonFinite(t *testing.T) {
	s := StatsOf([]float64{math.NaN(), 4, math.Inf(1), -2, 9})
	assert.Equal(t, ColumnStats{Min: -2, Max: 9}, s)
	assert.False(t, s.Degenerate())
	assert.True(t, StatsOf(nil).Degenerate())
}

func TestComputeStats(t *testing.T) {
	records := []types.AreaRecord{
		{Zip: "1", COLI: 90, TRF: 1, PCPI: 50000, PTR: 0.5, TR: 4, RSF: 0.4, Savings: 10},
		{Zip: "2", COLI: 130, TRF: 3, PCPI: 90000, PTR: 1.5, TR: 9, RSF: 0.6, Savings: 30},
		{Zip: "3", COLI: math.NaN(), TRF: 2, PCPI: 70000, PTR: 1, TR: 6, RSF: 0.5, Savings: 20},
	}
	stats := ComputeStats(records)
	assert.Len(t, stats, len(types.ScoringColumns))
	assert.Equal(t, ColumnStats{Min: 90, Max: 130}, stats[types.ColumnCOLI])
	assert.Equal(t, ColumnStats{Min: 1, Max: 3}, stats[types.ColumnTRF])
	assert.Equal(t, ColumnStats{Min: 10, Max: 30}, stats[types.ColumnSavings])
}
