package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musescore/internal/types"
)

func scoredAt(zip, state string, score int) Scored {
	return Scored{
		Area:   types.AreaRecord{Zip: zip, StateID: state},
		Result: ScoreResult{FinalScore: score, Label: LabelFor(score)},
	}
}

func TestFindOutliers(t *testing.T) {
	scored := []Scored{
		scoredAt("a", "NY", 700),
		scoredAt("b", "NY", 710),
		scoredAt("c", "NY", 690),
		scoredAt("d", "NY", 520),
		scoredAt("e", "TX", 400), // TX has too few areas to compare
		scoredAt("f", "TX", 800),
	}
	out := FindOutliers(scored, 3)
	require.Len(t, out, 1)
	assert.Equal(t, "d", out[0].Area.Zip)
	assert.Equal(t, 4, out[0].StateCount)
	assert.InDelta(t, 655.0, out[0].StateMean, 1e-9)
	assert.Greater(t, out[0].StateStdDev, 0.0)
}

func TestFindOutliers_NoSpread(t *testing.T) {
	scored := []Scored{scoredAt("a", "NY", 600), scoredAt("b", "NY", 600), scoredAt("c", "NY", 600)}
	assert.Empty(t, FindOutliers(scored, 3))
}

func TestFilterByLabel(t *testing.T) {
	scored := []Scored{
		scoredAt("a", "NY", 450),
		scoredAt("b", "NY", 560),
		scoredAt("c", "NY", 580),
		scoredAt("d", "NY", 820),
	}
	got := FilterByLabel(scored, " at risk ")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Area.Zip)
	assert.Equal(t, "c", got[1].Area.Zip)
	assert.Empty(t, FilterByLabel(scored, "unknown"))
}

func TestMeanStd(t *testing.T) {
	m, sd := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, m)
	assert.Equal(t, 2.0, sd)

	m, sd = meanStd(nil)
	assert.Zero(t, m)
	assert.Zero(t, sd)
}
