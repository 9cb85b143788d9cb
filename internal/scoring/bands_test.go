package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseScore(t *testing.T) {
	tests := []struct {
		ratio float64
		base  int
		band  string
	}{
		{0, 350, "Critical/Severe Stress"},
		{0.4, 350, "Critical/Severe Stress"},
		{0.6, 400, "Severe Stress"},
		{0.75, 450, "Financial Stress"},
		{0.8, 500, "At Risk"},
		{0.99, 550, "Near Average/Near Stable"},
		{1.0, 600, "Stable/Near Stable"},
		{1.2, 675, "Good"},
		{1.5, 750, "Very Good"},
		{2.0, 800, "Excellent"},
		{2.5, 850, "Top Performer"},
		{40, 850, "Top Performer"},
	}
	for _, tt := range tests {
		base, band := BaseScore(tt.ratio)
		assert.Equal(t, tt.base, base, "ratio %v", tt.ratio)
		assert.Equal(t, tt.band, band, "ratio %v", tt.ratio)
	}
}

func TestBaseScore_Monotonic(t *testing.T) {
	prev := 0
	for r := 0.0; r <= 4.0; r += 0.01 {
		base, _ := BaseScore(r)
		assert.GreaterOrEqual(t, base, prev, "ratio %v", r)
		prev = base
	}
}

func TestBaseBands_ReturnsCopy(t *testing.T) {
	bands := BaseBands()
	bands[0].Base = 1
	base, _ := BaseScore(0.1)
	assert.Equal(t, 350, base)
	assert.Len(t, bands, 10)
}

func TestLabelFor(t *testing.T) {
	tests := map[int]string{
		350: LabelFinanciallyStressed,
		499: LabelFinanciallyStressed,
		500: LabelAtRisk,
		599: LabelAtRisk,
		600: LabelNearStable,
		699: LabelNearStable,
		700: LabelGood,
		799: LabelGood,
		800: LabelExcellent,
		850: LabelExcellent,
	}
	for score, want := range tests {
		assert.Equal(t, want, LabelFor(score), "score %d", score)
	}
}

func TestGaugeZone(t *testing.T) {
	assert.Equal(t, ZoneRed, GaugeZone(300))
	assert.Equal(t, ZoneRed, GaugeZone(549))
	assert.Equal(t, ZoneOrange, GaugeZone(550))
	assert.Equal(t, ZoneYellow, GaugeZone(700))
	assert.Equal(t, ZoneGreen, GaugeZone(800))
	assert.Equal(t, ZoneGreen, GaugeZone(850))
}
