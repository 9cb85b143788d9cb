package scoring

import "math"

const (
	// ScoreFloor is the bottom of the display range.
	ScoreFloor = 300
	// ScoreCeiling caps every final score.
	ScoreCeiling = 850
)

// Band is one row of the income-ratio lookup table. A ratio falls in the
// first band whose Below bound it is strictly less than.
type Band struct {
	Below float64
	Base  int
	Name  string
}

var baseBands = []Band{
	{Below: 0.6, Base: 350, Name: "Critical/Severe Stress"},
	{Below: 0.7, Base: 400, Name: "Severe Stress"},
	{Below: 0.8, Base: 450, Name: "Financial Stress"},
	{Below: 0.9, Base: 500, Name: "At Risk"},
	{Below: 1.0, Base: 550, Name: "Near Average/Near Stable"},
	{Below: 1.2, Base: 600, Name: "Stable/Near Stable"},
	{Below: 1.5, Base: 675, Name: "Good"},
	{Below: 2.0, Base: 750, Name: "Very Good"},
	{Below: 2.5, Base: 800, Name: "Excellent"},
	{Below: math.Inf(1), Base: 850, Name: "Top Performer"},
}

// BaseBands returns a copy of the income-ratio table in ascending order.
func BaseBands() []Band {
	out := make([]Band, len(baseBands))
	copy(out, baseBands)
	return out
}

// BaseScore looks up the base score and band name for an AGI/PCPI ratio.
func BaseScore(ratio float64) (int, string) {
	for _, b := range baseBands {
		if ratio < b.Below {
			return b.Base, b.Name
		}
	}
	last := baseBands[len(baseBands)-1]
	return last.Base, last.Name
}

// Qualitative labels, derived from the final score.
const (
	LabelFinanciallyStressed = "Financially Stressed"
	LabelAtRisk              = "At Risk"
	LabelNearStable          = "Near Stable"
	LabelGood                = "Good"
	LabelExcellent           = "Excellent"
)

// Labels lists every label from worst to best.
var Labels = []string{
	LabelFinanciallyStressed, LabelAtRisk, LabelNearStable, LabelGood, LabelExcellent,
}

// LabelFor maps a final score to its qualitative label.
func LabelFor(score int) string {
	switch {
	case score < 500:
		return LabelFinanciallyStressed
	case score < 600:
		return LabelAtRisk
	case score < 700:
		return LabelNearStable
	case score < 800:
		return LabelGood
	default:
		return LabelExcellent
	}
}

// Gauge zones used by the dashboard dial.
const (
	ZoneRed    = "red"
	ZoneOrange = "orange"
	ZoneYellow = "yellow"
	ZoneGreen  = "green"
)

// GaugeZone returns the colour step of the 300-850 dial a score lands in.
func GaugeZone(score int) string {
	switch {
	case score < 550:
		return ZoneRed
	case score < 700:
		return ZoneOrange
	case score < 800:
		return ZoneYellow
	default:
		return ZoneGreen
	}
}
