package scoring

import (
	"fmt"
	"math"

	"musescore/internal/types"
)

// Weights are the points each normalized indicator contributes at 100.
type Weights struct {
	COLI float64
	TRF  float64
	PTR  float64
	SITF float64
	RSF  float64
	ISF  float64
}

// DefaultWeights sum to 55, the largest possible adjustment.
var DefaultWeights = Weights{COLI: 15, TRF: 10, PTR: 10, SITF: 10, RSF: 5, ISF: 5}

// Sum returns the maximum adjustment the weights can produce.
func (w Weights) Sum() float64 {
	return w.COLI + w.TRF + w.PTR + w.SITF + w.RSF + w.ISF
}

// Apply combines normalized components into an adjustment.
func (w Weights) Apply(c Components) float64 {
	return w.COLI*(c.COLI/100) +
		w.TRF*(c.TRF/100) +
		w.PTR*(c.PTR/100) +
		w.SITF*(c.SITF/100) +
		w.RSF*(c.RSF/100) +
		w.ISF*(c.ISF/100)
}

// Components are the six normalized (0-100) indicators of one area.
type Components struct {
	COLI float64 `json:"COLI"`
	TRF  float64 `json:"TRF"`
	PTR  float64 `json:"PTR"`
	SITF float64 `json:"SITF"`
	RSF  float64 `json:"RSF"`
	ISF  float64 `json:"ISF"`
}

// ScoreResult is the outcome of scoring one area for one AGI.
type ScoreResult struct {
	BaseScore  int        `json:"base_score"`
	Adjustment float64    `json:"adjustment"`
	FinalScore int        `json:"final_score"`
	Label      string     `json:"label"`
	Ratio      float64    `json:"ratio"`
	Band       string     `json:"band"`
	GaugeZone  string     `json:"gauge_zone"`
	Components Components `json:"components"`
}

// ComputeScore scores area for agi using statistics taken over the whole
// active dataset. The final score is rounded half away from zero (math.Round)
// and capped at ScoreCeiling; the label comes from the final score.
func ComputeScore(agi float64, area types.AreaRecord, stats Stats) (ScoreResult, error) {
	if err := checkAGI(agi); err != nil {
		return ScoreResult{}, err
	}
	if err := checkRecord(area); err != nil {
		return ScoreResult{}, err
	}
	if area.PCPI <= 0 {
		return ScoreResult{}, fmt.Errorf("%w: zip %s has non-positive PCPI %v", ErrInvalidInput, area.Zip, area.PCPI)
	}

	comps, err := components(area, stats)
	if err != nil {
		return ScoreResult{}, err
	}

	ratio := agi / area.PCPI
	base, band := BaseScore(ratio)
	adj := DefaultWeights.Apply(comps)

	final := int(math.Round(float64(base) + adj))
	if final > ScoreCeiling {
		final = ScoreCeiling
	}

	return ScoreResult{
		BaseScore:  base,
		Adjustment: adj,
		FinalScore: final,
		Label:      LabelFor(final),
		Ratio:      ratio,
		Band:       band,
		GaugeZone:  GaugeZone(final),
		Components: comps,
	}, nil
}

func checkAGI(agi float64) error {
	if math.IsNaN(agi) || math.IsInf(agi, 0) || agi <= 0 {
		return fmt.Errorf("%w: agi must be a positive number, got %v", ErrInvalidInput, agi)
	}
	return nil
}

func checkRecord(area types.AreaRecord) error {
	for _, col := range types.ScoringColumns {
		v, _ := area.Value(col)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: zip %s has non-numeric %s", ErrInvalidData, area.Zip, col)
		}
	}
	return nil
}

func components(area types.AreaRecord, stats Stats) (Components, error) {
	get := func(col types.Column) (ColumnStats, error) {
		s, ok := stats[col]
		if !ok {
			return ColumnStats{}, fmt.Errorf("%w: no statistics for column %s", ErrInvalidData, col)
		}
		return s, nil
	}

	var c Components
	for _, term := range []struct {
		col     types.Column
		inverse bool
		dst     *float64
	}{
		{types.ColumnCOLI, true, &c.COLI},
		{types.ColumnTRF, true, &c.TRF},
		{types.ColumnPTR, true, &c.PTR},
		{types.ColumnTR, true, &c.SITF},
		{types.ColumnRSF, false, &c.RSF},
		{types.ColumnSavings, false, &c.ISF},
	} {
		s, err := get(term.col)
		if err != nil {
			return Components{}, err
		}
		v, _ := area.Value(term.col)
		if term.inverse {
			*term.dst = clamp100(s.InverseScale(v))
		} else {
			*term.dst = clamp100(s.Scale(v))
		}
	}
	return c, nil
}

// clamp100 keeps a value scaled against foreign statistics inside 0-100.
func clamp100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
