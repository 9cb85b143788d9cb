// Package chart renders region score summaries with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"musescore/internal/scoring"
)

// Default canvas size.
const (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

var (
	otherColor    = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	selectedColor = color.RGBA{R: 220, G: 20, B: 60, A: 255}
)

// ErrNoRegions is returned when there is nothing to draw.
var ErrNoRegions = errors.New("chart: no regions to plot")

// Options tune a region chart.
type Options struct {
	Title string
	// Selected is drawn in a contrasting colour when set.
	Selected string
	// Labels prints the rounded mean above each bar.
	Labels bool
}

// RegionBars builds a bar chart of mean final score per state, in the order
// of summaries.
func RegionBars(summaries []scoring.RegionSummary, opts Options) (*plot.Plot, error) {
	if len(summaries) == 0 {
		return nil, ErrNoRegions
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = "Average Muse Score by State"
	}
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "State"
	p.Y.Label.Text = "Mean Muse Score"

	states := make([]string, len(summaries))
	for i, s := range summaries {
		states[i] = s.State
	}
	tags := scoring.Highlight(states, opts.Selected)

	others := make(plotter.Values, len(summaries))
	selected := make(plotter.Values, len(summaries))
	for i, s := range summaries {
		if tags[s.State] == scoring.TagSelected {
			selected[i] = s.Mean
		} else {
			others[i] = s.Mean
		}
	}

	width := barWidth(len(summaries))
	for _, layer := range []struct {
		vals plotter.Values
		c    color.Color
	}{{others, otherColor}, {selected, selectedColor}} {
		bars, err := plotter.NewBarChart(layer.vals, width)
		if err != nil {
			return nil, fmt.Errorf("chart: %w", err)
		}
		bars.Color = layer.c
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
	}

	p.NominalX(states...)
	if len(states) > 12 {
		p.X.Tick.Label.Rotation = math.Pi / 3
		p.X.Tick.Label.YAlign = draw.YCenter
		p.X.Tick.Label.XAlign = draw.XRight
	}
	p.Y.Min = 0
	p.Y.Max = scoring.ScoreCeiling * 1.05

	if opts.Labels {
		xys := make([]plotter.XY, len(summaries))
		texts := make([]string, len(summaries))
		for i, s := range summaries {
			xys[i] = plotter.XY{X: float64(i), Y: s.Mean + scoring.ScoreCeiling*0.01}
			texts[i] = fmt.Sprintf("%.0f", s.Mean)
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, fmt.Errorf("chart: %w", err)
		}
		p.Add(labels)
	}

	return p, nil
}

func barWidth(n int) vg.Length {
	switch {
	case n > 40:
		return vg.Points(8)
	case n > 15:
		return vg.Points(14)
	default:
		return vg.Points(20)
	}
}

// Write renders p in format ("png", "svg", "pdf") to w.
func Write(w io.Writer, p *plot.Plot, width, height vg.Length, format string) error {
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("chart: write %s: %w", format, err)
	}
	return nil
}

// Save renders p to path, choosing the format from the extension.
func Save(p *plot.Plot, path string) error {
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}
	return nil
}
