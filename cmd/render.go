package main

import (
	"fmt"
	"io"
	"strings"

	"musescore/internal/scoring"
	"musescore/internal/types"
)

func zoneColor(zone string) string {
	switch zone {
	case scoring.ZoneRed:
		return colorRed
	case scoring.ZoneOrange:
		return colorOrange
	case scoring.ZoneYellow:
		return colorYellow
	}
	return colorGreen
}

// renderScore prints an area and its score breakdown in a readable layout.
func renderScore(w io.Writer, area types.AreaRecord, res scoring.ScoreResult, agi float64) {
	color := zoneColor(res.GaugeZone)

	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "ZIP               : %s\n", area.Zip)
	fmt.Fprintf(w, "City / State      : %s, %s\n", area.City, area.StateID)
	if area.HasLocation {
		fmt.Fprintf(w, "Location          : %.5f, %.5f\n", area.Lat, area.Lng)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Muse Score        : %s%d%s  (%s)\n", color, res.FinalScore, colorReset, res.Label)
	fmt.Fprintf(w, "  Base            : %d  [%s, AGI/PCPI %.2f]\n", res.BaseScore, res.Band, res.Ratio)
	fmt.Fprintf(w, "  Adjustment      : %+.2f\n", res.Adjustment)
	fmt.Fprintf(w, "AGI               : $%.0f vs PCPI $%.0f\n", agi, area.PCPI)
	fmt.Fprintln(w)

	c := res.Components
	fmt.Fprintf(w, "Cost of living    : %6.1f  (COLI %.1f)\n", c.COLI, area.COLI)
	fmt.Fprintf(w, "Tax rate          : %6.1f  (TRF %.3f)\n", c.TRF, area.TRF)
	fmt.Fprintf(w, "Property tax      : %6.1f  (PTR %.3f)\n", c.PTR, area.PTR)
	fmt.Fprintf(w, "State income tax  : %6.1f  (TR %.3f)\n", c.SITF, area.TR)
	fmt.Fprintf(w, "Filing rate       : %6.1f  (RSF %.3f)\n", c.RSF, area.RSF)
	fmt.Fprintf(w, "Savings           : %6.1f  ($%.0f)\n", c.ISF, area.Savings)
	fmt.Fprintln(w, strings.Repeat("-", 80))
}

// scoreLine is the one-line summary used in lists.
func scoreLine(s scoring.Scored) string {
	place := s.Area.City
	if s.Area.StateID != "" {
		place = fmt.Sprintf("%s, %s", s.Area.City, s.Area.StateID)
	}
	return fmt.Sprintf("%-7s | %-28.28s | %3d | %s", s.Area.Zip, place, s.Result.FinalScore, s.Result.Label)
}

func scoreLines(scored []scoring.Scored) []string {
	lines := make([]string, len(scored))
	for i, s := range scored {
		lines[i] = scoreLine(s)
	}
	return lines
}

func zipsOf(scored []scoring.Scored) []string {
	zips := make([]string, len(scored))
	for i, s := range scored {
		zips[i] = s.Area.Zip
	}
	return zips
}
