// Package dataset turns raw tabular rows into an immutable snapshot of area
// records and keeps the current snapshot for concurrent readers.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"musescore/internal/types"
)

// Row is one untyped source row keyed by header name.
type Row = types.RawRow

// ErrNoUsableRows is returned by Build when every row was dropped.
var ErrNoUsableRows = errors.New("dataset: no usable rows")

// Options controls which rows become active records.
type Options struct {
	// RequireCoordinates drops rows without a parseable lat/lng pair.
	RequireCoordinates bool
}

// Report summarizes what Build did with its input.
type Report struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Dropped    int            `json:"dropped"`
	Duplicates int            `json:"duplicates"`
	Reasons    map[string]int `json:"reasons,omitempty"`
}

func (r *Report) drop(reason string) {
	r.Dropped++
	if r.Reasons == nil {
		r.Reasons = make(map[string]int)
	}
	r.Reasons[reason]++
}

// String renders the report on one line with reasons in stable order.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d rows, %d active, %d dropped, %d duplicates", r.Total, r.Active, r.Dropped, r.Duplicates)
	if len(r.Reasons) > 0 {
		keys := make([]string, 0, len(r.Reasons))
		for k := range r.Reasons {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %d", k, r.Reasons[k])
		}
		b.WriteString(")")
	}
	return b.String()
}

// Header aliases, matched case-insensitively. DBF field names are capped at
// ten characters, hence the truncated forms.
var (
	zipKeys        = []string{"zip", "zipcode", "zip_code"}
	stateKeys      = []string{"state_id", "state"}
	cityKeys       = []string{"city"}
	latKeys        = []string{"lat", "latitude"}
	lngKeys        = []string{"lng", "lon", "longitude"}
	returnsKeys    = []string{"number_of_returns", "number_of_", "returns"}
	populationKeys = []string{"population"}
)

// lookup is a case-insensitive view over a Row.
type lookup map[string]string

func newLookup(r Row) lookup {
	l := make(lookup, len(r))
	for k, v := range r {
		k = strings.ToLower(strings.TrimSpace(k))
		if _, dup := l[k]; !dup {
			l[k] = v
		}
	}
	return l
}

func (l lookup) text(keys ...string) string {
	for _, k := range keys {
		if v, ok := l[k]; ok {
			return strings.Trim(v, " \t\r\n\x00")
		}
	}
	return ""
}

func (l lookup) number(keys ...string) (float64, bool) {
	return parseNumber(l.text(keys...))
}

// parseNumber accepts plain numbers with optional thousands separators and a
// leading dollar sign. NaN and infinities count as missing.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Build coerces rows into area records and returns them as a snapshot.
// Rows without a zip, or missing any scoring indicator (or coordinates when
// required), are dropped. For duplicate zips the first row wins.
func Build(rows []Row, opts Options) (*Snapshot, Report, error) {
	report := Report{Total: len(rows)}
	records := make([]types.AreaRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for _, raw := range rows {
		rec, reason := coerce(newLookup(raw), opts)
		if reason != "" {
			report.drop(reason)
			continue
		}
		if _, dup := seen[rec.Zip]; dup {
			report.Duplicates++
			continue
		}
		seen[rec.Zip] = struct{}{}
		records = append(records, rec)
	}

	report.Active = len(records)
	if len(records) == 0 {
		return nil, report, ErrNoUsableRows
	}
	return newSnapshot(records, report), report, nil
}

// coerce returns the record or a non-empty drop reason.
func coerce(l lookup, opts Options) (types.AreaRecord, string) {
	rec := types.AreaRecord{
		Zip:     l.text(zipKeys...),
		StateID: l.text(stateKeys...),
		City:    l.text(cityKeys...),
	}
	if rec.Zip == "" {
		return rec, "missing zip"
	}

	targets := map[types.Column]*float64{
		types.ColumnCOLI:    &rec.COLI,
		types.ColumnTRF:     &rec.TRF,
		types.ColumnPCPI:    &rec.PCPI,
		types.ColumnPTR:     &rec.PTR,
		types.ColumnTR:      &rec.TR,
		types.ColumnRSF:     &rec.RSF,
		types.ColumnSavings: &rec.Savings,
	}
	for _, col := range types.ScoringColumns {
		v, ok := l.number(strings.ToLower(string(col)))
		if !ok && col == types.ColumnRSF {
			v, ok = derivedRSF(l)
		}
		if !ok {
			return rec, "missing " + string(col)
		}
		*targets[col] = v
	}

	lat, latOK := l.number(latKeys...)
	lng, lngOK := l.number(lngKeys...)
	if latOK && lngOK {
		rec.Lat, rec.Lng, rec.HasLocation = lat, lng, true
	} else if opts.RequireCoordinates {
		return rec, "missing coordinates"
	}

	return rec, ""
}

func derivedRSF(l lookup) (float64, bool) {
	returns, ok := l.number(returnsKeys...)
	if !ok {
		return 0, false
	}
	pop, ok := l.number(populationKeys...)
	if !ok || pop <= 0 {
		return 0, false
	}
	return returns / pop, true
}
