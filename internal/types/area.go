package types

// Column names a numeric indicator column of the area table.
type Column string

const (
	ColumnCOLI    Column = "COLI"
	ColumnTRF     Column = "TRF"
	ColumnPCPI    Column = "PCPI"
	ColumnPTR     Column = "PTR"
	ColumnTR      Column = "TR"
	ColumnRSF     Column = "RSF"
	ColumnSavings Column = "Savings"
)

// ScoringColumns are the seven indicators every active record must carry.
var ScoringColumns = []Column{
	ColumnCOLI, ColumnTRF, ColumnPCPI, ColumnPTR, ColumnTR, ColumnRSF, ColumnSavings,
}

// RawRow is one untyped source row keyed by header name.
type RawRow map[string]string

// AreaRecord holds the per-ZIP economic indicators used for scoring.
// Records are only built by the dataset package, which guarantees the
// indicator fields are finite numbers.
type AreaRecord struct {
	Zip     string `json:"zip"`
	StateID string `json:"state_id"`
	City    string `json:"city"`

	COLI    float64 `json:"COLI"`
	TRF     float64 `json:"TRF"`
	PCPI    float64 `json:"PCPI"`
	PTR     float64 `json:"PTR"`
	TR      float64 `json:"TR"`
	RSF     float64 `json:"RSF"`
	Savings float64 `json:"Savings"`

	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	HasLocation bool    `json:"has_location"`
}

// Value returns the indicator stored under col.
func (a AreaRecord) Value(col Column) (float64, bool) {
	switch col {
	case ColumnCOLI:
		return a.COLI, true
	case ColumnTRF:
		return a.TRF, true
	case ColumnPCPI:
		return a.PCPI, true
	case ColumnPTR:
		return a.PTR, true
	case ColumnTR:
		return a.TR, true
	case ColumnRSF:
		return a.RSF, true
	case ColumnSavings:
		return a.Savings, true
	}
	return 0, false
}
