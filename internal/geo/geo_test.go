package geo

import (
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"musescore/internal/logging"
	"musescore/internal/scoring"
	"musescore/internal/types"
)

func TestDistanceMiles(t *testing.T) {
	assert.Equal(t, 0.0, DistanceMiles(40, -70, 40, -70))

	// one degree of latitude is about 69.1 miles
	assert.InDelta(t, 69.09, DistanceMiles(40, -70, 41, -70), 0.05)

	// New York to Los Angeles
	assert.InDelta(t, 2445, DistanceMiles(40.7128, -74.0060, 34.0522, -118.2437), 10)

	assert.InDelta(t, DistanceMiles(1, 2, 3, 4), DistanceMiles(3, 4, 1, 2), 1e-9)
}

func TestNearby(t *testing.T) {
	at := func(zip string, lat, lng float64) types.AreaRecord {
		return types.AreaRecord{Zip: zip, Lat: lat, Lng: lng, HasLocation: true}
	}
	origin := at("A", 40, -70)
	records := []types.AreaRecord{
		origin,
		at("far", 45, -70),
		at("C", 40.1, -70),
		at("B", 40.05, -70),
		{Zip: "nowhere"},
	}

	got := Nearby(origin, records, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Area.Zip)
	assert.Equal(t, "C", got[1].Area.Zip)
	assert.Less(t, got[0].Miles, got[1].Miles)

	assert.Empty(t, Nearby(types.AreaRecord{Zip: "x"}, records, 100))
}

func square(minX, minY, maxX, maxY float64) []shp.Point {
	return []shp.Point{{X: minX, Y: minY}, {X: minX, Y: maxY}, {X: maxX, Y: maxY}, {X: maxX, Y: minY}, {X: minX, Y: minY}}
}

func writeBoundaries(t *testing.T, field string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zcta.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("NAME", 20), shp.StringField(field, 5)}))

	// 10001 is a square with a square hole; 10002 sits inside that hole
	withHole := shp.Polygon(*shp.NewPolyLine([][]shp.Point{square(0, 0, 10, 10), square(4, 4, 6, 6)}))
	inner := shp.Polygon(*shp.NewPolyLine([][]shp.Point{square(4, 4, 6, 6)}))

	for i, p := range []struct {
		poly *shp.Polygon
		zip  string
	}{{&withHole, "10001"}, {&inner, "10002"}} {
		row := int(w.Write(p.poly))
		require.Equal(t, i, row)
		require.NoError(t, w.WriteAttribute(row, 0, "area"))
		require.NoError(t, w.WriteAttribute(row, 1, p.zip))
	}
	w.Close()
	return path
}

func TestBoundaries_Locate(t *testing.T) {
	b, err := LoadBoundaries(writeBoundaries(t, "ZCTA5CE20"))
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())

	tests := []struct {
		name     string
		lat, lon float64
		want     string
		found    bool
	}{
		{"outer ring", 1, 1, "10001", true},
		{"inside hole", 5, 5, "10002", true},
		{"outside", 20, 20, "", false},
		{"below", -1, 5, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zip, ok := b.Locate(tt.lat, tt.lon)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, zip)
		})
	}
}

func TestLoadBoundaries_NoZipField(t *testing.T) {
	_, err := LoadBoundaries(writeBoundaries(t, "OTHER"))
	assert.ErrorContains(t, err, "no ZIP attribute")
}

func TestLoadBoundaries_Missing(t *testing.T) {
	_, err := LoadBoundaries(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}

type memDataset []types.AreaRecord

func (m memDataset) Lookup(zip string) (types.AreaRecord, bool) {
	for _, r := range m {
		if r.Zip == zip {
			return r, true
		}
	}
	return types.AreaRecord{}, false
}

func (m memDataset) Records() []types.AreaRecord { return m }

func (m memDataset) Stats() scoring.Stats { return scoring.ComputeStats(m) }

func TestScoreNearby(t *testing.T) {
	area := func(zip string, lat float64, pcpi float64, located bool) types.AreaRecord {
		return types.AreaRecord{
			Zip: zip, StateID: "MA", COLI: 100, TRF: 0.3, PCPI: pcpi, PTR: 1, TR: 0.2, RSF: 0.5, Savings: 100,
			Lat: lat, Lng: -71, HasLocation: located,
		}
	}
	ds := memDataset{
		area("origin", 42, 50000, true),
		area("near", 42.01, 60000, true),
		area("broke", 42.02, 0, true),
		area("far", 43, 70000, true),
		area("unlocated", 0, 70000, false),
	}
	core, logs := observer.New(zapcore.WarnLevel)
	s := scoring.NewScorer(scoring.WithLogger(logging.NewLoggerFromCore(core)))

	got, err := ScoreNearby(s, ds, "origin", 50000, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "near", got[0].Area.Zip)

	excluded := logs.FilterField(zapcore.Field{Key: "zip", Type: zapcore.StringType, String: "broke"})
	assert.Equal(t, 1, excluded.Len(), "unscorable neighbour is logged")
	assert.Greater(t, got[0].Result.FinalScore, 0)
	assert.InDelta(t, 0.69, got[0].Miles, 0.01)

	_, err = ScoreNearby(s, ds, "missing", 50000, 5)
	assert.ErrorIs(t, err, scoring.ErrNotFound)

	_, err = ScoreNearby(s, ds, "unlocated", 50000, 5)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)

	_, err = ScoreNearby(s, ds, "origin", 50000, 0)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)

	_, err = ScoreNearby(s, ds, "origin", -1, 5)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}
