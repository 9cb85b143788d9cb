package geo

import (
	"fmt"
	"math"
	"strings"

	shp "github.com/jonas-p/go-shp"
)

// zipFields are DBF attribute names that carry the ZIP code, in order of
// preference. Census ZCTA layers use the ZCTA5CE and GEOID names.
var zipFields = []string{"zip", "zipcode", "zcta5ce20", "zcta5ce10", "geoid20", "geoid10", "zcta5"}

// zipPolygon is a (possibly multi-part) ZIP boundary.
type zipPolygon struct {
	Zip    string
	Parts  [][][2]float64 // each part is a closed ring of [lat, lon] points
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// Boundaries maps coordinates to ZIP codes.
type Boundaries struct {
	polys []zipPolygon
}

// LoadBoundaries reads ZIP polygons from the shapefile at path.
func LoadBoundaries(path string) (*Boundaries, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geo: open boundaries %s: %w", path, err)
	}
	defer r.Close()

	zipIdx := -1
	fields := r.Fields()
	for _, want := range zipFields {
		for i, f := range fields {
			if strings.EqualFold(strings.TrimSpace(f.String()), want) {
				zipIdx = i
				break
			}
		}
		if zipIdx >= 0 {
			break
		}
	}
	if zipIdx < 0 {
		return nil, fmt.Errorf("geo: %s has no ZIP attribute", path)
	}

	b := &Boundaries{}
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		zip := strings.Trim(r.ReadAttribute(idx, zipIdx), " \x00")
		if zip == "" {
			continue
		}
		b.polys = append(b.polys, newZipPolygon(zip, poly))
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("geo: read boundaries %s: %w", path, err)
	}
	return b, nil
}

func newZipPolygon(zip string, poly *shp.Polygon) zipPolygon {
	numParts := len(poly.Parts)
	z := zipPolygon{
		Zip:    zip,
		Parts:  make([][][2]float64, numParts),
		MinLat: math.MaxFloat64, MinLon: math.MaxFloat64,
		MaxLat: -math.MaxFloat64, MaxLon: -math.MaxFloat64,
	}

	for partIdx := 0; partIdx < numParts; partIdx++ {
		start := poly.Parts[partIdx]
		end := int32(len(poly.Points))
		if partIdx+1 < numParts {
			end = poly.Parts[partIdx+1]
		}
		ring := make([][2]float64, 0, int(end-start))
		for i := start; i < end; i++ {
			pt := poly.Points[i]
			ring = append(ring, [2]float64{pt.Y, pt.X})
			z.MinLat = math.Min(z.MinLat, pt.Y)
			z.MaxLat = math.Max(z.MaxLat, pt.Y)
			z.MinLon = math.Min(z.MinLon, pt.X)
			z.MaxLon = math.Max(z.MaxLon, pt.X)
		}
		z.Parts[partIdx] = ring
	}
	return z
}

// Len is the number of loaded polygons.
func (b *Boundaries) Len() int { return len(b.polys) }

// Locate returns the ZIP whose boundary contains lat/lon. Rings are combined
// with the even-odd rule so holes are respected.
func (b *Boundaries) Locate(lat, lon float64) (string, bool) {
	for _, z := range b.polys {
		if lat < z.MinLat || lat > z.MaxLat || lon < z.MinLon || lon > z.MaxLon {
			continue // quick bbox reject
		}
		inside := false
		for _, ring := range z.Parts {
			if pointInRing(lat, lon, ring) {
				inside = !inside
			}
		}
		if inside {
			return z.Zip, true
		}
	}
	return "", false
}

// pointInRing is the ray-casting test for a single closed ring.
func pointInRing(lat, lon float64, ring [][2]float64) bool {
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		yi, xi := ring[i][0], ring[i][1]
		yj, xj := ring[j][0], ring[j][1]
		if ((yi > lat) != (yj > lat)) && (lon < (xj-xi)*(lat-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}
	return inside
}
