// Package geo holds the spatial helpers: great-circle distance, areas within
// a radius, and ZIP boundary lookup by coordinates.
package geo

import (
	"math"
	"sort"

	"musescore/internal/types"
)

const earthRadiusMiles = 3958.8

// DistanceMiles is the haversine distance between two lat/lng points.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// Neighbor is an area and its distance from an origin.
type Neighbor struct {
	Area  types.AreaRecord `json:"area"`
	Miles float64          `json:"miles"`
}

// Nearby returns the located areas within radius miles of origin, nearest
// first. The origin itself is excluded.
func Nearby(origin types.AreaRecord, records []types.AreaRecord, radius float64) []Neighbor {
	if !origin.HasLocation || radius < 0 {
		return nil
	}

	var out []Neighbor
	for _, r := range records {
		if !r.HasLocation || r.Zip == origin.Zip {
			continue
		}
		d := DistanceMiles(origin.Lat, origin.Lng, r.Lat, r.Lng)
		if d <= radius {
			out = append(out, Neighbor{Area: r, Miles: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Miles != out[j].Miles {
			return out[i].Miles < out[j].Miles
		}
		return out[i].Area.Zip < out[j].Area.Zip
	})
	return out
}
