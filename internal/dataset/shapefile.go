package dataset

import (
	"fmt"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
)

// LoadShapefile reads the DBF attribute table of a shapefile. When the
// attributes carry no coordinates, lat/lng come from the point geometry or
// the centre of the shape's bounding box.
func LoadShapefile(path string) ([]Row, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open shapefile %s: %w", path, err)
	}
	defer r.Close()

	fields := r.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimSpace(f.String())
	}

	var rows []Row
	for r.Next() {
		idx, shape := r.Shape()

		row := make(Row, len(fields)+2)
		for i, name := range names {
			row[name] = strings.Trim(r.ReadAttribute(idx, i), " \x00")
		}

		l := newLookup(row)
		if l.text(latKeys...) == "" || l.text(lngKeys...) == "" {
			if lat, lng, ok := shapeCentre(shape); ok {
				row["lat"] = strconv.FormatFloat(lat, 'f', -1, 64)
				row["lng"] = strconv.FormatFloat(lng, 'f', -1, 64)
			}
		}
		rows = append(rows, row)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read shapefile %s: %w", path, err)
	}
	return rows, nil
}

func shapeCentre(shape shp.Shape) (lat, lng float64, ok bool) {
	switch s := shape.(type) {
	case nil, *shp.Null:
		return 0, 0, false
	case *shp.Point:
		return s.Y, s.X, true
	default:
		box := s.BBox()
		return (box.MinY + box.MaxY) / 2, (box.MinX + box.MaxX) / 2, true
	}
}
