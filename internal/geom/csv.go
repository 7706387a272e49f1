package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// LoadCSV reads a trace table. Geometry comes from a WKT column
// (geom|geometry|wkt) or from latitude/longitude columns
// (lat|latitude|y and lon|lng|long|longitude|x), matched case-insensitively.
func LoadCSV(path string, opts LoadOptions) (Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return Collection{}, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return Collection{}, fmt.Errorf("csv: %w", err)
	}
	if len(recs) == 0 {
		return Collection{}, errors.New("empty csv")
	}
	header := recs[0]
	idxGeom, idxLat, idxLon, idxVal := -1, -1, -1, -1
	for i, h := range header {
		lh := strings.ToLower(strings.TrimSpace(h))
		switch lh {
		case "geom", "geometry", "wkt":
			if idxGeom == -1 {
				idxGeom = i
			}
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
		if opts.ValueColumn != "" && strings.EqualFold(h, opts.ValueColumn) {
			idxVal = i
		}
	}
	if idxGeom == -1 && (idxLat == -1 || idxLon == -1) {
		return Collection{}, errors.New("csv: no geometry or latitude/longitude columns found")
	}
	if opts.ValueColumn != "" && idxVal == -1 {
		return Collection{}, fmt.Errorf("csv: value column %q not found", opts.ValueColumn)
	}

	var c Collection
	for n, row := range recs[1:] {
		var g orb.Geometry
		if idxGeom >= 0 {
			if idxGeom >= len(row) {
				continue
			}
			parsed, crs, err := ParseWKT(row[idxGeom], "")
			if err != nil {
				return Collection{}, fmt.Errorf("csv row %d: %w", n+2, err)
			}
			if c.Len() > 0 && crs != c.CRS {
				return Collection{}, fmt.Errorf("csv row %d: mixed crs: %w", n+2, ErrInvalidInput)
			}
			c.CRS = crs
			g = parsed
		} else {
			if idxLon >= len(row) || idxLat >= len(row) {
				continue
			}
			lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
			lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
			if err1 != nil || err2 != nil {
				continue
			}
			g = orb.Point{lon, lat}
		}
		c.Geometries = append(c.Geometries, g)
		if idxVal >= 0 {
			v := 0.0
			if idxVal < len(row) {
				v, _ = strconv.ParseFloat(strings.TrimSpace(row[idxVal]), 64)
			}
			c.Values = append(c.Values, v)
		}
	}
	if c.Len() == 0 {
		return Collection{}, errors.New("csv: no valid geometries parsed")
	}
	if opts.CRS.IsSet() {
		c.CRS = opts.CRS
	}
	return c, nil
}
