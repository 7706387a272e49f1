package geom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ParseWKT parses one WKT geometry (POINT, MULTIPOINT, LINESTRING,
// MULTILINESTRING, POLYGON, ...). An optional "SRID=<n>;" EWKT prefix replaces
// crs; SRID=0 means unknown and leaves crs as given.
func ParseWKT(s string, crs CRS) (orb.Geometry, CRS, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, crs, errors.New("empty wkt")
	}
	if strings.HasPrefix(strings.ToUpper(s), "SRID=") {
		i := strings.Index(s, ";")
		if i < 0 {
			return nil, crs, errors.New("ewkt: missing ';' after SRID")
		}
		if srid := strings.TrimSpace(s[5:i]); srid != "0" {
			crs = CRS("EPSG:" + srid)
		}
		s = s[i+1:]
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, crs, fmt.Errorf("wkt: %w", err)
	}
	if numPoints(g) == 0 {
		return nil, crs, errors.New("wkt: no coordinates parsed")
	}
	return g, crs, nil
}

// ParseWKTCollection parses one WKT geometry per line of text.
func ParseWKTCollection(text string, crs CRS) (Collection, error) {
	c := Collection{CRS: crs}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		g, tagged, err := ParseWKT(line, crs)
		if err != nil {
			return Collection{}, err
		}
		if c.Len() > 0 && tagged != c.CRS {
			return Collection{}, fmt.Errorf("wkt: mixed crs %s and %s: %w", c.CRS, tagged, ErrInvalidInput)
		}
		c.CRS = tagged
		c.Geometries = append(c.Geometries, g)
	}
	if c.Len() == 0 {
		return Collection{}, errors.New("empty wkt")
	}
	return c, nil
}
