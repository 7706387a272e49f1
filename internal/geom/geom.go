package geom

import (
	"strings"

	"github.com/paulmach/orb"
)

// CRS identifies a coordinate reference system, e.g. "EPSG:4326".
// The empty string means the CRS is not set.
type CRS string

// WGS84 is the geographic frame every drawn layer is expressed in.
const WGS84 CRS = "EPSG:4326"

// IsSet reports whether a CRS tag is present.
func (c CRS) IsSet() bool { return strings.TrimSpace(string(c)) != "" }

// Code returns the canonical "EPSG:<n>" form when the identifier can be
// recognised, otherwise the trimmed upper-cased identifier.
func (c CRS) Code() string {
	s := strings.ToUpper(strings.TrimSpace(string(c)))
	switch s {
	case "WGS84", "WGS 84", "CRS84", "URN:OGC:DEF:CRS:OGC:1.3:CRS84", "URN:OGC:DEF:CRS:OGC::CRS84":
		return string(WGS84)
	}
	// urn:ogc:def:crs:EPSG::3857, urn:ogc:def:crs:EPSG:6.6:3857
	if strings.HasPrefix(s, "URN:OGC:DEF:CRS:EPSG:") {
		parts := strings.Split(s, ":")
		return "EPSG:" + parts[len(parts)-1]
	}
	if strings.HasPrefix(s, "EPSG::") {
		return "EPSG:" + strings.TrimPrefix(s, "EPSG::")
	}
	return s
}

// IsWGS84 reports whether c names the WGS84 geographic frame.
func (c CRS) IsWGS84() bool { return c.Code() == string(WGS84) }

// Collection is an ordered set of geometries sharing one CRS.
// Values optionally carries one number per geometry, used for colouring.
type Collection struct {
	CRS        CRS
	Geometries []orb.Geometry
	Values     []float64
}

// NewPoints builds a point collection.
func NewPoints(crs CRS, pts ...orb.Point) Collection {
	gs := make([]orb.Geometry, 0, len(pts))
	for _, p := range pts {
		gs = append(gs, p)
	}
	return Collection{CRS: crs, Geometries: gs}
}

// NewLines builds a line collection.
func NewLines(crs CRS, lines ...orb.LineString) Collection {
	gs := make([]orb.Geometry, 0, len(lines))
	for _, ls := range lines {
		gs = append(gs, ls)
	}
	return Collection{CRS: crs, Geometries: gs}
}

// Len returns the number of geometries.
func (c Collection) Len() int { return len(c.Geometries) }

// WithCRS returns a shallow copy tagged with crs.
func (c Collection) WithCRS(crs CRS) Collection {
	c.CRS = crs
	return c
}

// Clone deep-copies the geometries so the copy can be modified freely.
func (c Collection) Clone() Collection {
	out := Collection{CRS: c.CRS, Geometries: make([]orb.Geometry, len(c.Geometries))}
	for i, g := range c.Geometries {
		if g != nil {
			out.Geometries[i] = orb.Clone(g)
		}
	}
	if c.Values != nil {
		out.Values = append([]float64(nil), c.Values...)
	}
	return out
}

// Kind classifies a collection for extent computation.
type Kind int

const (
	KindEmpty Kind = iota
	KindPoints
	KindLines
)

// Kind returns KindPoints when every non-empty geometry is a point or
// multipoint, KindLines when at least one is not, KindEmpty otherwise.
func (c Collection) Kind() Kind {
	k := KindEmpty
	for _, g := range c.Geometries {
		if numPoints(g) == 0 {
			continue
		}
		switch g.(type) {
		case orb.Point, orb.MultiPoint:
			if k == KindEmpty {
				k = KindPoints
			}
		default:
			return KindLines
		}
	}
	return k
}

// Points flattens all point and multipoint geometries.
func (c Collection) Points() []orb.Point {
	var out []orb.Point
	for _, g := range c.Geometries {
		switch v := g.(type) {
		case orb.Point:
			out = append(out, v)
		case orb.MultiPoint:
			out = append(out, v...)
		}
	}
	return out
}

// LinesOf returns the non-empty line strings that make up g.
func LinesOf(g orb.Geometry) []orb.LineString {
	switch v := g.(type) {
	case orb.LineString:
		if len(v) > 0 {
			return []orb.LineString{v}
		}
	case orb.MultiLineString:
		var out []orb.LineString
		for _, ls := range v {
			if len(ls) > 0 {
				out = append(out, ls)
			}
		}
		return out
	case orb.Ring:
		return []orb.LineString{orb.LineString(v)}
	case orb.Polygon:
		var out []orb.LineString
		for _, r := range v {
			out = append(out, orb.LineString(r))
		}
		return out
	}
	return nil
}

// Lines flattens all linear geometries.
func (c Collection) Lines() []orb.LineString {
	var out []orb.LineString
	for _, g := range c.Geometries {
		out = append(out, LinesOf(g)...)
	}
	return out
}

func numPoints(g orb.Geometry) int {
	switch v := g.(type) {
	case nil:
		return 0
	case orb.Point:
		return 1
	case orb.MultiPoint:
		return len(v)
	case orb.LineString:
		return len(v)
	case orb.MultiLineString:
		n := 0
		for _, ls := range v {
			n += len(ls)
		}
		return n
	case orb.Ring:
		return len(v)
	case orb.Polygon:
		n := 0
		for _, r := range v {
			n += len(r)
		}
		return n
	case orb.MultiPolygon:
		n := 0
		for _, p := range v {
			n += numPoints(p)
		}
		return n
	}
	return 0
}
