package geom

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

var ErrUnsupportedCRS = errors.New("unsupported crs")

// Reprojector transforms a collection into another CRS.
type Reprojector interface {
	Reproject(c Collection, to CRS) (Collection, error)
}

// Normalizer guarantees collections are tagged WGS84 before they are drawn.
// A nil Reprojector falls back to OrbReprojector, a nil Logger to slog.Default.
type Normalizer struct {
	Reprojector Reprojector
	Logger      *slog.Logger
}

// Normalize returns c expressed in WGS84.
//
// An unset CRS is assumed to already be WGS84: the collection is tagged, not
// transformed, and a warning is logged. Data that is actually in a projected
// CRS without a tag will be drawn in the wrong place.
func (n Normalizer) Normalize(c Collection) (Collection, error) {
	switch {
	case !c.CRS.IsSet():
		n.logger().Warn("CRS not set, defaulting to WGS84", "geometries", c.Len())
		return c.WithCRS(WGS84), nil
	case c.CRS.IsWGS84():
		return c, nil
	}
	r := n.Reprojector
	if r == nil {
		r = OrbReprojector{}
	}
	out, err := r.Reproject(c, WGS84)
	if err != nil {
		return Collection{}, fmt.Errorf("reproject %s to %s: %w", c.CRS, WGS84, err)
	}
	return out, nil
}

func (n Normalizer) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

// OrbReprojector handles spherical web mercator to WGS84 with orb/project.
type OrbReprojector struct{}

var mercatorCodes = map[string]bool{
	"EPSG:3857":   true,
	"EPSG:900913": true,
	"EPSG:3785":   true,
	"EPSG:102100": true,
	"EPSG:102113": true,
}

func (OrbReprojector) Reproject(c Collection, to CRS) (Collection, error) {
	if c.CRS.Code() == to.Code() {
		return c, nil
	}
	var proj orb.Projection
	switch {
	case mercatorCodes[c.CRS.Code()] && to.IsWGS84():
		proj = project.Mercator.ToWGS84
	case c.CRS.IsWGS84() && mercatorCodes[to.Code()]:
		proj = project.WGS84.ToMercator
	default:
		return Collection{}, fmt.Errorf("%s -> %s: %w", c.CRS, to, ErrUnsupportedCRS)
	}
	out := c.Clone()
	for i, g := range out.Geometries {
		if g != nil {
			out.Geometries[i] = project.Geometry(g, proj)
		}
	}
	out.CRS = to
	return out, nil
}
