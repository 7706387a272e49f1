package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// LinePadding is the margin, in degrees, added around line extents so
// geometry is not clipped at the basemap edge.
const LinePadding = 0.03

var ErrInvalidInput = errors.New("invalid input")

// Extent derives the bounding box used to size a basemap fetch.
// Point collections get their exact min/max; anything containing lines is
// computed per geometry and padded by LinePadding.
func Extent(c Collection) (BBox, error) {
	switch c.Kind() {
	case KindPoints:
		return PointExtent(c)
	case KindLines:
		return LineExtent(c, LinePadding)
	}
	return BBox{}, fmt.Errorf("extent: empty collection: %w", ErrInvalidInput)
}

// PointExtent returns the exact bounds of the point coordinates in c.
func PointExtent(c Collection) (BBox, error) {
	pts := c.Points()
	if len(pts) == 0 {
		return BBox{}, fmt.Errorf("point extent: no points: %w", ErrInvalidInput)
	}
	var bbox BBox
	for i, p := range pts {
		lon, lat := p[0], p[1]
		if i == 0 {
			bbox = BBox{West: lon, East: lon, North: lat, South: lat}
			continue
		}
		if lon < bbox.West {
			bbox.West = lon
		}
		if lon > bbox.East {
			bbox.East = lon
		}
		if lat > bbox.North {
			bbox.North = lat
		}
		if lat < bbox.South {
			bbox.South = lat
		}
	}
	return checked(bbox)
}

// LineExtent unions the per-geometry bounds of c and pads every edge by pad.
func LineExtent(c Collection, pad float64) (BBox, error) {
	var (
		bound orb.Bound
		found bool
	)
	for _, g := range c.Geometries {
		if numPoints(g) == 0 {
			continue
		}
		b := g.Bound()
		if !found {
			bound, found = b, true
			continue
		}
		bound = bound.Union(b)
	}
	if !found {
		return BBox{}, fmt.Errorf("line extent: no geometries: %w", ErrInvalidInput)
	}
	return checked(bboxFromBound(bound).Pad(pad))
}

func checked(b BBox) (BBox, error) {
	for _, v := range []float64{b.West, b.East, b.North, b.South} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return BBox{}, fmt.Errorf("extent: non-finite coordinate: %w", ErrInvalidInput)
		}
	}
	return b, nil
}
