package geom

import (
	"fmt"

	"github.com/paulmach/orb"
)

// BBox is a geographic bounding box in degrees.
type BBox struct {
	West  float64
	East  float64
	North float64
	South float64
}

// Pad grows the box outward by d degrees on every edge.
func (b BBox) Pad(d float64) BBox {
	return BBox{West: b.West - d, East: b.East + d, North: b.North + d, South: b.South - d}
}

// Bound converts the box to an orb.Bound (min = south-west corner).
func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.West, b.South}, Max: orb.Point{b.East, b.North}}
}

func (b BBox) String() string {
	return fmt.Sprintf("[w=%.5f e=%.5f n=%.5f s=%.5f]", b.West, b.East, b.North, b.South)
}

func bboxFromBound(b orb.Bound) BBox {
	return BBox{West: b.Min[0], East: b.Max[0], North: b.Max[1], South: b.Min[1]}
}
