package canvas

import (
	"math"

	"github.com/paulmach/orb"
)

// minSpan keeps single-point surfaces from collapsing to a zero-size view.
const minSpan = 1e-3

// Viewport maps lon/lat onto a pixel grid. Longitudes are scaled by the
// cosine of the centre latitude and the aspect ratio is preserved.
type Viewport struct {
	minX, maxY float64
	kx         float64
	scale      float64
	offX, offY float64
}

// NewViewport fits b into a w x h pixel area, leaving margin (fraction of
// the data span) around it.
func NewViewport(b orb.Bound, w, h int, margin float64) Viewport {
	if b.Max[0]-b.Min[0] < minSpan {
		c := (b.Max[0] + b.Min[0]) / 2
		b.Min[0], b.Max[0] = c-minSpan/2, c+minSpan/2
	}
	if b.Max[1]-b.Min[1] < minSpan {
		c := (b.Max[1] + b.Min[1]) / 2
		b.Min[1], b.Max[1] = c-minSpan/2, c+minSpan/2
	}
	dx := (b.Max[0] - b.Min[0]) * margin
	dy := (b.Max[1] - b.Min[1]) * margin
	b.Min[0], b.Max[0] = b.Min[0]-dx, b.Max[0]+dx
	b.Min[1], b.Max[1] = b.Min[1]-dy, b.Max[1]+dy

	kx := math.Cos((b.Min[1] + b.Max[1]) / 2 * math.Pi / 180)
	if kx < 0.01 {
		kx = 0.01
	}
	spanX := (b.Max[0] - b.Min[0]) * kx
	spanY := b.Max[1] - b.Min[1]
	scale := math.Min(float64(w)/spanX, float64(h)/spanY)
	return Viewport{
		minX:  b.Min[0],
		maxY:  b.Max[1],
		kx:    kx,
		scale: scale,
		offX:  (float64(w) - spanX*scale) / 2,
		offY:  (float64(h) - spanY*scale) / 2,
	}
}

// Project returns pixel coordinates, origin top-left.
func (v Viewport) Project(p orb.Point) (x, y float64) {
	x = v.offX + (p[0]-v.minX)*v.kx*v.scale
	y = v.offY + (v.maxY-p[1])*v.scale
	return x, y
}
