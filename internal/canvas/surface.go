// Package canvas holds the drawing surface shared by the renderers: an
// ordered list of vector layers in geographic coordinates, rasterised on demand.
package canvas

import (
	"image/color"
	"sort"

	"github.com/paulmach/orb"
)

// Kind tells backends how to draw a layer.
type Kind int

const (
	KindBasemap Kind = iota
	KindPoints
	KindLines
	KindCircles
)

func (k Kind) String() string {
	switch k {
	case KindBasemap:
		return "basemap"
	case KindPoints:
		return "points"
	case KindLines:
		return "lines"
	case KindCircles:
		return "circles"
	}
	return "unknown"
}

// Z-orders used by the renderers. Higher draws later.
const (
	ZBasemap       = 0
	ZPositionfixes = 2
	ZStaypoints    = 3
	ZTriplegs      = 4
)

// Layer is one drawn element group. Points are used by KindPoints, Lines by
// every other kind (circle rings are closed line strings).
type Layer struct {
	Name   string
	Kind   Kind
	Z      int
	Points []orb.Point
	Lines  []orb.LineString
	// Colors holds one colour per point or line; Color is the fallback.
	Colors []color.Color
	Color  color.Color
	// Size is the marker area (points) or stroke width (lines) in points.
	Size float64

	seq int
}

// Len returns the number of drawable elements.
func (l Layer) Len() int {
	if l.Kind == KindPoints {
		return len(l.Points)
	}
	return len(l.Lines)
}

// ColorAt returns the colour of element i.
func (l Layer) ColorAt(i int) color.Color {
	if i < len(l.Colors) && l.Colors[i] != nil {
		return l.Colors[i]
	}
	if l.Color != nil {
		return l.Color
	}
	return color.Black
}

// Bound returns the bounds of every coordinate in the layer.
func (l Layer) Bound() (orb.Bound, bool) {
	var (
		b  orb.Bound
		ok bool
	)
	extend := func(p orb.Point) {
		if !ok {
			b, ok = orb.Bound{Min: p, Max: p}, true
			return
		}
		b = b.Extend(p)
	}
	for _, p := range l.Points {
		extend(p)
	}
	for _, ls := range l.Lines {
		for _, p := range ls {
			extend(p)
		}
	}
	return b, ok
}

// Surface accumulates layers. It is not safe for concurrent use; renderers
// that share one pass it down the call tree.
type Surface struct {
	layers []Layer
	next   int
}

// New returns an empty surface.
func New() *Surface { return &Surface{} }

// Add appends a layer and returns its position in draw order.
func (s *Surface) Add(l Layer) int {
	l.seq = s.next
	s.next++
	s.layers = append(s.layers, l)
	sort.SliceStable(s.layers, func(i, j int) bool {
		if s.layers[i].Z != s.layers[j].Z {
			return s.layers[i].Z < s.layers[j].Z
		}
		return s.layers[i].seq < s.layers[j].seq
	})
	for i := range s.layers {
		if s.layers[i].seq == l.seq {
			return i
		}
	}
	return len(s.layers) - 1
}

// Layers returns the layers in draw order (z-order, then insertion).
func (s *Surface) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Len returns the number of layers.
func (s *Surface) Len() int { return len(s.layers) }

// Index returns the draw position of the first layer with the given name, or -1.
func (s *Surface) Index(name string) int {
	for i, l := range s.layers {
		if l.Name == name {
			return i
		}
	}
	return -1
}

// Bound is the union of all layer bounds.
func (s *Surface) Bound() (orb.Bound, bool) {
	var (
		b  orb.Bound
		ok bool
	)
	for _, l := range s.layers {
		lb, lok := l.Bound()
		if !lok {
			continue
		}
		if !ok {
			b, ok = lb, true
			continue
		}
		b = b.Union(lb)
	}
	return b, ok
}
