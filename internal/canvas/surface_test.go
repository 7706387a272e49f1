package canvas

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddKeepsZOrderThenInsertion(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Add(Layer{Name: "triplegs", Kind: KindLines, Z: ZTriplegs}))
	assert.Equal(t, 0, s.Add(Layer{Name: "basemap", Kind: KindBasemap, Z: ZBasemap}))
	assert.Equal(t, 1, s.Add(Layer{Name: "pfs", Kind: KindPoints, Z: ZPositionfixes}))
	assert.Equal(t, 2, s.Add(Layer{Name: "pfs-2", Kind: KindPoints, Z: ZPositionfixes}))

	var names []string
	for _, l := range s.Layers() {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"basemap", "pfs", "pfs-2", "triplegs"}, names)
	assert.Equal(t, 3, s.Index("triplegs"))
	assert.Equal(t, -1, s.Index("staypoints"))
	assert.Equal(t, 4, s.Len())
}

func TestLayersReturnsCopy(t *testing.T) {
	s := New()
	s.Add(Layer{Name: "a"})
	ls := s.Layers()
	ls[0].Name = "changed"
	assert.Equal(t, "a", s.Layers()[0].Name)
}

func TestSurfaceBound(t *testing.T) {
	s := New()
	_, ok := s.Bound()
	assert.False(t, ok)

	s.Add(Layer{Kind: KindPoints, Points: []orb.Point{{8.5, 47.3}}})
	s.Add(Layer{Kind: KindLines, Lines: []orb.LineString{{{8.4, 47.35}, {8.45, 47.5}}}})
	s.Add(Layer{Kind: KindLines})

	b, ok := s.Bound()
	require.True(t, ok)
	assert.Equal(t, orb.Bound{Min: orb.Point{8.4, 47.3}, Max: orb.Point{8.5, 47.5}}, b)
}

func TestLayerColorAt(t *testing.T) {
	l := Layer{Kind: KindLines, Lines: make([]orb.LineString, 2), Colors: Ordered(1)}
	assert.Equal(t, Viridis(0), l.ColorAt(0))
	r, g, b, _ := l.ColorAt(1).RGBA()
	assert.Zero(t, r+g+b, "falls back to black")
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "lines", l.Kind.String())
}

func TestViewportKeepsPointsInside(t *testing.T) {
	vp := NewViewport(orb.Bound{Min: orb.Point{8.5, 47.3}, Max: orb.Point{8.6, 47.4}}, 200, 100, 0.05)
	for _, p := range []orb.Point{{8.5, 47.3}, {8.6, 47.4}, {8.55, 47.35}} {
		x, y := vp.Project(p)
		assert.True(t, x >= 0 && x <= 200, "x=%v", x)
		assert.True(t, y >= 0 && y <= 100, "y=%v", y)
	}
	// north is up
	_, yN := vp.Project(orb.Point{8.55, 47.4})
	_, yS := vp.Project(orb.Point{8.55, 47.3})
	assert.Less(t, yN, yS)
}

func TestViewportSinglePoint(t *testing.T) {
	vp := NewViewport(orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{1, 1}}, 100, 100, 0)
	x, y := vp.Project(orb.Point{1, 1})
	assert.InDelta(t, 50, x, 1e-6)
	assert.InDelta(t, 50, y, 1e-6)
}
