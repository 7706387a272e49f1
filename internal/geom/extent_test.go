package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointExtentExact(t *testing.T) {
	require := require.New(t)
	c := NewPoints(WGS84, orb.Point{8.5, 47.3}, orb.Point{8.6, 47.4}, orb.Point{8.55, 47.35})

	bb, err := Extent(c)
	require.NoError(err)
	require.Equal(8.5, bb.West)
	require.Equal(8.6, bb.East)
	require.Equal(47.4, bb.North)
	require.Equal(47.3, bb.South)
	require.LessOrEqual(bb.West, bb.East)
	require.LessOrEqual(bb.South, bb.North)
}

func TestPointExtentSinglePoint(t *testing.T) {
	bb, err := PointExtent(NewPoints(WGS84, orb.Point{-3.7, 40.4}))
	require.NoError(t, err)
	assert.Equal(t, BBox{West: -3.7, East: -3.7, North: 40.4, South: 40.4}, bb)
}

func TestPointExtentMultiPoint(t *testing.T) {
	c := Collection{CRS: WGS84, Geometries: []orb.Geometry{
		orb.MultiPoint{{1, 2}, {3, -4}},
		orb.Point{-1, 0},
	}}
	bb, err := Extent(c)
	require.NoError(t, err)
	assert.Equal(t, BBox{West: -1, East: 3, North: 2, South: -4}, bb)
}

func TestLineExtentPadded(t *testing.T) {
	require := require.New(t)
	c := NewLines(WGS84,
		orb.LineString{{8.50, 47.30}, {8.52, 47.33}},
		orb.LineString{{8.49, 47.36}, {8.61, 47.31}},
	)

	bb, err := Extent(c)
	require.NoError(err)
	require.InDelta(0.03, 8.49-bb.West, 1e-12)
	require.InDelta(0.03, bb.East-8.61, 1e-12)
	require.InDelta(0.03, bb.North-47.36, 1e-12)
	require.InDelta(0.03, 47.30-bb.South, 1e-12)
}

func TestLineExtentCustomPad(t *testing.T) {
	c := NewLines(WGS84, orb.LineString{{0, 0}, {1, 1}})
	bb, err := LineExtent(c, 0)
	require.NoError(t, err)
	assert.Equal(t, BBox{West: 0, East: 1, North: 1, South: 0}, bb)
}

func TestMixedCollectionTakesLinePath(t *testing.T) {
	c := Collection{CRS: WGS84, Geometries: []orb.Geometry{
		orb.Point{5, 5},
		orb.LineString{{0, 0}, {1, 1}},
	}}
	bb, err := Extent(c)
	require.NoError(t, err)
	assert.InDelta(t, -LinePadding, bb.West, 1e-12)
	assert.InDelta(t, LinePadding, bb.North-5, 1e-12)
}

func TestExtentEmpty(t *testing.T) {
	emptyLine := NewLines(WGS84, orb.LineString{})
	cases := map[string]func() (BBox, error){
		"extent":     func() (BBox, error) { return Extent(Collection{CRS: WGS84}) },
		"points":     func() (BBox, error) { return PointExtent(Collection{}) },
		"lines":      func() (BBox, error) { return LineExtent(Collection{}, LinePadding) },
		"empty line": func() (BBox, error) { return LineExtent(emptyLine, LinePadding) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			bb, err := fn()
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, BBox{}, bb)
		})
	}
}

func TestExtentRejectsNaN(t *testing.T) {
	_, err := PointExtent(NewPoints(WGS84, orb.Point{math.NaN(), 1}))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBBoxPad(t *testing.T) {
	bb := BBox{West: 1, East: 2, North: 4, South: 3}.Pad(0.5)
	assert.Equal(t, BBox{West: 0.5, East: 2.5, North: 4.5, South: 2.5}, bb)
	assert.Equal(t, orb.Bound{Min: orb.Point{0.5, 2.5}, Max: orb.Point{2.5, 4.5}}, bb.Bound())
}
