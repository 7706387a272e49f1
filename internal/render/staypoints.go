package render

import (
	"context"
	"fmt"
	"image/color"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"trackviz/internal/canvas"
	"trackviz/internal/geom"
	"trackviz/internal/metrics"
)

const (
	StaypointLayer       = "staypoints"
	StaypointRadiusLayer = "staypoint-radius"

	// DefaultRadius is the ring radius in metres used when none is given.
	DefaultRadius = 5.0

	staypointMarkerSize = 3
	ringWidth           = 1
	ringSegments        = 64
)

var (
	staypointColor = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	ringColor      = color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
)

// StaypointDrawer draws staypoints onto a surface. Renderer implements it;
// Triplegs delegates to it for the staypoint context layer.
type StaypointDrawer interface {
	Staypoints(ctx context.Context, sps geom.Collection, opts StaypointOptions) error
}

// StaypointOptions configures Renderer.Staypoints.
type StaypointOptions struct {
	Output        string
	Positionfixes *geom.Collection
	// Radius of the uncertainty ring in metres; 0 means DefaultRadius.
	Radius  float64
	Basemap bool
	Surface *canvas.Surface
}

// Staypoints draws staypoint markers with a radius ring each. Positionfixes,
// when given, are drawn underneath and size the basemap; otherwise the
// basemap covers the staypoints padded by geom.LinePadding.
func (r *Renderer) Staypoints(ctx context.Context, sps geom.Collection, opts StaypointOptions) (err error) {
	defer func() { metrics.ObserveRender("staypoints", err) }()

	t := r.acquire(opts.Surface)
	sps, err = r.normalizer().Normalize(sps)
	if err != nil {
		return fmt.Errorf("normalize staypoints: %w", err)
	}

	switch {
	case opts.Positionfixes != nil:
		if err := r.drawPositionfixes(ctx, t.Surface, *opts.Positionfixes, opts.Basemap); err != nil {
			return fmt.Errorf("positionfix context: %w", err)
		}
	case opts.Basemap:
		bb, err := geom.PointExtent(sps)
		if err != nil {
			return fmt.Errorf("staypoint extent: %w", err)
		}
		if err := r.basemap(ctx, bb.Pad(geom.LinePadding), t.Surface); err != nil {
			return err
		}
	}

	radius := opts.Radius
	if radius <= 0 {
		radius = DefaultRadius
	}
	pts := sps.Points()
	rings := make([]orb.LineString, 0, len(pts))
	for _, p := range pts {
		rings = append(rings, Ring(p, radius, ringSegments))
	}
	t.Surface.Add(canvas.Layer{
		Name:  StaypointRadiusLayer,
		Kind:  canvas.KindCircles,
		Z:     canvas.ZStaypoints,
		Lines: rings,
		Color: ringColor,
		Size:  ringWidth,
	})
	t.Surface.Add(canvas.Layer{
		Name:   StaypointLayer,
		Kind:   canvas.KindPoints,
		Z:      canvas.ZStaypoints,
		Points: pts,
		Color:  staypointColor,
		Size:   staypointMarkerSize,
	})
	metrics.LayersDrawn.WithLabelValues(canvas.KindCircles.String()).Inc()
	metrics.LayersDrawn.WithLabelValues(canvas.KindPoints.String()).Inc()

	return r.finalize(t, opts.Output)
}

// Ring approximates a circle of radius metres around center with n
// vertices. The first vertex is repeated at the end.
func Ring(center orb.Point, radius float64, n int) orb.LineString {
	if n < 3 {
		n = 3
	}
	ls := make(orb.LineString, 0, n+1)
	for i := 0; i < n; i++ {
		ls = append(ls, geo.PointAtBearingAndDistance(center, 360*float64(i)/float64(n), radius))
	}
	return append(ls, ls[0])
}
