package render

import (
	"context"
	"fmt"
	"image/color"

	"trackviz/internal/canvas"
	"trackviz/internal/geom"
	"trackviz/internal/metrics"
)

// PositionfixLayer is the name of the point layer drawn for positionfixes.
const PositionfixLayer = "positionfixes"

const positionfixMarkerSize = 0.5

var positionfixColor = color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// PositionfixOptions configures Renderer.Positionfixes.
type PositionfixOptions struct {
	// Output is the PNG path; empty means display (owned surfaces only).
	Output string
	// Basemap draws OSM streets below the points.
	Basemap bool
	// Surface, when set, is borrowed: it is drawn on but never finalised
	// unless Output is set.
	Surface *canvas.Surface
}

// Positionfixes draws raw location samples, optionally over a basemap
// fetched for their exact extent.
func (r *Renderer) Positionfixes(ctx context.Context, pfs geom.Collection, opts PositionfixOptions) (err error) {
	defer func() { metrics.ObserveRender("positionfixes", err) }()

	t := r.acquire(opts.Surface)
	if err := r.drawPositionfixes(ctx, t.Surface, pfs, opts.Basemap); err != nil {
		return err
	}
	return r.finalize(t, opts.Output)
}

func (r *Renderer) drawPositionfixes(ctx context.Context, s *canvas.Surface, pfs geom.Collection, withBasemap bool) error {
	pfs, err := r.normalizer().Normalize(pfs)
	if err != nil {
		return fmt.Errorf("normalize positionfixes: %w", err)
	}
	if withBasemap {
		bb, err := geom.PointExtent(pfs)
		if err != nil {
			return fmt.Errorf("positionfix extent: %w", err)
		}
		if err := r.basemap(ctx, bb, s); err != nil {
			return err
		}
	}
	s.Add(canvas.Layer{
		Name:   PositionfixLayer,
		Kind:   canvas.KindPoints,
		Z:      canvas.ZPositionfixes,
		Points: pfs.Points(),
		Color:  positionfixColor,
		Size:   positionfixMarkerSize,
	})
	metrics.LayersDrawn.WithLabelValues(canvas.KindPoints.String()).Inc()
	return nil
}
