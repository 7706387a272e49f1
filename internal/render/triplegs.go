package render

import (
	"context"
	"fmt"
	"image/color"

	"github.com/paulmach/orb"

	"trackviz/internal/canvas"
	"trackviz/internal/geom"
	"trackviz/internal/metrics"
)

// TriplegLayer is the name of the line layer drawn for triplegs.
const TriplegLayer = "triplegs"

const triplegWidth = 1.5

// TriplegOptions configures Renderer.Triplegs.
type TriplegOptions struct {
	Output        string
	Positionfixes *geom.Collection
	Staypoints    *geom.Collection
	// Radius of the staypoint rings in metres; 0 uses the staypoint default.
	Radius  float64
	Basemap bool
	Surface *canvas.Surface
}

// Triplegs draws movement segments on top of one optional context layer.
// When the context is delegated, the basemap flag is honoured by the
// delegate only.
func (r *Renderer) Triplegs(ctx context.Context, tpls geom.Collection, opts TriplegOptions) (err error) {
	defer func() { metrics.ObserveRender("triplegs", err) }()

	t := r.acquire(opts.Surface)
	tpls, err = r.normalizer().Normalize(tpls)
	if err != nil {
		return fmt.Errorf("normalize triplegs: %w", err)
	}

	mode := ResolveContext(opts)
	r.logger().Debug("tripleg context", "mode", mode.String())
	switch mode {
	case ContextStaypoints:
		err := r.staypointDrawer().Staypoints(ctx, *opts.Staypoints, StaypointOptions{
			Positionfixes: opts.Positionfixes,
			Radius:        opts.Radius,
			Basemap:       opts.Basemap,
			Surface:       t.Surface,
		})
		if err != nil {
			return fmt.Errorf("staypoint context: %w", err)
		}
	case ContextPositionfixes:
		if err := r.drawPositionfixes(ctx, t.Surface, *opts.Positionfixes, opts.Basemap); err != nil {
			return fmt.Errorf("positionfix context: %w", err)
		}
	case ContextBasemap:
		bb, err := geom.LineExtent(tpls, geom.LinePadding)
		if err != nil {
			return fmt.Errorf("tripleg extent: %w", err)
		}
		if err := r.basemap(ctx, bb, t.Surface); err != nil {
			return err
		}
	}

	lines, colors := triplegLines(tpls)
	t.Surface.Add(canvas.Layer{
		Name:   TriplegLayer,
		Kind:   canvas.KindLines,
		Z:      canvas.ZTriplegs,
		Lines:  lines,
		Colors: colors,
		Size:   triplegWidth,
	})
	metrics.LayersDrawn.WithLabelValues(canvas.KindLines.String()).Inc()

	return r.finalize(t, opts.Output)
}

func (r *Renderer) staypointDrawer() StaypointDrawer {
	if r.Staypoint != nil {
		return r.Staypoint
	}
	return r
}

// triplegLines flattens the collection and colours every line string after
// the geometry it belongs to: by Values when there is one per geometry, by
// position otherwise.
func triplegLines(c geom.Collection) ([]orb.LineString, []color.Color) {
	perGeom := canvas.Ordered(c.Len())
	if len(c.Values) == c.Len() {
		perGeom = canvas.Sequential(c.Values)
	}
	var (
		lines  []orb.LineString
		colors []color.Color
	)
	for i, g := range c.Geometries {
		for _, ls := range geom.LinesOf(g) {
			lines = append(lines, ls)
			colors = append(colors, perGeom[i])
		}
	}
	return lines, colors
}
