// Package render composes trace layers onto a shared drawing surface and
// finalises the result as a PNG file or an interactive display.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"trackviz/internal/canvas"
	"trackviz/internal/geom"
)

// ErrNoDisplay is returned when an owned surface has no output path and no
// Display is configured.
var ErrNoDisplay = errors.New("no interactive display configured")

// Basemap draws a street network for a box onto a surface.
type Basemap interface {
	Streets(ctx context.Context, north, south, east, west float64, s *canvas.Surface) error
}

// Display shows a finished surface interactively.
type Display interface {
	Show(s *canvas.Surface) error
}

// Renderer holds the collaborators shared by all render calls. The zero value
// is usable for borrowed surfaces without basemaps.
type Renderer struct {
	Basemap    Basemap
	Display    Display
	Normalizer geom.Normalizer
	Raster     canvas.RasterOptions
	// NewSurface creates owned surfaces; nil means canvas.New.
	NewSurface func() *canvas.Surface
	// Staypoint receives delegated staypoint context layers; nil means the
	// Renderer itself.
	Staypoint StaypointDrawer
	Logger    *slog.Logger
}

// Target is a surface plus who is responsible for finalising it.
type Target struct {
	Surface *canvas.Surface
	Owned   bool
}

// acquire wraps a caller-supplied surface as borrowed or creates an owned one.
func (r *Renderer) acquire(s *canvas.Surface) Target {
	if s != nil {
		return Target{Surface: s, Owned: false}
	}
	if r.NewSurface != nil {
		return Target{Surface: r.NewSurface(), Owned: true}
	}
	return Target{Surface: canvas.New(), Owned: true}
}

// finalize persists the surface when output is set, otherwise shows owned
// surfaces and leaves borrowed ones to their owner.
func (r *Renderer) finalize(t Target, output string) error {
	switch {
	case output != "":
		if err := canvas.SavePNG(output, t.Surface.Raster(r.Raster)); err != nil {
			return fmt.Errorf("save figure: %w", err)
		}
		r.logger().Info("figure saved", "path", output, "layers", t.Surface.Len())
		return nil
	case t.Owned:
		if r.Display == nil {
			return ErrNoDisplay
		}
		return r.Display.Show(t.Surface)
	}
	return nil
}

func (r *Renderer) basemap(ctx context.Context, bb geom.BBox, s *canvas.Surface) error {
	if r.Basemap == nil {
		return errors.New("basemap requested but no provider configured")
	}
	r.logger().Debug("requesting basemap", "bbox", bb.String())
	if err := r.Basemap.Streets(ctx, bb.North, bb.South, bb.East, bb.West, s); err != nil {
		return fmt.Errorf("basemap: %w", err)
	}
	return nil
}

func (r *Renderer) normalizer() geom.Normalizer {
	n := r.Normalizer
	if n.Logger == nil {
		n.Logger = r.logger()
	}
	return n
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
