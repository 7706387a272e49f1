package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// RasterOptions sizes the output image.
type RasterOptions struct {
	Width, Height int
	// Scale converts point sizes to pixels.
	Scale float64
	// Margin is the fraction of the data span left around it; zero means
	// the default 5 % unless NoMargin is set.
	Margin     float64
	NoMargin   bool
	Background color.Color
}

// DefaultRasterOptions matches a 8x8 inch figure at 100 dpi.
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{Width: 800, Height: 800, Scale: 100.0 / 72.0, Margin: 0.05, Background: color.White}
}

func (o RasterOptions) withDefaults() RasterOptions {
	d := DefaultRasterOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	switch {
	case o.NoMargin:
		o.Margin = 0
	case o.Margin <= 0:
		o.Margin = d.Margin
	}
	if o.Background == nil {
		o.Background = d.Background
	}
	return o
}

// Raster draws every layer in draw order onto a new RGBA image.
func (s *Surface) Raster(opts RasterOptions) *image.RGBA {
	opts = opts.withDefaults()
	w, h := opts.Width, opts.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	b, ok := s.Bound()
	if !ok {
		return img
	}
	vp := NewViewport(b, w, h, opts.Margin)
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	filler := rasterx.NewFiller(w, h, scanner)
	dasher := rasterx.NewDasher(w, h, scanner)

	for _, l := range s.layers {
		switch l.Kind {
		case KindPoints:
			r := math.Max(1, math.Sqrt(l.Size)*opts.Scale)
			for i, p := range l.Points {
				x, y := vp.Project(p)
				filler.Clear()
				filler.SetColor(l.ColorAt(i))
				rasterx.AddCircle(x, y, r, filler)
				filler.Draw()
			}
		default:
			width := math.Max(0.5, l.Size*opts.Scale)
			dasher.SetStroke(toFixed(width), toFixed(4), rasterx.RoundCap, rasterx.RoundCap,
				rasterx.RoundGap, rasterx.Round, nil, 0)
			for i, ls := range l.Lines {
				if len(ls) < 2 {
					continue
				}
				dasher.Clear()
				dasher.SetColor(l.ColorAt(i))
				strokePath(dasher, vp, ls, l.Kind == KindCircles)
				dasher.Draw()
			}
		}
	}
	filler.Clear()
	dasher.Clear()
	return img
}

func strokePath(a rasterx.Adder, vp Viewport, ls orb.LineString, closed bool) {
	for i, p := range ls {
		x, y := vp.Project(p)
		pt := fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
		if i == 0 {
			a.Start(pt)
			continue
		}
		a.Line(pt)
	}
	a.Stop(closed)
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG writes img to path, replacing any existing file.
func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := EncodePNG(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
