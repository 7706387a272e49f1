package canvas

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// viridis anchors, evenly spaced over [0, 1].
var viridisStops = []string{
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

var viridis = func() []colorful.Color {
	out := make([]colorful.Color, len(viridisStops))
	for i, h := range viridisStops {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("canvas: bad viridis stop " + h)
		}
		out[i] = c
	}
	return out
}()

// Viridis samples the viridis colormap at t in [0, 1]; t is clamped.
func Viridis(t float64) color.Color {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(viridis)-1)
	i := int(pos)
	if i >= len(viridis)-1 {
		return viridis[len(viridis)-1].Clamped()
	}
	return viridis[i].BlendLab(viridis[i+1], pos-float64(i)).Clamped()
}

// Sequential maps values linearly onto viridis, min to the dark end.
// Equal values all get the dark end.
func Sequential(values []float64) []color.Color {
	if len(values) == 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	out := make([]color.Color, len(values))
	for i, v := range values {
		t := 0.0
		if hi > lo {
			t = (v - lo) / (hi - lo)
		}
		out[i] = Viridis(t)
	}
	return out
}

// Ordered colours n elements by their position.
func Ordered(n int) []color.Color {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i)
	}
	return Sequential(vals)
}
