package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"trackviz/internal/canvas"
)

// cellToLonLat converts a map cell coordinate back to lon/lat using the view
// bound, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if w <= 1 || h <= 1 {
		return 0, 0, false
	}
	b := m.bound
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := b.Min[0] + nx*(b.Max[0]-b.Min[0])
	lat := b.Min[1] + ny*(b.Max[1]-b.Min[1])
	return lon, lat, true
}

// renderMap draws every visible layer, in surface order, into a w x h cell
// braille map.
func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)
	for i, l := range m.layers {
		if !m.layerVisible(i) {
			continue
		}
		switch l.Kind {
		case canvas.KindPoints:
			r := 0
			if l.Size >= 2 {
				r = 1
			}
			for j, p := range l.Points {
				mx, my := m.screenXYMicro(p, w, h)
				br.dot(mx, my, r, l.ColorAt(j))
			}
		default:
			for j, ls := range l.Lines {
				col := l.ColorAt(j)
				for k := 1; k < len(ls); k++ {
					x0, y0 := m.screenXYMicro(ls[k-1], w, h)
					x1, y1 := m.screenXYMicro(ls[k], w, h)
					br.drawLineMicro(x0, y0, x1, y1, col)
				}
			}
		}
	}
	lines := br.toLines()

	// Hover highlight: draw an orange circle at the hovered vertex cell
	if m.hovering {
		cx := m.hoverMicX / 2
		cy := m.hoverMicY / 4
		if cy >= 0 && cy < h && cx >= 0 && cx < w {
			row := make([]rune, w)
			for x := range row {
				row[x] = br.glyph(x, cy)
			}
			circle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("◯")
			lines[cy] = string(row[:cx]) + circle + string(row[cx+1:])
		}
	}
	return strings.Join(lines, "\n")
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(p orb.Point, w, h int) (int, int) {
	b := m.bound
	nx := (p[0] - b.Min[0]) / (b.Max[0] - b.Min[0])
	ny := (p[1] - b.Min[1]) / (b.Max[1] - b.Min[1])
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy
}

// nearestVertex returns the micro coordinates and position of the visible
// vertex closest to (hx, hy) in micro coordinates.
func (m Model) nearestVertex(hx, hy, w, h int) (mx, my int, p orb.Point, ok bool) {
	best := math.MaxInt
	visit := func(q orb.Point) {
		x, y := m.screenXYMicro(q, w, h)
		dx, dy := x-hx, y-hy
		if d := dx*dx + dy*dy; d < best {
			best, mx, my, p, ok = d, x, y, q, true
		}
	}
	for i, l := range m.layers {
		if !m.layerVisible(i) || l.Kind == canvas.KindBasemap {
			continue
		}
		for _, q := range l.Points {
			visit(q)
		}
		for _, ls := range l.Lines {
			for _, q := range ls {
				visit(q)
			}
		}
	}
	return mx, my, p, ok
}

// inspectNearest finds the vertex closest to the viewport center.
func (m Model) inspectNearest() (orb.Point, bool) {
	w, h := m.mapW, m.mapH
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	_, _, p, ok := m.nearestVertex(w, h*2, w, h)
	return p, ok
}
