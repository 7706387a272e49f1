package tui

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// brailleBuf is a 2x4 dot grid per terminal cell. Each cell keeps the colour
// of the last dot drawn into it.
type brailleBuf struct {
	w, h int // in cells
	m    [][]uint8
	c    [][]color.Color
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	c := make([][]color.Color, h)
	for i := range m {
		m[i] = make([]uint8, w)
		c[i] = make([]color.Color, w)
	}
	return &brailleBuf{w: w, h: h, m: m, c: c}
}

// dot bits indexed by [column][row] within a cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, col color.Color) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[rx][ry]
	if col != nil {
		b.c[cy][cx] = col
	}
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, col color.Color) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// dot fills a square of side 2r+1 micro-pixels around (mx, my).
func (b *brailleBuf) dot(mx, my, r int, col color.Color) {
	for y := my - r; y <= my+r; y++ {
		for x := mx - r; x <= mx+r; x++ {
			b.setPixel(x, y, col)
		}
	}
}

func (b *brailleBuf) glyph(x, y int) rune {
	if b.m[y][x] == 0 {
		return ' '
	}
	return rune(0x2800 + int(b.m[y][x]))
}

// toLines renders each row, styling runs of equally coloured cells.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var (
			sb  strings.Builder
			run []rune
			cur string
		)
		flush := func() {
			if len(run) == 0 {
				return
			}
			if cur == "" {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(cur)).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			r := b.glyph(x, y)
			hex := ""
			if r != ' ' {
				hex = hexColor(b.c[y][x])
			}
			if hex != cur {
				flush()
				cur = hex
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}
