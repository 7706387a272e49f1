package tui

import (
	"image/color"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackviz/internal/canvas"
)

func testSurface() *canvas.Surface {
	s := canvas.New()
	s.Add(canvas.Layer{
		Name:  "triplegs",
		Kind:  canvas.KindLines,
		Z:     canvas.ZTriplegs,
		Lines: []orb.LineString{{{8.5, 47.3}, {8.6, 47.4}}},
		Color: color.NRGBA{R: 0x44, G: 0x01, B: 0x54, A: 0xff},
	})
	s.Add(canvas.Layer{
		Name:   "positionfixes",
		Kind:   canvas.KindPoints,
		Z:      canvas.ZPositionfixes,
		Points: []orb.Point{{8.5, 47.3}, {8.6, 47.4}},
	})
	return s
}

func sized(m Model, w, h int) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(Model)
}

func press(m Model, key string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func hasBraille(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r > 0x2800 && r <= 0x28ff })
}

func TestNewReadsSurface(t *testing.T) {
	m := New(testSurface())
	require.Len(t, m.layers, 2)
	assert.Equal(t, "positionfixes", m.layers[0].Name)
	assert.Equal(t, orb.Point{8.5, 47.3}, m.bound.Min)
	assert.Equal(t, orb.Point{8.6, 47.4}, m.bound.Max)
	assert.Len(t, m.l.Items(), 2)
}

func TestViewDrawsLayers(t *testing.T) {
	m := sized(New(testSurface()), 80, 24)
	v := m.View()
	assert.Contains(t, v, "trackviz")
	assert.True(t, hasBraille(v))
}

func TestViewBeforeSize(t *testing.T) {
	assert.Empty(t, New(testSurface()).View())
}

func TestKindToggleHidesLayers(t *testing.T) {
	m := New(testSurface())
	m, _ = press(m, "2")
	m, _ = press(m, "3")
	assert.False(t, hasBraille(m.renderMap(40, 10)))
	assert.True(t, m.hiddenKinds[canvas.KindPoints])

	m, _ = press(m, "3")
	assert.True(t, hasBraille(m.renderMap(40, 10)))
}

func TestSidebarToggleLayer(t *testing.T) {
	m := sized(New(testSurface()), 80, 24)
	m, _ = press(m, "tab")
	require.True(t, m.showSidebar)
	m, _ = press(m, "enter")
	assert.True(t, m.hiddenLayers[0])
	assert.False(t, m.layerVisible(0))
	assert.True(t, m.layerVisible(1))
}

func TestZoomAndReset(t *testing.T) {
	m := New(testSurface())
	m, _ = press(m, "+")
	assert.InDelta(t, 1.2, m.zoom, 1e-9)
	m.offsetX = 4
	m, _ = press(m, "0")
	assert.Equal(t, 1.0, m.zoom)
	assert.Zero(t, m.offsetX)
}

func TestQuit(t *testing.T) {
	_, cmd := press(New(testSurface()), "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAddOverlay(t *testing.T) {
	s := testSurface()
	m := New(s)
	require.NoError(t, m.addOverlay("POINT (8.55 47.35)\nPOINT (8.56 47.36)"))
	assert.Equal(t, 3, s.Len())
	top := m.layers[len(m.layers)-1]
	assert.Equal(t, canvas.KindPoints, top.Kind)
	assert.Equal(t, ZOverlay, top.Z)
	assert.Len(t, top.Points, 2)

	assert.Error(t, m.addOverlay("   "))
	assert.Error(t, m.addOverlay("NOT WKT"))
	assert.Equal(t, 3, s.Len())
}

func TestAttrsTable(t *testing.T) {
	m := New(testSurface())
	m, _ = press(m, "a")
	require.True(t, m.showAttrs)
	rows := m.tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "positionfixes", rows[0][1])
	assert.Equal(t, "points", rows[0][2])
	assert.Equal(t, "2", rows[0][4])
}

func TestAttrsEmptySurface(t *testing.T) {
	m := New(canvas.New())
	m, _ = press(m, "a")
	assert.False(t, m.showAttrs)
	assert.Equal(t, "no layers", m.status)
}

func TestInspectNearest(t *testing.T) {
	m := New(testSurface())
	m, _ = press(m, "i")
	assert.Contains(t, m.inspectPopup, "nearest: lon=")
	m, _ = press(m, "esc")
	assert.Empty(t, m.inspectPopup)
}

func TestHoverCoordinates(t *testing.T) {
	m := sized(New(testSurface()), 80, 24)
	next, _ := m.Update(tea.MouseMsg{X: 0, Y: headerHeight})
	m = next.(Model)
	require.True(t, m.hoverHasGeo)
	assert.InDelta(t, 8.5, m.hoverLon, 1e-9)
	assert.InDelta(t, 47.4, m.hoverLat, 1e-9)

	next, _ = m.Update(tea.MouseMsg{X: 0, Y: 0})
	assert.False(t, next.(Model).hovering)
}

func TestBrailleBits(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.setPixel(0, 0, nil)
	b.setPixel(3, 3, nil)
	b.setPixel(-1, 0, nil)
	b.setPixel(4, 0, nil)
	assert.Equal(t, '⠁', b.glyph(0, 0))
	assert.Equal(t, '⢀', b.glyph(1, 0))
	assert.Equal(t, []string{"⠁⢀"}, b.toLines())
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#ffa500", hexColor(overlayColor))
	assert.Equal(t, "", hexColor(nil))
}

func TestDisplayQuits(t *testing.T) {
	d := Display{Options: []tea.ProgramOption{
		tea.WithInput(strings.NewReader("q")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	}}
	assert.NoError(t, d.Show(testSurface()))
}
