package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"trackviz/internal/canvas"
	"trackviz/internal/geom"
)

// ZOverlay draws pasted geometries above every renderer layer.
const ZOverlay = canvas.ZTriplegs + 1

// kindKeys toggles whole layer kinds.
var kindKeys = map[string]canvas.Kind{
	"1": canvas.KindBasemap,
	"2": canvas.KindPoints,
	"3": canvas.KindLines,
	"4": canvas.KindCircles,
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.height-headerHeight-footerHeight-2)
		}
	case tea.KeyMsg:
		// While the list filters, keys belong to it.
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if k, ok := kindKeys[msg.String()]; ok {
			m.hiddenKinds[k] = !m.hiddenKinds[k]
			m.status = fmt.Sprintf("%s: %v", k, !m.hiddenKinds[k])
			m.refreshLayerList()
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "0":
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshLayerList()
				m.l.SetSize(sidebarWidth-2, m.height-headerHeight-footerHeight-2)
			}
		case "enter":
			if m.showSidebar {
				m.toggleSelected()
				return m, nil
			}
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.ta.Focus()
			m.status = "paste mode"
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrs()
			}
		case "i":
			if p, ok := m.inspectNearest(); ok {
				bb := m.bound
				m.inspectPopup = strings.Join([]string{
					fmt.Sprintf("layers: %d", len(m.layers)),
					fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", bb.Min[0], bb.Min[1], bb.Max[0], bb.Max[1]),
					fmt.Sprintf("nearest: lon=%.6f lat=%.6f", p[0], p[1]),
					"crs: " + string(geom.WGS84),
				}, "\n")
				m.status = "inspect popup"
			} else {
				m.inspectPopup = ""
				m.status = "no feature nearby"
			}
		case "esc":
			m.inspectPopup = ""
		case "up":
			m.offsetY--
		case "down":
			m.offsetY++
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		m = m.hover(msg.X, msg.Y)
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		if err := m.addOverlay(m.ta.Value()); err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// addOverlay parses WKT and adds it to the surface as a new top layer.
// Untagged input is taken as WGS84 without a warning.
func (m *Model) addOverlay(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("empty input")
	}
	c, err := geom.ParseWKTCollection(text, geom.WGS84)
	if err != nil {
		return err
	}
	n := geom.Normalizer{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	c, err = n.Normalize(c)
	if err != nil {
		return err
	}
	l := canvas.Layer{
		Name:  fmt.Sprintf("overlay-%d", len(m.layers)+1),
		Z:     ZOverlay,
		Color: overlayColor,
		Size:  2,
	}
	switch c.Kind() {
	case geom.KindPoints:
		l.Kind, l.Points = canvas.KindPoints, c.Points()
	case geom.KindLines:
		l.Kind, l.Lines = canvas.KindLines, c.Lines()
	default:
		return fmt.Errorf("no geometries")
	}
	m.surface.Add(l)
	m.setSurface(m.surface)
	m.zoom, m.offsetX, m.offsetY = 1.0, 0, 0
	m.status = fmt.Sprintf("added %s (%d)", l.Name, l.Len())
	return nil
}

// hover tracks the mouse over the map and snaps to the nearest vertex.
func (m Model) hover(x, y int) Model {
	ox, oy, w, h := m.layout()
	if x < ox || x >= ox+w || y < oy || y >= oy+h {
		m.hovering = false
		m.hoverHasGeo = false
		return m
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = x-ox, y-oy
	m.hoverLon, m.hoverLat, m.hoverHasGeo = m.cellToLonLat(m.hoverCellX, m.hoverCellY, w, h)
	m.hoverMicX, m.hoverMicY = m.hoverCellX*2, m.hoverCellY*4
	if mx, my, _, ok := m.nearestVertex(m.hoverMicX, m.hoverMicY, w, h); ok {
		m.hoverMicX, m.hoverMicY = mx, my
	}
	return m
}
