package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"trackviz/internal/canvas"
)

const sidebarWidth = 28

// Model is a bubbletea model that shows the layers of a canvas.Surface as a
// braille map.
type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// Data
	surface *canvas.Surface
	layers  []canvas.Layer
	bound   orb.Bound

	// layer list in the sidebar
	l list.Model

	// last rendered map size (for inspect)
	mapW int
	mapH int

	// paste mode adds WKT overlays
	pasteMode bool
	ta        textarea.Model

	// visibility per kind and per layer index
	hiddenKinds  map[canvas.Kind]bool
	hiddenLayers map[int]bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// layer table
	showAttrs bool
	tbl       table.Model
}

// New builds a viewer for s. The surface is read once; later changes to it
// are not picked up.
func New(s *canvas.Surface) Model {
	m := Model{
		helpVisible:  true,
		zoom:         1.0,
		hiddenKinds:  map[canvas.Kind]bool{},
		hiddenLayers: map[int]bool{},
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Layers"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here, one geometry per line. Enter to add as overlay; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.setSurface(s)
	return m
}

func (m *Model) setSurface(s *canvas.Surface) {
	if s == nil {
		s = canvas.New()
	}
	m.surface = s
	m.layers = s.Layers()
	m.bound = viewBound(s)
	m.refreshLayerList()
	m.status = fmt.Sprintf("%d layers", len(m.layers))
}

// viewBound is the surface bound, widened when it has no area so that a
// single point still maps to the centre.
func viewBound(s *canvas.Surface) orb.Bound {
	b, ok := s.Bound()
	if !ok {
		return orb.Bound{Min: orb.Point{-180, -85}, Max: orb.Point{180, 85}}
	}
	const minSpan = 1e-3
	if b.Max[0]-b.Min[0] < minSpan {
		b.Min[0] -= minSpan / 2
		b.Max[0] += minSpan / 2
	}
	if b.Max[1]-b.Min[1] < minSpan {
		b.Min[1] -= minSpan / 2
		b.Max[1] += minSpan / 2
	}
	return b
}

func (m Model) layerVisible(i int) bool {
	return !m.hiddenLayers[i] && !m.hiddenKinds[m.layers[i].Kind]
}

func (m Model) Init() tea.Cmd { return nil }
