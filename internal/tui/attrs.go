package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
)

var layerColumns = []string{"name", "kind", "z", "n", "visible", "bbox"}

// refreshAttrs rebuilds the layer table from the current surface.
func (m *Model) refreshAttrs() {
	rows := m.layerRows()
	if len(rows) == 0 {
		m.showAttrs = false
		m.status = "no layers"
		return
	}
	tcols := make([]table.Column, 0, len(layerColumns)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	widths := make([]int, len(layerColumns))
	for i, c := range layerColumns {
		widths[i] = len(c) + 2
	}
	for _, r := range rows {
		for i, v := range r {
			widths[i] = max(widths[i], len(v)+2)
		}
	}
	for i, c := range layerColumns {
		tcols = append(tcols, table.Column{Title: c, Width: min(widths[i], 48)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		trows = append(trows, append(table.Row{fmt.Sprintf("%d", i+1)}, r...))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

func (m Model) layerRows() [][]string {
	rows := make([][]string, 0, len(m.layers))
	for i, l := range m.layers {
		bbox := ""
		if b, ok := l.Bound(); ok {
			bbox = fmt.Sprintf("[%.5f,%.5f,%.5f,%.5f]", b.Min[0], b.Min[1], b.Max[0], b.Max[1])
		}
		rows = append(rows, []string{
			l.Name,
			l.Kind.String(),
			fmt.Sprintf("%d", l.Z),
			fmt.Sprintf("%d", l.Len()),
			fmt.Sprintf("%v", m.layerVisible(i)),
			bbox,
		})
	}
	return rows
}
