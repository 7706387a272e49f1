package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
)

type layerItem struct {
	index int
	title string
	desc  string
}

func (it layerItem) Title() string       { return it.title }
func (it layerItem) Description() string { return it.desc }
func (it layerItem) FilterValue() string { return it.title }

func (m *Model) refreshLayerList() {
	items := make([]list.Item, 0, len(m.layers))
	for i, l := range m.layers {
		mark := "●"
		if !m.layerVisible(i) {
			mark = "○"
		}
		items = append(items, layerItem{
			index: i,
			title: fmt.Sprintf("%s %s", mark, l.Name),
			desc:  fmt.Sprintf("%s z=%d n=%d", l.Kind, l.Z, l.Len()),
		})
	}
	m.l.SetItems(items)
}

// toggleSelected flips the visibility of the layer under the list cursor.
func (m *Model) toggleSelected() {
	it, ok := m.l.SelectedItem().(layerItem)
	if !ok {
		return
	}
	m.hiddenLayers[it.index] = !m.hiddenLayers[it.index]
	m.status = fmt.Sprintf("%s: %v", m.layers[it.index].Name, !m.hiddenLayers[it.index])
	m.refreshLayerList()
}
