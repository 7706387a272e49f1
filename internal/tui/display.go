package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"trackviz/internal/canvas"
)

// Display shows surfaces in a full-screen terminal viewer. It blocks until
// the user quits.
type Display struct {
	// Options are passed to tea.NewProgram; nil means alt screen with mouse
	// motion tracking.
	Options []tea.ProgramOption
}

func (d Display) Show(s *canvas.Surface) error {
	opts := d.Options
	if opts == nil {
		opts = []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion()}
	}
	_, err := tea.NewProgram(New(s), opts...).Run()
	return err
}
