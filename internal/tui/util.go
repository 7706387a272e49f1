package tui

import (
	"fmt"
	"image/color"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// hexColor formats c as #rrggbb, or "" for nil.
func hexColor(c color.Color) string {
	if c == nil {
		return ""
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
