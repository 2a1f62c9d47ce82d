package draw

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// Panel renders a bordered box with a bold title followed by lines.
func Panel(title string, lines ...string) string {
	parts := make([]string, 0, len(lines)+2)
	parts = append(parts, titleStyle.Render(title), "")
	parts = append(parts, lines...)
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Dim renders s in a faint style.
func Dim(s string) string {
	return dimStyle.Render(s)
}

// Bar renders a fixed-width progress bar for a fraction in [0,1].
func Bar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	fraction = math.Max(0, math.Min(1, fraction))
	filled := int(math.Round(fraction * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Stars renders earned out of total stars, e.g. "**-".
func Stars(earned, total int) string {
	earned = max(0, min(earned, total))
	return strings.Repeat("*", earned) + strings.Repeat("-", total-earned)
}

// BlockSize returns the printable width and height of a rendered block.
func BlockSize(block string) (w, h int) {
	return lipgloss.Width(block), lipgloss.Height(block)
}

// Overlay writes a multi-line block with its top-left corner at (col, row),
// 1-based and relative to the writer's offset.
func Overlay(cw *ChunkWriter, col, row int, block string) {
	for i, line := range strings.Split(block, "\n") {
		cw.WriteAt(col, row+i, line)
	}
}

// OverlayCentered writes block centered inside an area of w x h cells.
func OverlayCentered(cw *ChunkWriter, w, h int, block string) {
	bw, bh := BlockSize(block)
	Overlay(cw, max(1, (w-bw)/2+1), max(1, (h-bh)/2+1), block)
}
