// Package overlay draws a box over an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Center places box in the middle of base. base is padded to width x height
// first; the cells of base outside the box keep their styling.
func Center(base, box string, width, height int) string {
	boxWidth := lipgloss.Width(box)
	boxHeight := lipgloss.Height(box)
	return Place(base, box, max((width-boxWidth)/2, 0), max((height-boxHeight)/2, 0), width, height)
}

// Place draws box with its top-left corner at column x, row y of base.
func Place(base, box string, x, y, width, height int) string {
	baseLines := strings.Split(base, "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}

	for i, boxLine := range strings.Split(box, "\n") {
		row := y + i
		if row >= len(baseLines) {
			break
		}
		end := x + ansi.StringWidth(boxLine)

		line := baseLines[row]
		if w := ansi.StringWidth(line); w < width {
			line += strings.Repeat(" ", width-w)
		}

		out := ansi.Cut(line, 0, x) + boxLine
		if end < width {
			out += ansi.Cut(line, end, width)
		}
		baseLines[row] = out
	}

	return strings.Join(baseLines, "\n")
}
