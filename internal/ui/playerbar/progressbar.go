package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/chants/internal/ui/styles"
)

const (
	filledLine = "━"
	emptyLine  = "─"
)

// progressBar renders a width-cell line bar whose filled part carries the
// theme gradient.
func progressBar(position, duration time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	filled := filledCells(position, duration, width)
	t := styles.T()
	return styles.GradientBar(filledLine, filled, width, t.Primary, t.Secondary) +
		progressBarEmpty().Render(strings.Repeat(emptyLine, width-filled))
}

// RenderProgressBar renders "▶  1:23  ━━━━───  4:56" in width cells. Below
// three cells of bar it falls back to the bare times.
func RenderProgressBar(position, duration time.Duration, width int, status string) string {
	posStr := formatDuration(position)
	durStr := formatDuration(duration)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		return status + "  " + posStr + " / " + durStr
	}

	return status + "  " + posStr + "  " + progressBar(position, duration, barWidth) + "  " + durStr
}

func filledCells(position, duration time.Duration, width int) int {
	if duration <= 0 || position <= 0 {
		return 0
	}
	ratio := float64(position) / float64(duration)
	return min(int(float64(width)*ratio), width)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
