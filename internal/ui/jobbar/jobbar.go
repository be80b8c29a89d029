// Package jobbar lists the cache downloads running in the background.
package jobbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/chants/internal/ui/render"
	"github.com/llehouerou/chants/internal/ui/styles"
)

// MaxLines caps the listed jobs. Past it the last line summarizes the rest.
const MaxLines = 3

const borderHeight = 2

// Job is one running download.
type Job struct {
	ID      string
	Label   string
	Elapsed time.Duration
}

// Height returns the rendered height for n jobs, 0 when there are none.
func Height(n int) int {
	if n <= 0 {
		return 0
	}
	return min(n, MaxLines) + borderHeight
}

func labelStyle() lipgloss.Style { return styles.T().S().Base }

func elapsedStyle() lipgloss.Style { return styles.T().S().Muted }

func indicatorStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(styles.T().Primary) }

// Render draws jobs in a bordered panel. It returns "" when jobs is empty.
func Render(jobs []Job, indicator string, width int) string {
	if len(jobs) == 0 || width < 4 {
		return ""
	}
	innerWidth := width - 2

	shown := jobs
	var more int
	if len(jobs) > MaxLines {
		shown = jobs[:MaxLines-1]
		more = len(jobs) - len(shown)
	}

	lines := make([]string, 0, MaxLines)
	for _, j := range shown {
		lines = append(lines, renderJob(j, indicator, innerWidth))
	}
	if more > 0 {
		lines = append(lines, elapsedStyle().Render(render.Pad(fmt.Sprintf("  + %d more", more), innerWidth)))
	}

	return styles.T().S().Panel.Width(innerWidth).Render(strings.Join(lines, "\n"))
}

// renderJob draws "⠋ Label            3.2s".
func renderJob(j Job, indicator string, width int) string {
	elapsed := j.Elapsed.Round(100 * time.Millisecond).String()
	labelWidth := max(width-lipgloss.Width(indicator)-1-2-len(elapsed), 0)

	var b strings.Builder
	b.WriteString(indicatorStyle().Render(indicator))
	b.WriteString(" ")
	b.WriteString(labelStyle().Render(render.TruncateAndPad(j.Label, labelWidth)))
	b.WriteString("  ")
	b.WriteString(elapsedStyle().Render(elapsed))
	return b.String()
}
