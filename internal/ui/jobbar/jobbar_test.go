package jobbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestHeight(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0},
		{1, 3},
		{3, 5},
		{10, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Height(tt.n), "Height(%d)", tt.n)
	}
}

func TestRender_Empty(t *testing.T) {
	assert.Empty(t, Render(nil, "⣾", 80))
}

func TestRender_ListsJobs(t *testing.T) {
	jobs := []Job{
		{ID: "1", Label: "Kyrie", Elapsed: 1234 * time.Millisecond},
		{ID: "2", Label: "Gloria", Elapsed: 300 * time.Millisecond},
	}

	out := ansi.Strip(Render(jobs, "⣾", 60))
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, Height(len(jobs)))
	assert.Contains(t, lines[1], "⣾ Kyrie")
	assert.Contains(t, lines[1], "1.2s")
	assert.Contains(t, lines[2], "Gloria")
	for _, l := range lines {
		assert.Equal(t, 60, ansi.StringWidth(l))
	}
}

func TestRender_SummarizesOverflow(t *testing.T) {
	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = Job{Label: "track"}
	}

	out := ansi.Strip(Render(jobs, "⣾", 60))
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, Height(len(jobs)))
	assert.Contains(t, lines[MaxLines], "+ 3 more")
}

func TestRender_LongLabelTruncated(t *testing.T) {
	jobs := []Job{{Label: strings.Repeat("Sanctus ", 20), Elapsed: time.Second}}

	out := ansi.Strip(Render(jobs, "⣾", 40))
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines[1], "1s")
	assert.Equal(t, 40, ansi.StringWidth(lines[1]))
}
