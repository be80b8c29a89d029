package playerbar

import (
	"strings"

	"github.com/llehouerou/chants/internal/ui/render"
)

const contentRows = 4 // Must match Height(ModeExpanded) - 2 for borders

// RenderExpanded renders the four-row view:
//
//	Title                                  3/12
//	Artist                                 ⟳ ⤮
//	buffering                 cached · cache 12 MiB / 500 MiB
//	▶  1:23  ━━━━━━━━━━────────────────  4:56
func RenderExpanded(s State, width int) string {
	innerWidth := max(width-6, 0)
	if innerWidth < 30 {
		s.DisplayMode = ModeCompact
		return renderCompact(s, width)
	}

	artist := render.Sanitize(s.Artist)
	if artist == "" {
		artist = "Unknown Artist"
	}

	lines := []string{
		render.Row(titleStyle().Render(render.TruncateEllipsis(s.title(), innerWidth/2)), metaStyle().Render(s.position()), innerWidth),
		render.Row(artistStyle().Render(render.TruncateEllipsis(artist, innerWidth/2)), s.modes(), innerWidth),
		render.Row(s.note(), metaStyle().Render(s.cacheSummary()), innerWidth),
		RenderProgressBar(s.Position, s.Duration, innerWidth, s.statusSymbol()),
	}

	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(strings.Join(lines[:contentRows], "\n"))
}
