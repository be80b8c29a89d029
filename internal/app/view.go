package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/chants/internal/ui/jobbar"
	"github.com/llehouerou/chants/internal/ui/overlay"
	"github.com/llehouerou/chants/internal/ui/playerbar"
	"github.com/llehouerou/chants/internal/ui/render"
	"github.com/llehouerou/chants/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}

	parts := []string{m.renderHeader(), m.QueuePanel.View()}
	if jobs := jobbar.Render(m.jobs, m.spinner.View(), m.Width); jobs != "" {
		parts = append(parts, jobs)
	}
	if bar := playerbar.Render(m.playerState(), m.Width); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, m.renderStatusLine())
	view := strings.Join(parts, "\n")

	switch {
	case m.confirm.Active():
		view = overlay.Center(view, m.confirm.View(), m.Width, m.Height)
	case m.ShowHelp:
		view = overlay.Center(view, m.renderHelp(), m.Width, m.Height)
	case m.ShowInfo:
		view = overlay.Center(view, m.renderInfo(), m.Width, m.Height)
	}
	return view
}

func (m Model) renderHeader() string {
	t := styles.T()
	title := styles.ApplyBoldGradient("chants", t.Primary, t.Secondary)
	right := t.S().Muted.Render(m.status.State.String())
	return render.Row(" "+title, right+" ", m.Width)
}

// renderStatusLine shows the URL prompt, the last message or the key hint.
func (m Model) renderStatusLine() string {
	s := styles.T().S()
	switch {
	case m.InputActive:
		return " " + m.input.View()
	case m.Message != "":
		return " " + s.Error.Render(render.TruncateEllipsis(m.Message, max(m.Width-2, 0)))
	}
	return " " + s.Subtle.Render("? help  space play/pause  n/p next/prev  a add url  q quit")
}

func (m Model) renderHelp() string {
	s := styles.T().S()
	lines := append([]string{s.Title.Render("Keys"), ""}, m.Keys.HelpLines()...)
	return s.Popup.Render(strings.Join(lines, "\n"))
}

// renderInfo shows cache usage and the playback aggregates.
func (m Model) renderInfo() string {
	s := styles.T().S()
	lines := []string{s.Title.Render("Info"), ""}

	if m.Cache != nil {
		cs := m.Cache.Stats()
		lines = append(lines,
			fmt.Sprintf("Cache      %s / %s",
				humanize.IBytes(uint64(max(m.cacheBytes, 0))),
				humanize.IBytes(uint64(max(m.Cache.MaxSizeMB(), 0))<<20)),
			fmt.Sprintf("Lookups    %s hits, %s misses",
				humanize.Comma(cs.Hits), humanize.Comma(cs.Misses)),
		)
	}

	if m.Stats != nil {
		lat := m.Stats.AverageLatency()
		lines = append(lines,
			fmt.Sprintf("Start      %s avg (cached %s, streamed %s)",
				lat.All.Round(time.Millisecond), lat.Cached.Round(time.Millisecond), lat.Uncached.Round(time.Millisecond)),
			fmt.Sprintf("Buffering  %d events", m.Stats.BufferingEvents()),
		)
		if top := m.Stats.MostPlayed(3); len(top) > 0 {
			lines = append(lines, "", s.Muted.Render("Most played"))
			for _, pc := range top {
				lines = append(lines, fmt.Sprintf("  %-24s %s", render.Truncate(pc.ID, 24), humanize.Comma(int64(pc.Count))))
			}
		}
	}

	return s.Popup.Render(strings.Join(lines, "\n"))
}
