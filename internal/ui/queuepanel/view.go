package queuepanel

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/chants/internal/playlist"
	"github.com/llehouerou/chants/internal/ui/render"
	"github.com/llehouerou/chants/internal/ui/styles"
)

const playingSymbol = "▶"

// View renders the queue panel.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	innerWidth := max(m.width-2, 0)
	content := m.renderHeader(innerWidth) + "\n" +
		render.Separator(innerWidth) + "\n" +
		m.renderTrackList(innerWidth, m.listHeight())

	style := styles.T().S().Panel
	if m.focused {
		style = style.BorderForeground(styles.T().BorderFocus)
	}
	return style.Width(innerWidth).Render(content)
}

// renderHeader renders "Queue (2/5)" with the mode markers on the right.
func (m Model) renderHeader(innerWidth int) string {
	left := fmt.Sprintf("Queue (%d/%d)", m.playing+1, len(m.tracks))
	if m.playing < 0 {
		left = fmt.Sprintf("Queue (0/%d)", len(m.tracks))
	}

	var markers []string
	switch m.repeat {
	case playlist.RepeatAll:
		markers = append(markers, "repeat")
	case playlist.RepeatOne:
		markers = append(markers, "repeat one")
	case playlist.RepeatOff:
	}
	if m.shuffle {
		markers = append(markers, "shuffle")
	}
	right := styles.T().S().Marker.Render(strings.Join(markers, " · "))

	leftWidth := max(innerWidth-lipgloss.Width(right), 0)
	return styles.T().S().Title.Render(render.TruncateAndPad(left, leftWidth)) + right
}

func (m Model) renderTrackList(innerWidth, listHeight int) string {
	lines := make([]string, 0, listHeight)
	for i := range listHeight {
		idx := i + m.cursor.offset
		if idx >= len(m.tracks) {
			lines = append(lines, render.EmptyLine(innerWidth))
			continue
		}
		lines = append(lines, m.renderTrackLine(m.tracks[idx], idx, innerWidth))
	}
	return strings.Join(lines, "\n")
}

// renderTrackLine lays out "▶ Title          Artist          3:00".
func (m Model) renderTrackLine(track playlist.Track, idx, width int) string {
	prefix := "  "
	if idx == m.playing {
		prefix = playingSymbol + " "
	}

	suffix := ""
	if track.Duration > 0 {
		suffix = " " + formatDuration(track.Duration)
	}

	contentWidth := max(width-2-lipgloss.Width(suffix), 0)
	titleWidth := contentWidth / 2
	artistWidth := contentWidth - titleWidth

	title := track.Title
	if title == "" {
		title = track.ID
	}
	line := prefix +
		render.TruncateAndPad(title, titleWidth) +
		render.TruncateAndPad(track.Artist, artistWidth) +
		suffix

	return m.trackStyle(idx).Render(line)
}

func (m Model) trackStyle(idx int) lipgloss.Style {
	s := styles.T().S()
	isCursor := idx == m.cursor.pos && m.focused
	isPlaying := idx == m.playing
	isPlayed := m.playing >= 0 && idx < m.playing

	switch {
	case isCursor && isPlaying:
		return s.Cursor.Inherit(s.Playing)
	case isCursor && isPlayed:
		return s.Cursor.Inherit(s.Played)
	case isCursor:
		return s.Cursor
	case isPlaying:
		return s.Playing
	case isPlayed:
		return s.Played
	default:
		return s.Base
	}
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
