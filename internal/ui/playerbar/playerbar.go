// Package playerbar renders the now-playing bar from a session status.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/chants/internal/errmsg"
	"github.com/llehouerou/chants/internal/playback"
	"github.com/llehouerou/chants/internal/playlist"
	"github.com/llehouerou/chants/internal/ui/render"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // Single-line view
	ModeExpanded                    // Title, artist, details and progress rows
)

// CacheInfo is the cache usage shown next to the track.
type CacheInfo struct {
	SizeBytes int64
	MaxMB     int
	Cached    bool // current track plays from the local cache
}

// State holds everything needed to render the player bar.
type State struct {
	Playback    playback.State
	Title       string
	Artist      string
	Index       int // position in the active order, -1 if outside the queue
	QueueLen    int
	Position    time.Duration
	Duration    time.Duration
	Buffering   bool
	Repeat      playlist.RepeatMode
	Shuffle     bool
	Err         error
	Cache       CacheInfo
	DisplayMode DisplayMode
	Spinner     string // current spinner frame, shown while loading or buffering
}

// Height returns the total height of the player bar for the given mode.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 6 // 4 content rows + 2 border rows
	}
	return 3
}

// NewState builds a State from a session status. An idle session without a
// track yields the zero State.
func NewState(st playback.Status, cache CacheInfo, mode DisplayMode) State {
	if st.Track == nil {
		return State{}
	}
	return State{
		Playback:    st.State,
		Title:       st.Track.Title,
		Artist:      st.Track.Artist,
		Index:       st.Index,
		QueueLen:    st.QueueLen,
		Position:    st.Position,
		Duration:    st.Duration,
		Buffering:   st.Buffering,
		Repeat:      st.Repeat,
		Shuffle:     st.Shuffle,
		Err:         st.Err,
		Cache:       cache,
		DisplayMode: mode,
	}
}

// Visible reports whether Render produces any output.
func (s State) Visible() bool {
	return s.Playback != playback.StateIdle
}

// Render returns the player bar string for the given width, or "" when
// nothing is loaded.
func Render(s State, width int) string {
	if !s.Visible() {
		return ""
	}
	if s.DisplayMode == ModeExpanded {
		return RenderExpanded(s, width)
	}
	return renderCompact(s, width)
}

// statusSymbol is the glyph in front of the progress bar.
func (s State) statusSymbol() string {
	switch s.Playback {
	case playback.StatePaused:
		return pauseSymbol
	case playback.StateLoading, playback.StateBuffering:
		if s.Spinner != "" {
			return bufferingStyle().Render(s.Spinner)
		}
		return bufferingStyle().Render("…")
	case playback.StateError:
		return errorStyle().Render(errorSymbol)
	case playback.StateIdle, playback.StatePlaying:
	}
	return playSymbol
}

func (s State) title() string {
	if s.Title == "" {
		return "Unknown Track"
	}
	return render.Sanitize(s.Title)
}

// position is "3/12", or "" outside the queue.
func (s State) position() string {
	if s.Index < 0 || s.QueueLen == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.Index+1, s.QueueLen)
}

// modes renders the repeat and shuffle markers.
func (s State) modes() string {
	var parts []string
	switch s.Repeat {
	case playlist.RepeatAll:
		parts = append(parts, repeatAllSymbol)
	case playlist.RepeatOne:
		parts = append(parts, repeatOneSymbol)
	case playlist.RepeatOff:
	}
	if s.Shuffle {
		parts = append(parts, shuffleSymbol)
	}
	if len(parts) == 0 {
		return ""
	}
	return markerStyle().Render(strings.Join(parts, " "))
}

// note is the transient line: the failure, the loading hint or buffering.
func (s State) note() string {
	switch {
	case s.Playback == playback.StateError:
		return errorStyle().Render(errmsg.Classify(s.Err))
	case s.Playback == playback.StateLoading:
		return bufferingStyle().Render("loading")
	case s.Buffering || s.Playback == playback.StateBuffering:
		return bufferingStyle().Render("buffering")
	}
	return ""
}

// cacheSummary is "cached · cache 12 MiB / 500 MiB".
func (s State) cacheSummary() string {
	size := humanize.IBytes(uint64(max(s.Cache.SizeBytes, 0)))
	limit := humanize.IBytes(uint64(max(s.Cache.MaxMB, 0)) << 20)
	summary := fmt.Sprintf("cache %s / %s", size, limit)
	if s.Cache.Cached {
		summary = "cached · " + summary
	}
	return summary
}

func renderCompact(s State, width int) string {
	innerWidth := max(width-6, 0)

	title := s.title()
	artist := render.Sanitize(s.Artist)
	trackNum := s.position()
	modes := s.modes()
	note := s.note()

	timeStr := fmt.Sprintf("%s / %s", formatDuration(s.Position), formatDuration(s.Duration))

	separator := "   "
	sepWidth := lipgloss.Width(separator)
	status := s.statusSymbol()
	statusWidth := lipgloss.Width(status + "  ")
	timeWidth := lipgloss.Width(timeStr)

	// trailing pieces: position, modes and note
	var tail []string
	for _, p := range []string{trackNum, modes, note} {
		if p != "" {
			tail = append(tail, p)
		}
	}
	tailSpace := 0
	for _, p := range tail {
		tailSpace += lipgloss.Width(p) + sepWidth
	}

	const minBarWidth = 10
	available := innerWidth - statusWidth - timeWidth - sepWidth*2 - minBarWidth - tailSpace

	titleWidth := lipgloss.Width(title)
	artistWidth := lipgloss.Width(artist)

	var styledTitle, styledArtist string
	var used int
	switch {
	case artist != "" && titleWidth+sepWidth+artistWidth <= available:
		styledTitle = titleStyle().Render(title)
		styledArtist = artistStyle().Render(artist)
		used = titleWidth + sepWidth + artistWidth
	case artist != "" && titleWidth+sepWidth < available:
		truncated := render.TruncateEllipsis(artist, available-titleWidth-sepWidth)
		styledTitle = titleStyle().Render(title)
		styledArtist = artistStyle().Render(truncated)
		used = titleWidth + sepWidth + lipgloss.Width(truncated)
	default:
		maxTitle := max(available, 10)
		truncated := render.TruncateEllipsis(title, maxTitle)
		styledTitle = titleStyle().Render(truncated)
		used = lipgloss.Width(truncated)
	}

	barWidth := max(innerWidth-used-tailSpace-statusWidth-timeWidth-sepWidth*2, 5)

	// Title   Artist   3/12   ⟳ ⤮   ▶  ━━━───   1:23 / 3:58
	var content strings.Builder
	content.WriteString(styledTitle)
	if styledArtist != "" {
		content.WriteString(separator)
		content.WriteString(styledArtist)
	}
	for _, p := range tail {
		content.WriteString(separator)
		if p == trackNum {
			p = metaStyle().Render(p)
		}
		content.WriteString(p)
	}
	content.WriteString(separator)
	content.WriteString(status)
	content.WriteString("  ")
	content.WriteString(progressBar(s.Position, s.Duration, barWidth))
	content.WriteString(separator)
	content.WriteString(progressTimeStyle().Render(timeStr))

	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}
