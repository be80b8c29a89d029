// Package queuepanel renders the queue in its active order with a cursor.
package queuepanel

import (
	"github.com/llehouerou/chants/internal/playlist"
)

// panelOverhead is the border plus the header and separator rows.
const panelOverhead = 4

// Model is the queue panel state. It holds a copy of the active order; the
// owner refreshes it on queue events.
type Model struct {
	tracks  []playlist.Track
	playing int
	repeat  playlist.RepeatMode
	shuffle bool

	cursor  cursor
	width   int
	height  int
	focused bool
}

// New creates an empty queue panel.
func New() Model {
	return Model{playing: -1}
}

// SetFocused sets whether the panel is focused.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// IsFocused returns whether the panel is focused.
func (m Model) IsFocused() bool {
	return m.focused
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.cursor.ensureVisible(len(m.tracks), m.listHeight())
}

// Height returns the panel height set by SetSize.
func (m Model) Height() int { return m.height }

// SetTracks replaces the displayed order. playing is the index of the
// current track, -1 if none.
func (m *Model) SetTracks(tracks []playlist.Track, playing int) {
	m.tracks = tracks
	m.playing = playing
	m.cursor.jump(m.cursor.pos, len(tracks), m.listHeight())
}

// SetPlaying marks the current track.
func (m *Model) SetPlaying(index int) {
	m.playing = index
}

// SetModes sets the header markers.
func (m *Model) SetModes(repeat playlist.RepeatMode, shuffle bool) {
	m.repeat = repeat
	m.shuffle = shuffle
}

// Cursor returns the highlighted index, -1 when the queue is empty.
func (m Model) Cursor() int {
	if len(m.tracks) == 0 {
		return -1
	}
	return m.cursor.pos
}

// Len returns the number of displayed tracks.
func (m Model) Len() int {
	return len(m.tracks)
}

// Move moves the cursor by delta rows.
func (m *Model) Move(delta int) {
	m.cursor.move(delta, len(m.tracks), m.listHeight())
}

// JumpStart moves the cursor to the first track.
func (m *Model) JumpStart() {
	m.cursor.jump(0, len(m.tracks), m.listHeight())
}

// JumpEnd moves the cursor to the last track.
func (m *Model) JumpEnd() {
	m.cursor.jump(len(m.tracks)-1, len(m.tracks), m.listHeight())
}

// SyncCursor moves the cursor to the playing track.
func (m *Model) SyncCursor() {
	if m.playing >= 0 && m.playing < len(m.tracks) {
		m.cursor.jump(m.playing, len(m.tracks), m.listHeight())
	}
}

func (m Model) listHeight() int {
	return max(m.height-panelOverhead, 0)
}
