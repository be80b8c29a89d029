package playback

import (
	"time"

	"github.com/llehouerou/chants/internal/playlist"
)

// StateChange is emitted when the session state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when a different track starts loading.
//
// Emitted by every load: explicit PlayTrack/PlayIndex/Next/Previous, natural
// completion and failure recovery. A repeat-one replay emits it with
// Previous and Current holding the same track.
type TrackChange struct {
	Previous *playlist.Track
	Current  *playlist.Track
	Index    int // index in the active order, -1 if outside the queue
}

// QueueChange is emitted when the queue contents or order change.
type QueueChange struct {
	Tracks []playlist.Track // active order
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode playlist.RepeatMode
	Shuffle    bool
}

// PositionChange is emitted on every poll and on seeks.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// BufferingChange is emitted when stall detection flips the buffering flag.
type BufferingChange struct {
	Buffering bool
}

// ErrorEvent is emitted when a track fails to start.
type ErrorEvent struct {
	Operation string // e.g. "play"
	TrackID   string
	URL       string
	Message   string // user-facing text
	Err       error
}
