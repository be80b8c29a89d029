package player

import "time"

// Interface is the playback primitive the session drives. Sources are local
// file paths or http(s) URLs.
type Interface interface {
	// Play stops the current source, then decodes and starts source.
	Play(source string) error
	Stop()
	Pause()
	Resume()
	State() State
	TrackInfo() *TrackInfo
	Position() time.Duration
	Duration() time.Duration
	// SeekTo jumps to an absolute position; a target past the end finishes
	// the source.
	SeekTo(pos time.Duration)
	// FinishedChan receives once each time a source plays to its end.
	FinishedChan() <-chan struct{}
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
