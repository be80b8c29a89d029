// Package app is the terminal front-end: a bubbletea model driving the
// playback session.
package app

import (
	"time"

	"github.com/llehouerou/chants/internal/playback"
)

// PlaybackMessage is implemented by messages carrying session events.
// External messages cannot implement it, so Update routes them separately.
type PlaybackMessage interface {
	playbackMessage()
}

// ServiceStateChangedMsg wraps a playback.StateChange.
type ServiceStateChangedMsg playback.StateChange

// ServiceTrackChangedMsg wraps a playback.TrackChange.
type ServiceTrackChangedMsg playback.TrackChange

// ServiceQueueChangedMsg wraps a playback.QueueChange.
type ServiceQueueChangedMsg playback.QueueChange

// ServiceModeChangedMsg wraps a playback.ModeChange.
type ServiceModeChangedMsg playback.ModeChange

// ServicePositionMsg wraps a playback.PositionChange.
type ServicePositionMsg playback.PositionChange

// ServiceBufferingMsg wraps a playback.BufferingChange.
type ServiceBufferingMsg playback.BufferingChange

// ServiceErrorMsg wraps a playback.ErrorEvent.
type ServiceErrorMsg playback.ErrorEvent

// ServiceClosedMsg is sent once the subscription is closed.
type ServiceClosedMsg struct{}

func (ServiceStateChangedMsg) playbackMessage() {}
func (ServiceTrackChangedMsg) playbackMessage() {}
func (ServiceQueueChangedMsg) playbackMessage() {}
func (ServiceModeChangedMsg) playbackMessage()  {}
func (ServicePositionMsg) playbackMessage()     {}
func (ServiceBufferingMsg) playbackMessage()    {}
func (ServiceErrorMsg) playbackMessage()        {}
func (ServiceClosedMsg) playbackMessage()       {}

// ControlErrMsg reports a failed control command (play, next, seek...).
type ControlErrMsg struct {
	Op  string
	Err error
}

// CacheClearedMsg is sent after the cache directory was wiped.
type CacheClearedMsg struct{}

// ClearMessageMsg hides the status line message set at Set.
type ClearMessageMsg struct {
	Set time.Time
}
