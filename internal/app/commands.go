package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// messageTTL is how long a status line message stays up.
const messageTTL = 4 * time.Second

// WatchServiceEvents waits for the next session event and converts it to a
// message. Every handler of a Service* message re-arms it.
func (m Model) WatchServiceEvents() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return ServiceStateChangedMsg(e)
		case e := <-sub.TrackChanged:
			return ServiceTrackChangedMsg(e)
		case e := <-sub.QueueChanged:
			return ServiceQueueChangedMsg(e)
		case e := <-sub.ModeChanged:
			return ServiceModeChangedMsg(e)
		case e := <-sub.PositionChanged:
			return ServicePositionMsg(e)
		case e := <-sub.BufferingChanged:
			return ServiceBufferingMsg(e)
		case e := <-sub.Error:
			return ServiceErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// control runs a blocking session call off the event loop. Starting a
// track opens the network stream, so none of these run inline.
func control(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return ControlErrMsg{Op: op, Err: err}
		}
		return nil
	}
}

// playIndexCmd starts the track at index of the active order.
func (m Model) playIndexCmd(index int) tea.Cmd {
	svc := m.Playback
	return control("play", func() error { return svc.PlayIndex(index) })
}

// addURLCmd appends a track built from a pasted URL and starts it when the
// session is idle.
func (m Model) addURLCmd(raw string) tea.Cmd {
	svc := m.Playback
	return control("add url", func() error {
		t := trackFromInput(raw)
		if t.URL == "" {
			return nil
		}
		active := svc.Status().State.IsActive()
		svc.AddTracks(t)
		if active {
			return nil
		}
		for i, q := range svc.QueueTracks() {
			if q.ID == t.ID {
				return svc.PlayIndex(i)
			}
		}
		return svc.PlayTrack(context.Background(), t)
	})
}

// clearCacheCmd wipes the cache directory in the background.
func (m Model) clearCacheCmd() tea.Cmd {
	cache := m.Cache
	return func() tea.Msg {
		cache.Clear()
		return CacheClearedMsg{}
	}
}

// clearMessageCmd hides the status line message after messageTTL.
func clearMessageCmd(set time.Time) tea.Cmd {
	return tea.Tick(messageTTL, func(time.Time) tea.Msg {
		return ClearMessageMsg{Set: set}
	})
}
