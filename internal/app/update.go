package app

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/chants/internal/errmsg"
	"github.com/llehouerou/chants/internal/ui/confirm"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if pm, ok := msg.(PlaybackMessage); ok {
		return m.handlePlaybackMsg(pm)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.input.Width = max(msg.Width-10, 10)
		m.ResizeComponents()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.refreshJobs(time.Now()) {
			m.ResizeComponents()
		}
		return m, cmd

	case confirm.ResultMsg:
		if msg.Tag == confirmClearCache && msg.Confirmed {
			return m, m.clearCacheCmd()
		}
		return m, nil

	case ControlErrMsg:
		m.Logger.Warn("control failed", "op", msg.Op, "err", msg.Err)
		return m, m.setMessage(errmsg.Format(errmsg.Op(msg.Op), msg.Err))

	case CacheClearedMsg:
		m.refresh()
		return m, m.setMessage("Audio cache cleared")

	case ClearMessageMsg:
		if msg.Set.Equal(m.messageSet) {
			m.Message = ""
		}
		return m, nil
	}

	return m, nil
}

// handlePlaybackMsg routes session events.
func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	if _, ok := msg.(ServiceClosedMsg); ok {
		return m, nil
	}

	wasVisible := m.playerState().Visible()
	m.status = m.Playback.Status()
	cmds := []tea.Cmd{m.WatchServiceEvents()}

	switch msg := msg.(type) {
	case ServiceTrackChangedMsg:
		m.QueuePanel.SetPlaying(msg.Index)
		m.QueuePanel.SyncCursor()
		m.saveQueueState()
	case ServiceQueueChangedMsg:
		m.QueuePanel.SetTracks(msg.Tracks, msg.Index)
		m.indexTitles(msg.Tracks)
		m.saveQueueState()
	case ServiceModeChangedMsg:
		m.QueuePanel.SetModes(msg.RepeatMode, msg.Shuffle)
		m.saveQueueState()
	case ServiceStateChangedMsg:
		if m.Cache != nil {
			m.cacheBytes = m.Cache.SizeBytes()
		}
	case ServiceErrorMsg:
		cmds = append(cmds, m.setMessage(msg.Message))
	}

	if m.playerState().Visible() != wasVisible {
		m.ResizeComponents()
	}
	return m, tea.Batch(cmds...)
}

// saveQueueState persists the queue; the state manager debounces writes.
func (m *Model) saveQueueState() {
	if m.StateMgr == nil {
		return
	}
	m.StateMgr.SaveQueue(m.Playback.QueueSnapshot())
}
