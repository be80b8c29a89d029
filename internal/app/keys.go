package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/chants/internal/errmsg"
	"github.com/llehouerou/chants/internal/keymap"
	"github.com/llehouerou/chants/internal/ui/playerbar"
)

// Seek steps.
const (
	seekShort = 5 * time.Second
	seekLong  = 30 * time.Second
)

const confirmClearCache = "clear-cache"

// keyHandler reports whether it handled the action.
type keyHandler func(a keymap.Action) (bool, tea.Cmd)

// handleKey routes a key press: the URL prompt, the confirmation and the
// help overlay take all keys while open, otherwise the action goes through
// the handler chain.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.InputActive {
		return m.handleInputKey(msg)
	}
	if m.confirm.Active() {
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	}

	action := m.Keys.Resolve(msg.String())
	if m.ShowHelp {
		if action == keymap.ActionHelp || action == keymap.ActionQuit || msg.String() == "esc" {
			m.ShowHelp = false
		}
		return m, nil
	}
	if action == "" {
		return m, nil
	}

	for _, h := range []keyHandler{m.handleGlobalKeys, m.handlePlaybackKeys, m.handleQueueKeys, m.handleCacheKeys} {
		if ok, cmd := h(action); ok {
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) handleGlobalKeys(a keymap.Action) (bool, tea.Cmd) {
	switch a {
	case keymap.ActionQuit:
		return true, tea.Quit
	case keymap.ActionHelp:
		m.ShowHelp = true
	case keymap.ActionToggleInfo:
		m.ShowInfo = !m.ShowInfo
	case keymap.ActionToggleView:
		if m.PlayerDisplayMode == playerbar.ModeCompact {
			m.PlayerDisplayMode = playerbar.ModeExpanded
		} else {
			m.PlayerDisplayMode = playerbar.ModeCompact
		}
		m.ResizeComponents()
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) handlePlaybackKeys(a keymap.Action) (bool, tea.Cmd) {
	svc := m.Playback
	switch a {
	case keymap.ActionPlayPause:
		return true, control(string(errmsg.OpPlaybackStart), svc.Toggle)
	case keymap.ActionStop:
		return true, control("stop", svc.Stop)
	case keymap.ActionNextTrack:
		return true, control("skip", svc.Next)
	case keymap.ActionPrevTrack:
		return true, control("skip", svc.Previous)
	case keymap.ActionSeekForward:
		return true, m.seekCmd(seekShort)
	case keymap.ActionSeekBack:
		return true, m.seekCmd(-seekShort)
	case keymap.ActionSeekForwardLong:
		return true, m.seekCmd(seekLong)
	case keymap.ActionSeekBackLong:
		return true, m.seekCmd(-seekLong)
	case keymap.ActionCycleRepeat:
		svc.CycleRepeatMode()
	case keymap.ActionToggleShuffle:
		svc.ToggleShuffle()
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) seekCmd(delta time.Duration) tea.Cmd {
	svc := m.Playback
	return control(string(errmsg.OpPlaybackSeek), func() error { return svc.Seek(delta) })
}

func (m *Model) handleQueueKeys(a keymap.Action) (bool, tea.Cmd) {
	switch a {
	case keymap.ActionMoveUp:
		m.QueuePanel.Move(-1)
	case keymap.ActionMoveDown:
		m.QueuePanel.Move(1)
	case keymap.ActionJumpStart:
		m.QueuePanel.JumpStart()
	case keymap.ActionJumpEnd:
		m.QueuePanel.JumpEnd()
	case keymap.ActionSelect:
		if idx := m.QueuePanel.Cursor(); idx >= 0 {
			return true, m.playIndexCmd(idx)
		}
	case keymap.ActionDelete:
		return true, m.removeAtCursor()
	case keymap.ActionClear:
		m.Playback.ClearQueue()
	case keymap.ActionUndo:
		if !m.Playback.Undo() {
			return true, m.setMessage("Nothing to undo")
		}
	case keymap.ActionRedo:
		if !m.Playback.Redo() {
			return true, m.setMessage("Nothing to redo")
		}
	case keymap.ActionAddURL:
		m.InputActive = true
		m.input.Reset()
		return true, m.input.Focus()
	default:
		return false, nil
	}
	return true, nil
}

// removeAtCursor removes the highlighted track. The panel shows the active
// order while removal addresses the base order, so the track is looked up
// by ID.
func (m *Model) removeAtCursor() tea.Cmd {
	idx := m.QueuePanel.Cursor()
	active := m.Playback.QueueTracks()
	if idx < 0 || idx >= len(active) {
		return nil
	}
	id := active[idx].ID
	for i, t := range m.Playback.QueueSnapshot().Tracks {
		if t.ID != id {
			continue
		}
		if !m.Playback.RemoveAt(i) {
			return m.setMessage("The playing track cannot be removed")
		}
		return nil
	}
	return nil
}

func (m *Model) handleCacheKeys(a keymap.Action) (bool, tea.Cmd) {
	if m.Cache == nil {
		return false, nil
	}
	switch a {
	case keymap.ActionClearCache:
		m.confirm.Show("Clear cache?", "All cached audio will be deleted.", confirmClearCache)
		return true, nil
	case keymap.ActionGrowCache:
		return true, m.resizeCache(m.Cache.MaxSizeMB() + cacheStepMB)
	case keymap.ActionShrinkCache:
		return true, m.resizeCache(max(m.Cache.MaxSizeMB()-cacheStepMB, cacheMinMB))
	default:
		return false, nil
	}
}

// resizeCache applies and persists a new cache ceiling.
func (m *Model) resizeCache(mb int) tea.Cmd {
	m.Cache.SetMaxSizeMB(mb)
	if m.StateMgr != nil {
		if err := m.StateMgr.SaveCacheLimit(mb); err != nil {
			m.Logger.Warn("save cache limit", "err", err)
			return m.setMessage(errmsg.Format(errmsg.OpCacheResize, err))
		}
	}
	return nil
}

// handleInputKey feeds the URL prompt.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.InputActive = false
		m.input.Blur()
		return m, nil
	case "enter":
		raw := m.input.Value()
		m.InputActive = false
		m.input.Blur()
		return m, m.addURLCmd(raw)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
