package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "queue", "cache"
}

// All contains all key bindings.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit application", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionToggleInfo, []string{"i"}, "Cache and latency info", "global"},
	{ActionToggleView, []string{"v"}, "Expand player bar", "global"},

	// Playback
	{ActionPlayPause, []string{" ", "space"}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek +5s", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek -5s", "playback"},
	{ActionSeekForwardLong, []string{"shift+right", "L"}, "Seek +30s", "playback"},
	{ActionSeekBackLong, []string{"shift+left", "H"}, "Seek -30s", "playback"},
	{ActionCycleRepeat, []string{"R"}, "Cycle repeat mode", "playback"},
	{ActionToggleShuffle, []string{"S"}, "Toggle shuffle", "playback"},

	// Queue
	{ActionMoveUp, []string{"k", "up"}, "Move up", "queue"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "queue"},
	{ActionJumpStart, []string{"g", "home"}, "First item", "queue"},
	{ActionJumpEnd, []string{"G", "end"}, "Last item", "queue"},
	{ActionSelect, []string{"enter"}, "Play track", "queue"},
	{ActionAddURL, []string{"a"}, "Add track by URL", "queue"},
	{ActionDelete, []string{"d", "delete"}, "Remove track", "queue"},
	{ActionClear, []string{"c"}, "Clear queue", "queue"},
	{ActionUndo, []string{"u", "ctrl+z"}, "Undo queue change", "queue"},
	{ActionRedo, []string{"ctrl+r"}, "Redo queue change", "queue"},

	// Cache
	{ActionClearCache, []string{"X"}, "Clear audio cache", "cache"},
	{ActionGrowCache, []string{"+"}, "Raise cache limit", "cache"},
	{ActionShrinkCache, []string{"-"}, "Lower cache limit", "cache"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
