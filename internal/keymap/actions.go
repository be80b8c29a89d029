// Package keymap defines key bindings and action dispatch for the terminal
// front-end.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit       Action = "quit"
	ActionHelp       Action = "help"
	ActionToggleInfo Action = "toggle_info" // cache and latency figures
	ActionToggleView Action = "toggle_view" // compact or expanded player bar

	// Playback actions
	ActionPlayPause       Action = "play_pause"
	ActionStop            Action = "stop"
	ActionNextTrack       Action = "next_track"
	ActionPrevTrack       Action = "prev_track"
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionSeekBackLong    Action = "seek_back_long"
	ActionCycleRepeat     Action = "cycle_repeat"
	ActionToggleShuffle   Action = "toggle_shuffle"

	// Queue actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"
	ActionSelect    Action = "select" // enter - play the selected track
	ActionAddURL    Action = "add_url"
	ActionDelete    Action = "delete"
	ActionClear     Action = "clear"
	ActionUndo      Action = "undo"
	ActionRedo      Action = "redo"

	// Cache actions
	ActionClearCache  Action = "clear_cache"
	ActionGrowCache   Action = "grow_cache"
	ActionShrinkCache Action = "shrink_cache"
)
