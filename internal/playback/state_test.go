package playback

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StateLoading, "Loading"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{StateBuffering, "Buffering"},
		{StateError, "Error"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_Predicates(t *testing.T) {
	tests := []struct {
		state           State
		active, playing bool
	}{
		{StateIdle, false, false},
		{StateLoading, false, false},
		{StatePlaying, true, true},
		{StatePaused, true, false},
		{StateBuffering, true, true},
		{StateError, false, false},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.active {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.active)
		}
		if got := tt.state.IsPlaying(); got != tt.playing {
			t.Errorf("%v.IsPlaying() = %v, want %v", tt.state, got, tt.playing)
		}
	}
}
