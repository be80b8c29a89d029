package keymap

import (
	"slices"
	"strings"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
		{ActionMoveUp, []string{"k", "up"}, "Move up", "queue"},
	})

	tests := []struct {
		key      string
		expected Action
	}{
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{" ", ActionPlayPause},
		{"k", ActionMoveUp},
		{"up", ActionMoveUp},
		{"unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if result := r.Resolve(tt.key); result != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, result, tt.expected)
			}
		})
	}
}

func TestResolver_KeysFor_Deduplicates(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionDelete, []string{"d", "delete"}, "Delete", "queue"},
		{ActionDelete, []string{"d"}, "Delete", "cache"},
	})

	keys := r.KeysFor(ActionDelete)
	if len(keys) != 2 || !slices.Contains(keys, "d") || !slices.Contains(keys, "delete") {
		t.Errorf("KeysFor(ActionDelete) = %v, want [d delete]", keys)
	}
	if keys := r.KeysFor(Action("unknown")); keys != nil {
		t.Errorf("KeysFor(unknown) = %v, want nil", keys)
	}
}

func TestDefault(t *testing.T) {
	r := Default()

	checks := map[string]Action{
		"q":     ActionQuit,
		" ":     ActionPlayPause,
		"R":     ActionCycleRepeat,
		"S":     ActionToggleShuffle,
		"enter": ActionSelect,
		"X":     ActionClearCache,
	}
	for key, want := range checks {
		if got := r.Resolve(key); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestResolver_HelpLines(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionPlayPause, []string{" ", "space"}, "Play/pause", "playback"},
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	})

	lines := r.HelpLines()
	if len(lines) != 2 {
		t.Fatalf("HelpLines() returned %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "space ") || !strings.HasSuffix(lines[0], "Play/pause") {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "q/ctrl+c") {
		t.Errorf("lines[1] = %q", lines[1])
	}
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"no duplicates", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"with duplicates", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"empty slice", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := dedupe(tt.input); !slices.Equal(result, tt.expected) {
				t.Errorf("dedupe(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
