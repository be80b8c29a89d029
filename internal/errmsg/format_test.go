//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/llehouerou/chants/internal/player"
	"github.com/llehouerou/chants/internal/storage"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpQueueLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpQueueSave,
			err:      errors.New("database is locked"),
			expected: "Failed to save queue: database is locked",
		},
		{
			name:     "cache operation",
			op:       OpCacheClear,
			err:      errors.New("permission denied"),
			expected: "Failed to clear audio cache: permission denied",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpCatalogLoad,
			context:  "chants.toml",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpCatalogLoad,
			context:  "chants.toml",
			err:      errors.New("no such file"),
			expected: "Failed to load catalog 'chants.toml': no such file",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpCatalogLoad,
			context:  "",
			err:      errors.New("no such file"),
			expected: "Failed to load catalog: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"restricted sentinel", fmt.Errorf("empty url: %w", ErrRestricted), MsgRestricted},
		{"forbidden", fmt.Errorf("stream: %w", &storage.StatusError{Code: 403}), MsgRestricted},
		{"unauthorized", &storage.StatusError{Code: 401}, MsgRestricted},
		{"not found", &storage.StatusError{Code: 404}, MsgUnplayable},
		{"unsupported", fmt.Errorf("%w: \".ogg\"", player.ErrUnsupportedFormat), MsgUnsupported},
		{"other", errors.New("device busy"), MsgUnplayable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
