// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/llehouerou/chants/internal/player"
	"github.com/llehouerou/chants/internal/storage"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Queue operations
	OpQueueLoad Op = "load queue"
	OpQueueSave Op = "save queue"
	OpQueueAdd  Op = "add to queue"

	// Catalog
	OpCatalogLoad Op = "load catalog"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"

	// Cache operations
	OpCacheClear  Op = "clear audio cache"
	OpCacheResize Op = "resize audio cache"

	// Initialization
	OpInitialize Op = "initialize application"
)

// ErrRestricted marks a track the user is not allowed to play.
var ErrRestricted = errors.New("sound restricted")

// User-facing playback failure messages.
const (
	MsgRestricted  = "Sound restricted"
	MsgUnsupported = "Unsupported audio"
	MsgUnplayable  = "Unable to play audio"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Classify returns the short notification text for a playback failure.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrRestricted) {
		return MsgRestricted
	}
	var se *storage.StatusError
	if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
		return MsgRestricted
	}
	if errors.Is(err, player.ErrUnsupportedFormat) {
		return MsgUnsupported
	}
	return MsgUnplayable
}
