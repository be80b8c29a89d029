package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/llehouerou/chants/internal/errmsg"
	"github.com/llehouerou/chants/internal/metrics"
	"github.com/llehouerou/chants/internal/player"
	"github.com/llehouerou/chants/internal/playlist"
	"github.com/llehouerou/chants/internal/quality"
)

var (
	// ErrEmptyURL is reported for tracks without a source URL.
	ErrEmptyURL = fmt.Errorf("empty track url: %w", errmsg.ErrRestricted)
	// ErrClosed is returned by control methods after Close.
	ErrClosed = errors.New("playback service closed")
)

// Service is the playback session: it drives the player from the queue,
// watches progress and applies the end-of-track policy.
type Service interface {
	// Playback control
	PlayTrack(ctx context.Context, t playlist.Track) error
	Play() error // play the current track, or the first one
	PlayIndex(index int) error
	Pause() error
	Resume() error
	Toggle() error
	Stop() error
	Next() error
	Previous() error
	Seek(delta time.Duration) error
	SeekTo(position time.Duration) error

	// Queue manipulation
	SetQueue(tracks []playlist.Track)
	AddTracks(tracks ...playlist.Track)
	RemoveAt(index int) bool
	ClearQueue()
	RestoreQueue(s playlist.Snapshot)
	QueueSnapshot() playlist.Snapshot
	Undo() bool
	Redo() bool

	// Mode control
	SetRepeatMode(mode playlist.RepeatMode)
	CycleRepeatMode() playlist.RepeatMode
	SetShuffle(enabled bool)
	ToggleShuffle() bool

	// Queries
	Status() Status
	QueueTracks() []playlist.Track // active order

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}

// Status is a snapshot of the session.
type Status struct {
	State       State
	Track       *playlist.Track
	Index       int   // index of Track in the active order, -1 if none
	QueueLen    int
	Position    time.Duration
	Duration    time.Duration
	Buffering   bool
	Repeat      playlist.RepeatMode
	Shuffle     bool
	// HasNext and HasPrevious report whether Next and Previous would move.
	HasNext     bool
	HasPrevious bool
	Err         error // last playback failure, cleared by the next success
}

// Cache resolves track URLs to local files and prefetches upcoming ones.
type Cache interface {
	PlayableURL(url string) string
	Preload(urls ...string)
}

// Toaster shows transient user notifications.
type Toaster interface {
	Toast(message, detail string)
}

// Deps are the collaborators of the service. Only Player and Queue are
// required.
type Deps struct {
	Player  player.Interface
	Queue   *playlist.Queue
	Cache   Cache
	Quality quality.Resolver
	Metrics metrics.Sink
	Toaster Toaster
	Logger  *slog.Logger
}

// Options tune polling and detection.
type Options struct {
	PollInterval   time.Duration // position sampling period
	StallThreshold time.Duration // minimum progress per sample
	StallSamples   int           // stalled samples before buffering is flagged
	EndThreshold   time.Duration // remaining time at which a track counts as finished
	Prefetch       int           // upcoming tracks to download after a start; 0 disables
	HistorySize    int           // undo depth for queue replacements
}

// Default option values.
const (
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultStallThreshold = 250 * time.Millisecond
	DefaultStallSamples   = 6
	DefaultEndThreshold   = 500 * time.Millisecond
	DefaultPrefetch       = 2
	DefaultHistorySize    = 50
)

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.StallThreshold <= 0 {
		o.StallThreshold = DefaultStallThreshold
	}
	if o.StallSamples <= 0 {
		o.StallSamples = DefaultStallSamples
	}
	if o.EndThreshold <= 0 {
		o.EndThreshold = DefaultEndThreshold
	}
	if o.Prefetch < 0 {
		o.Prefetch = 0
	}
	if o.HistorySize <= 0 {
		o.HistorySize = DefaultHistorySize
	}
	return o
}

// directCache streams everything from its source.
type directCache struct{}

func (directCache) PlayableURL(url string) string { return url }
func (directCache) Preload(...string)             {}

type nopToaster struct{}

func (nopToaster) Toast(string, string) {}
