// Package metrics records playback performance: start latency, cache
// effectiveness, buffering and per-track play counts.
package metrics

import (
	"log/slog"
	"time"
)

// Sink receives playback measurements. Implementations must not block.
type Sink interface {
	PlaybackStart(latency time.Duration, cached bool)
	BufferingEvent()
	TrackPlayed(id string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) PlaybackStart(time.Duration, bool) {}
func (Nop) BufferingEvent()                   {}
func (Nop) TrackPlayed(string)                {}

// LogSink writes measurements to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink logging at debug level, or to slog.Default()
// when logger is nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) PlaybackStart(latency time.Duration, cached bool) {
	s.logger.Debug("playback started", "latency_ms", latency.Milliseconds(), "cached", cached)
}

func (s *LogSink) BufferingEvent() {
	s.logger.Info("playback buffering")
}

func (s *LogSink) TrackPlayed(id string) {
	s.logger.Debug("track played", "id", id)
}

// Multi fans out to several sinks.
type Multi []Sink

func (m Multi) PlaybackStart(latency time.Duration, cached bool) {
	for _, s := range m {
		s.PlaybackStart(latency, cached)
	}
}

func (m Multi) BufferingEvent() {
	for _, s := range m {
		s.BufferingEvent()
	}
}

func (m Multi) TrackPlayed(id string) {
	for _, s := range m {
		s.TrackPlayed(id)
	}
}

var (
	_ Sink = Nop{}
	_ Sink = (*LogSink)(nil)
	_ Sink = Multi(nil)
	_ Sink = (*Stats)(nil)
)
