package metrics

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// maxSamples bounds the latency history.
const maxSamples = 100

type sample struct {
	latency time.Duration
	cached  bool
}

// Latency holds mean start latencies.
type Latency struct {
	All      time.Duration
	Cached   time.Duration
	Uncached time.Duration
}

// PlayCount is a track and how often it was played.
type PlayCount struct {
	ID    string
	Count int
}

// Stats keeps in-memory aggregates. Safe for concurrent use.
type Stats struct {
	mu        sync.Mutex
	samples   []sample
	buffering int
	plays     map[string]int
}

func NewStats() *Stats {
	return &Stats{plays: make(map[string]int)}
}

func (s *Stats) PlaybackStart(latency time.Duration, cached bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample{latency: latency, cached: cached})
	if len(s.samples) > maxSamples {
		s.samples = s.samples[len(s.samples)-maxSamples:]
	}
}

func (s *Stats) BufferingEvent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffering++
}

func (s *Stats) TrackPlayed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays[id]++
}

// BufferingEvents returns the number of buffering events.
func (s *Stats) BufferingEvents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffering
}

// AverageLatency returns mean start latencies over the recent history.
// Groups without samples are zero.
func (s *Stats) AverageLatency() Latency {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all, cached, uncached time.Duration
	var nCached int
	for _, m := range s.samples {
		all += m.latency
		if m.cached {
			cached += m.latency
			nCached++
		} else {
			uncached += m.latency
		}
	}

	var l Latency
	if n := len(s.samples); n > 0 {
		l.All = all / time.Duration(n)
	}
	if nCached > 0 {
		l.Cached = cached / time.Duration(nCached)
	}
	if nUncached := len(s.samples) - nCached; nUncached > 0 {
		l.Uncached = uncached / time.Duration(nUncached)
	}
	return l
}

// MostPlayed returns up to limit tracks by descending play count, ties by
// ID.
func (s *Stats) MostPlayed(limit int) []PlayCount {
	s.mu.Lock()
	result := make([]PlayCount, 0, len(s.plays))
	for id, n := range s.plays {
		result = append(result, PlayCount{ID: id, Count: n})
	}
	s.mu.Unlock()

	slices.SortFunc(result, func(a, b PlayCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// Reset clears all aggregates.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = nil
	s.buffering = 0
	s.plays = make(map[string]int)
}
