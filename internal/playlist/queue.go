package playlist

import (
	"math/rand/v2"
	"time"
)

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}

// ParseRepeatMode converts a name produced by String back to a mode.
// Unknown names map to RepeatOff.
func ParseRepeatMode(s string) RepeatMode {
	switch s {
	case "all":
		return RepeatAll
	case "one":
		return RepeatOne
	default:
		return RepeatOff
	}
}

// Completion is the outcome of the current track finishing on its own.
type Completion struct {
	Next   *Track // track to play next, nil when playback stops
	Replay bool   // Next is the track that just finished
}

// Queue is the playback queue state: a base order, an optional shuffled
// permutation of it, the repeat and shuffle modes and the current track.
//
// All transitions are synchronous. Queue is not safe for concurrent use;
// the owner serializes access.
type Queue struct {
	base     *Playlist
	shuffled []Track // permutation of base; nil when not shuffled
	shuffle  bool
	repeat   RepeatMode
	current  *Track
	rng      *rand.Rand
}

// NewQueue creates an empty queue with a time-seeded shuffle source.
func NewQueue() *Queue {
	seed := uint64(time.Now().UnixNano()) //nolint:gosec // shuffle seed
	return NewQueueWithSource(rand.NewPCG(seed, seed>>1|1))
}

// NewQueueWithSource creates an empty queue drawing shuffles from src.
func NewQueueWithSource(src rand.Source) *Queue {
	return &Queue{
		base: NewPlaylist(),
		rng:  rand.New(src),
	}
}

// SetQueue replaces the base queue. With shuffle enabled and more than one
// track, a fresh permutation is drawn; otherwise the shuffled order is
// dropped. The current track is left untouched.
func (q *Queue) SetQueue(tracks []Track) {
	q.base.Replace(tracks)
	q.reshuffle()
}

// Add appends tracks to the base queue. When a shuffled order exists the new
// tracks are appended to it in random order.
func (q *Queue) Add(tracks ...Track) {
	if len(tracks) == 0 {
		return
	}
	q.base.Add(tracks...)
	if !q.shuffle {
		return
	}
	if q.shuffled == nil {
		q.reshuffle()
		return
	}
	added := make([]Track, len(tracks))
	copy(added, tracks)
	q.rng.Shuffle(len(added), func(i, j int) { added[i], added[j] = added[j], added[i] })
	q.shuffled = append(q.shuffled, added...)
}

// RemoveAt removes the base-queue track at index. The current track cannot
// be removed.
func (q *Queue) RemoveAt(index int) bool {
	t := q.base.Track(index)
	if t == nil {
		return false
	}
	if q.current != nil && q.current.ID == t.ID {
		return false
	}
	q.base.Remove(index)
	if q.shuffled != nil {
		if i := indexOf(q.shuffled, t.ID); i >= 0 {
			q.shuffled = append(q.shuffled[:i], q.shuffled[i+1:]...)
		}
		if len(q.shuffled) <= 1 {
			q.reshuffle()
		}
	}
	return true
}

// Move reorders the base queue. The shuffled order is unaffected.
func (q *Queue) Move(from, to int) bool {
	return q.base.Move(from, to)
}

// Clear empties the queue and unloads the current track. Modes are kept.
func (q *Queue) Clear() {
	q.base.Clear()
	q.shuffled = nil
	q.current = nil
}

// Current returns a copy of the current track, or nil if nothing is loaded.
func (q *Queue) Current() *Track {
	if q.current == nil {
		return nil
	}
	t := *q.current
	return &t
}

// SetCurrent loads t as the current track. A nil t unloads it. The track
// does not need to be part of the queue.
func (q *Queue) SetCurrent(t *Track) {
	if t == nil {
		q.current = nil
		return
	}
	c := *t
	q.current = &c
}

// JumpTo makes the track at index in the active order current.
func (q *Queue) JumpTo(index int) *Track {
	active := q.active()
	if index < 0 || index >= len(active) {
		return nil
	}
	q.SetCurrent(&active[index])
	return q.Current()
}

// CurrentIndex returns the index of the current track in the active order,
// or -1.
func (q *Queue) CurrentIndex() int {
	if q.current == nil {
		return -1
	}
	return indexOf(q.active(), q.current.ID)
}

// Tracks returns the base queue in insertion order.
func (q *Queue) Tracks() []Track {
	return q.base.Tracks()
}

// Shuffled returns a copy of the shuffled order, or nil.
func (q *Queue) Shuffled() []Track {
	if q.shuffled == nil {
		return nil
	}
	result := make([]Track, len(q.shuffled))
	copy(result, q.shuffled)
	return result
}

// Active returns a copy of the order playback follows.
func (q *Queue) Active() []Track {
	active := q.active()
	result := make([]Track, len(active))
	copy(result, active)
	return result
}

// Len returns the number of tracks in the queue.
func (q *Queue) Len() int {
	return q.base.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.base.Len() == 0
}

// Shuffle reports whether shuffle is enabled.
func (q *Queue) Shuffle() bool {
	return q.shuffle
}

// ToggleShuffle flips shuffle and returns the new state.
//
// Turning shuffle on draws a fresh permutation when the queue has more than
// one track. If the current track is somehow absent from it, the first
// shuffled track becomes current. Turning it off makes the untouched base
// order active again and keeps the current track.
func (q *Queue) ToggleShuffle() bool {
	q.SetShuffle(!q.shuffle)
	return q.shuffle
}

// SetShuffle enables or disables shuffle.
func (q *Queue) SetShuffle(enabled bool) {
	if enabled == q.shuffle {
		return
	}
	q.shuffle = enabled
	if !enabled {
		q.shuffled = nil
		return
	}
	q.reshuffle()
	if q.current != nil && len(q.shuffled) > 0 && indexOf(q.shuffled, q.current.ID) < 0 {
		q.SetCurrent(&q.shuffled[0])
	}
}

// RepeatMode returns the repeat mode.
func (q *Queue) RepeatMode() RepeatMode {
	return q.repeat
}

// SetRepeatMode sets the repeat mode.
func (q *Queue) SetRepeatMode(mode RepeatMode) {
	q.repeat = mode
}

// CycleRepeatMode cycles off → all → one → off and returns the new mode.
func (q *Queue) CycleRepeatMode() RepeatMode {
	switch q.repeat {
	case RepeatOff:
		q.repeat = RepeatAll
	case RepeatAll:
		q.repeat = RepeatOne
	default:
		q.repeat = RepeatOff
	}
	return q.repeat
}

// PlayNext advances to the next track of the active order and returns it.
// At the last track it wraps only under RepeatAll. Repeat-one does not
// apply: explicit skips always move. Returns nil when nothing changed.
func (q *Queue) PlayNext() *Track {
	active := q.active()
	if q.current == nil || len(active) == 0 {
		return nil
	}
	i := indexOf(active, q.current.ID)
	if i < 0 {
		return nil
	}

	next := i + 1
	if next >= len(active) {
		if q.repeat != RepeatAll {
			return nil
		}
		next = 0
	}
	q.SetCurrent(&active[next])
	return q.Current()
}

// PlayPrevious is the mirror of PlayNext.
func (q *Queue) PlayPrevious() *Track {
	active := q.active()
	if q.current == nil || len(active) == 0 {
		return nil
	}
	i := indexOf(active, q.current.ID)
	if i < 0 {
		return nil
	}

	prev := i - 1
	if prev < 0 {
		if q.repeat != RepeatAll {
			return nil
		}
		prev = len(active) - 1
	}
	q.SetCurrent(&active[prev])
	return q.Current()
}

// HasNext reports whether PlayNext would change the current track.
func (q *Queue) HasNext() bool {
	i := q.CurrentIndex()
	if i < 0 {
		return false
	}
	return i < len(q.active())-1 || q.repeat == RepeatAll
}

// HasPrevious reports whether PlayPrevious would change the current track.
func (q *Queue) HasPrevious() bool {
	i := q.CurrentIndex()
	if i < 0 {
		return false
	}
	return i > 0 || q.repeat == RepeatAll
}

// OnTrackCompleted applies the end-of-track policy for every repeat mode:
// one replays the current track, all advances and wraps, off advances and
// stops after the last track. The repeat mode itself never changes.
func (q *Queue) OnTrackCompleted() Completion {
	if q.current == nil {
		return Completion{}
	}
	if q.repeat == RepeatOne {
		return Completion{Next: q.Current(), Replay: true}
	}

	finished := q.current.ID
	next := q.PlayNext()
	if next == nil {
		return Completion{}
	}
	return Completion{Next: next, Replay: next.ID == finished}
}

// Upcoming returns up to n tracks that follow the current one in the active
// order, wrapping only under RepeatAll.
func (q *Queue) Upcoming(n int) []Track {
	active := q.active()
	i := q.CurrentIndex()
	if n <= 0 || i < 0 {
		return nil
	}

	var result []Track
	for step := 1; step < len(active) && len(result) < n; step++ {
		j := i + step
		if j >= len(active) {
			if q.repeat != RepeatAll {
				break
			}
			j -= len(active)
		}
		result = append(result, active[j])
	}
	return result
}

func (q *Queue) active() []Track {
	if q.shuffle && len(q.shuffled) > 0 {
		return q.shuffled
	}
	return q.base.tracks
}

// reshuffle recomputes the shuffled order from the base queue.
func (q *Queue) reshuffle() {
	if !q.shuffle || q.base.Len() <= 1 {
		q.shuffled = nil
		return
	}
	q.shuffled = q.base.Tracks()
	q.rng.Shuffle(len(q.shuffled), func(i, j int) {
		q.shuffled[i], q.shuffled[j] = q.shuffled[j], q.shuffled[i]
	})
}

// IsPermutation reports whether a and b hold the same multiset of track IDs.
func IsPermutation(a, b []Track) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for i := range a {
		counts[a[i].ID]++
	}
	for i := range b {
		counts[b[i].ID]--
		if counts[b[i].ID] < 0 {
			return false
		}
	}
	return true
}
