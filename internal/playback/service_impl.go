package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/llehouerou/chants/internal/errmsg"
	"github.com/llehouerou/chants/internal/metrics"
	"github.com/llehouerou/chants/internal/player"
	"github.com/llehouerou/chants/internal/playlist"
	"github.com/llehouerou/chants/internal/quality"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	// ctrl serializes everything that drives the player. It is always taken
	// before mu, and loads run with ctrl held but mu released so status
	// reads never wait on the network.
	ctrl sync.Mutex
	mu   sync.RWMutex

	player  player.Interface
	queue   *playlist.Queue
	history *playlist.QueueHistory
	cache   Cache
	quality quality.Resolver
	metrics metrics.Sink
	toaster Toaster
	logger  *slog.Logger
	opts    Options

	state     State
	lastTrack *playlist.Track
	position  time.Duration
	duration  time.Duration
	buffering bool
	lastErr   error
	gen       uint64 // bumped on every load and stop; stale monitors compare it
	failures  int    // consecutive start failures
	stalls    int
	lastPos   time.Duration
	pollStop  chan struct{}

	subs       []*Subscription
	subsClosed bool
	subsMu     sync.RWMutex

	wg     sync.WaitGroup
	done   chan struct{}
	closed bool
}

// New creates a playback service.
func New(d Deps, opts Options) Service {
	s := &serviceImpl{
		player:  d.Player,
		queue:   d.Queue,
		cache:   d.Cache,
		quality: d.Quality,
		metrics: d.Metrics,
		toaster: d.Toaster,
		logger:  d.Logger,
		opts:    opts.withDefaults(),
		done:    make(chan struct{}),
	}
	if s.queue == nil {
		s.queue = playlist.NewQueue()
	}
	if s.cache == nil {
		s.cache = directCache{}
	}
	if s.quality == nil {
		s.quality = quality.Passthrough{}
	}
	if s.metrics == nil {
		s.metrics = metrics.Nop{}
	}
	if s.toaster == nil {
		s.toaster = nopToaster{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.history = playlist.NewQueueHistory(s.opts.HistorySize)
	s.history.Push(s.queue.Snapshot())
	return s
}

// PlayTrack makes t current and starts it. t does not have to be part of
// the queue.
func (s *serviceImpl) PlayTrack(ctx context.Context, t playlist.Track) error {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()
	if s.isClosed() {
		return ErrClosed
	}

	s.mu.Lock()
	s.queue.SetCurrent(&t)
	s.failures = 0
	s.mu.Unlock()

	return s.load(ctx, t)
}

// Play starts the current track, or the first of the active order.
func (s *serviceImpl) Play() error {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()
	if s.isClosed() {
		return ErrClosed
	}
	return s.playCurrent()
}

func (s *serviceImpl) PlayIndex(index int) error {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()
	if s.isClosed() {
		return ErrClosed
	}

	s.mu.Lock()
	t := s.queue.JumpTo(index)
	s.failures = 0
	s.mu.Unlock()
	if t == nil {
		return fmt.Errorf("play index %d: out of range", index)
	}
	return s.load(context.Background(), *t)
}

func (s *serviceImpl) Pause() error {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()
	if s.isClosed() {
		return ErrClosed
	}
	s.pause()
	return nil
}

// Resume continues a paused track. From Idle or Error it restarts the
// current track.
func (s *serviceImpl) Resume() error {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()
	if s.isClosed() {
		return ErrClosed
	}
	return s.resume()
}

func (s *serviceImpl) Toggle() error {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()
	if s.isClosed() {
		return ErrClosed
	}

	s.mu.RLock()
	playing := s.state.IsPlaying()
	s.mu.RUnlock()
	if playing {
		s.pause()
		return nil
	}
	return s.resume()
}

// Stop halts the player and polling. The current track is kept.
func (s *serviceImpl) Stop() error {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()
	if s.isClosed() {
		return ErrClosed
	}

	s.player.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPollLocked()
	s.gen++
	s.position = 0
	s.stalls = 0
	s.setBufferingLocked(false)
	s.setStateLocked(StateIdle)
	return nil
}

// Next skips forward. Repeat-one does not apply to manual skips.
func (s *serviceImpl) Next() error {
	return s.skip((*playlist.Queue).PlayNext)
}

// Previous skips backward.
func (s *serviceImpl) Previous() error {
	return s.skip((*playlist.Queue).PlayPrevious)
}

func (s *serviceImpl) skip(move func(*playlist.Queue) *playlist.Track) error {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()
	if s.isClosed() {
		return ErrClosed
	}

	s.mu.Lock()
	t := move(s.queue)
	s.failures = 0
	s.mu.Unlock()
	if t == nil {
		return nil
	}
	return s.load(context.Background(), *t)
}

func (s *serviceImpl) Seek(delta time.Duration) error {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()
	if s.isClosed() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(s.player.Position() + delta)
	return nil
}

func (s *serviceImpl) SeekTo(position time.Duration) error {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()
	if s.isClosed() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(position)
	return nil
}

func (s *serviceImpl) seekLocked(target time.Duration) {
	if !s.state.IsActive() {
		return
	}
	target = max(target, 0)
	if s.duration > 0 {
		target = min(target, s.duration)
	}

	s.player.SeekTo(target)
	s.position = target
	s.lastPos = target
	s.stalls = 0
	s.broadcast(func(sub *Subscription) {
		send(sub.positionCh, PositionChange{Position: target, Duration: s.duration})
	})
}

// pause expects ctrl held.
func (s *serviceImpl) pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsPlaying() {
		return
	}
	s.player.Pause()
	s.stalls = 0
	s.setBufferingLocked(false)
	s.setStateLocked(StatePaused)
}

// resume expects ctrl held.
func (s *serviceImpl) resume() error {
	s.mu.Lock()
	switch s.state {
	case StatePaused:
		s.player.Resume()
		s.lastPos = s.player.Position()
		s.setStateLocked(StatePlaying)
		s.mu.Unlock()
		return nil
	case StateIdle, StateError:
		s.mu.Unlock()
		return s.playCurrent()
	default:
		s.mu.Unlock()
		return nil
	}
}

// playCurrent expects ctrl held.
func (s *serviceImpl) playCurrent() error {
	s.mu.Lock()
	t := s.queue.Current()
	if t == nil {
		t = s.queue.JumpTo(0)
	}
	s.failures = 0
	s.mu.Unlock()
	if t == nil {
		return nil
	}
	return s.load(context.Background(), *t)
}

// load resolves and starts t, which must already be the queue's current
// track. It expects ctrl held. On failure it notifies, enters StateError
// and advances through the queue until a track starts, the queue ends, or
// every active track failed in a row.
func (s *serviceImpl) load(ctx context.Context, t playlist.Track) error {
	start := time.Now()

	s.mu.Lock()
	s.stopPollLocked()
	s.gen++
	gen := s.gen
	prev := s.lastTrack
	cur := t
	s.lastTrack = &cur
	s.position, s.lastPos, s.stalls = 0, 0, 0
	s.duration = t.Duration
	s.setBufferingLocked(false)
	s.setStateLocked(StateLoading)
	index := s.queue.CurrentIndex()
	s.broadcast(func(sub *Subscription) {
		current := cur
		send(sub.trackCh, TrackChange{Previous: prev, Current: &current, Index: index})
	})
	s.mu.Unlock()

	url := quality.SourceURL(ctx, s.quality, t.URL)
	if url == "" {
		return s.fail(ctx, t, ErrEmptyURL)
	}
	source := s.cache.PlayableURL(url)
	cached := source != url

	if err := s.player.Play(source); err != nil {
		return s.fail(ctx, t, fmt.Errorf("play %s: %w", source, err))
	}

	s.mu.Lock()
	if d := s.player.Duration(); d > 0 {
		s.duration = d
	}
	s.failures = 0
	s.lastErr = nil
	s.setStateLocked(StatePlaying)
	s.startPollLocked(gen)
	upcoming := s.queue.Upcoming(s.opts.Prefetch)
	s.mu.Unlock()

	latency := time.Since(start)
	s.metrics.PlaybackStart(latency, cached)
	s.metrics.TrackPlayed(t.ID)
	s.logger.Info("playing", "id", t.ID, "cached", cached, "latency_ms", latency.Milliseconds())

	s.prefetch(ctx, upcoming)
	return nil
}

func (s *serviceImpl) fail(ctx context.Context, t playlist.Track, err error) error {
	msg := errmsg.Classify(err)
	s.logger.Warn("playback failed", "id", t.ID, "url", t.URL, "err", err)
	s.toaster.Toast(msg, t.Title)

	s.mu.Lock()
	s.lastErr = err
	s.setStateLocked(StateError)
	s.broadcast(func(sub *Subscription) {
		send(sub.errorCh, ErrorEvent{Operation: "play", TrackID: t.ID, URL: t.URL, Message: msg, Err: err})
	})
	s.failures++
	var next *playlist.Track
	if s.failures < len(s.queue.Active()) {
		next = s.queue.PlayNext()
	}
	if next == nil {
		s.failures = 0
	}
	s.mu.Unlock()

	if next == nil {
		s.player.Stop()
		return err
	}
	return s.load(ctx, *next)
}

func (s *serviceImpl) prefetch(ctx context.Context, tracks []playlist.Track) {
	urls := make([]string, 0, len(tracks))
	for i := range tracks {
		if u := quality.SourceURL(ctx, s.quality, tracks[i].URL); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) > 0 {
		s.cache.Preload(urls...)
	}
}

// trackCompleted applies the end-of-track policy for the load identified
// by gen.
func (s *serviceImpl) trackCompleted(gen uint64) {
	s.ctrl.Lock()
	defer s.ctrl.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	c := s.queue.OnTrackCompleted()
	if c.Next == nil {
		s.stopPollLocked()
		s.gen++
		s.position = 0
		s.setBufferingLocked(false)
		s.setStateLocked(StateIdle)
		s.mu.Unlock()
		s.player.Stop()
		s.logger.Debug("queue finished")
		return
	}
	s.failures = 0
	s.mu.Unlock()

	_ = s.load(context.Background(), *c.Next)
}

// Queue manipulation

func (s *serviceImpl) SetQueue(tracks []playlist.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.SetQueue(tracks)
	s.history.Push(s.queue.Snapshot())
	s.emitQueueLocked()
}

func (s *serviceImpl) AddTracks(tracks ...playlist.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Add(tracks...)
	s.history.Push(s.queue.Snapshot())
	s.emitQueueLocked()
}

func (s *serviceImpl) RemoveAt(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.queue.RemoveAt(index) {
		return false
	}
	s.history.Push(s.queue.Snapshot())
	s.emitQueueLocked()
	return true
}

// ClearQueue stops playback and empties the queue.
func (s *serviceImpl) ClearQueue() {
	_ = s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Clear()
	s.lastTrack = nil
	s.history.Push(s.queue.Snapshot())
	s.emitQueueLocked()
}

// RestoreQueue loads a persisted queue without starting playback.
func (s *serviceImpl) RestoreQueue(snap playlist.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Restore(snap)
	s.history.Push(s.queue.Snapshot())
	s.emitQueueLocked()
	s.emitModeLocked()
}

func (s *serviceImpl) QueueSnapshot() playlist.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Snapshot()
}

func (s *serviceImpl) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.history.Undo()
	if ok {
		s.applyHistoryLocked(snap)
	}
	return ok
}

func (s *serviceImpl) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.history.Redo()
	if ok {
		s.applyHistoryLocked(snap)
	}
	return ok
}

// applyHistoryLocked restores queue contents only: the playing track and
// the modes stay as they are.
func (s *serviceImpl) applyHistoryLocked(snap playlist.Snapshot) {
	cur := s.queue.Current()
	snap.CurrentID = ""
	snap.Repeat = s.queue.RepeatMode()
	snap.Shuffle = s.queue.Shuffle()
	s.queue.Restore(snap)
	s.queue.SetCurrent(cur)
	s.emitQueueLocked()
}

// Mode control

func (s *serviceImpl) SetRepeatMode(mode playlist.RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.SetRepeatMode(mode)
	s.emitModeLocked()
}

func (s *serviceImpl) CycleRepeatMode() playlist.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode := s.queue.CycleRepeatMode()
	s.emitModeLocked()
	return mode
}

func (s *serviceImpl) SetShuffle(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.Shuffle() == enabled {
		return
	}
	s.queue.SetShuffle(enabled)
	s.emitModeLocked()
	s.emitQueueLocked()
}

func (s *serviceImpl) ToggleShuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	enabled := s.queue.ToggleShuffle()
	s.emitModeLocked()
	s.emitQueueLocked()
	return enabled
}

// Queries

func (s *serviceImpl) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		State:       s.state,
		Track:       s.queue.Current(),
		Index:       s.queue.CurrentIndex(),
		QueueLen:    s.queue.Len(),
		Position:    s.position,
		Duration:    s.duration,
		Buffering:   s.buffering,
		Repeat:      s.queue.RepeatMode(),
		Shuffle:     s.queue.Shuffle(),
		HasNext:     s.queue.HasNext(),
		HasPrevious: s.queue.HasPrevious(),
		Err:         s.lastErr,
	}
}

func (s *serviceImpl) QueueTracks() []playlist.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Active()
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	if s.subsClosed {
		sub.close()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops playback and polling and closes every subscription.
func (s *serviceImpl) Close() error {
	s.ctrl.Lock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.ctrl.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.stopPollLocked()
	s.gen++
	s.mu.Unlock()
	s.player.Stop()
	s.ctrl.Unlock()

	s.wg.Wait()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsClosed = true
	s.subsMu.Unlock()

	return nil
}

func (s *serviceImpl) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Event helpers. All of them expect mu held.

func (s *serviceImpl) setStateLocked(st State) {
	if s.state == st {
		return
	}
	prev := s.state
	s.state = st
	s.broadcast(func(sub *Subscription) {
		send(sub.stateCh, StateChange{Previous: prev, Current: st})
	})
}

func (s *serviceImpl) setBufferingLocked(b bool) {
	if s.buffering == b {
		return
	}
	s.buffering = b
	s.broadcast(func(sub *Subscription) {
		send(sub.bufferingCh, BufferingChange{Buffering: b})
	})
	switch {
	case b && s.state == StatePlaying:
		s.setStateLocked(StateBuffering)
	case !b && s.state == StateBuffering:
		s.setStateLocked(StatePlaying)
	}
}

func (s *serviceImpl) emitQueueLocked() {
	e := QueueChange{Tracks: s.queue.Active(), Index: s.queue.CurrentIndex()}
	s.broadcast(func(sub *Subscription) { send(sub.queueCh, e) })
}

func (s *serviceImpl) emitModeLocked() {
	e := ModeChange{RepeatMode: s.queue.RepeatMode(), Shuffle: s.queue.Shuffle()}
	s.broadcast(func(sub *Subscription) { send(sub.modeCh, e) })
}

func (s *serviceImpl) broadcast(fn func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		fn(sub)
	}
}
