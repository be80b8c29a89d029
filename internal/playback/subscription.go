package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged     <-chan StateChange
	TrackChanged     <-chan TrackChange
	PositionChanged  <-chan PositionChange
	QueueChanged     <-chan QueueChange
	ModeChanged      <-chan ModeChange
	BufferingChanged <-chan BufferingChange
	Error            <-chan ErrorEvent
	Done             <-chan struct{}

	stateCh     chan StateChange
	trackCh     chan TrackChange
	positionCh  chan PositionChange
	queueCh     chan QueueChange
	modeCh      chan ModeChange
	bufferingCh chan BufferingChange
	errorCh     chan ErrorEvent
	doneCh      chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:     make(chan StateChange, eventBufferSize),
		trackCh:     make(chan TrackChange, eventBufferSize),
		positionCh:  make(chan PositionChange, eventBufferSize),
		queueCh:     make(chan QueueChange, eventBufferSize),
		modeCh:      make(chan ModeChange, eventBufferSize),
		bufferingCh: make(chan BufferingChange, eventBufferSize),
		errorCh:     make(chan ErrorEvent, eventBufferSize),
		doneCh:      make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.PositionChanged = s.positionCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.BufferingChanged = s.bufferingCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers e without blocking; events are dropped when the buffer is
// full.
func send[T any](ch chan T, e T) {
	select {
	case ch <- e:
	default:
	}
}
