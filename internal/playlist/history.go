package playlist

// QueueHistory keeps queue snapshots for undo/redo of queue replacements.
type QueueHistory struct {
	states  []Snapshot
	current int // index of current state (-1 = before any state)
	maxSize int
}

// NewQueueHistory creates a new history with the given maximum size.
func NewQueueHistory(maxSize int) *QueueHistory {
	return &QueueHistory{
		states:  make([]Snapshot, 0, maxSize),
		current: -1,
		maxSize: maxSize,
	}
}

// Push records s as the newest state, dropping any redo states and the
// oldest states beyond the size limit.
func (h *QueueHistory) Push(s Snapshot) {
	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}

	h.states = append(h.states, cloneSnapshot(s))
	h.current = len(h.states) - 1

	if len(h.states) > h.maxSize {
		excess := len(h.states) - h.maxSize
		h.states = h.states[excess:]
		h.current -= excess
	}
}

// Undo steps back one state.
// Returns false if nothing to undo.
func (h *QueueHistory) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.current--
	return cloneSnapshot(h.states[h.current]), true
}

// Redo steps forward one state.
// Returns false if nothing to redo.
func (h *QueueHistory) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.current++
	return cloneSnapshot(h.states[h.current]), true
}

// CanUndo returns true if there is a previous state to undo to.
func (h *QueueHistory) CanUndo() bool {
	return h.current > 0
}

// CanRedo returns true if there is a next state to redo to.
func (h *QueueHistory) CanRedo() bool {
	return h.current < len(h.states)-1
}

func cloneSnapshot(s Snapshot) Snapshot {
	c := s
	c.Tracks = make([]Track, len(s.Tracks))
	copy(c.Tracks, s.Tracks)
	if s.ShuffleIDs != nil {
		c.ShuffleIDs = make([]string, len(s.ShuffleIDs))
		copy(c.ShuffleIDs, s.ShuffleIDs)
	}
	return c
}
