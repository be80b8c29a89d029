package player

// State is the state of the audio output, independent of any queue.
//
//	Stopped --Play--> Playing --Pause--> Paused
//	   ^                 |  ^              |
//	   |                 |  +---Resume-----+
//	   +------Stop-------+-----------------+
//
// Pausing while stopped, resuming while playing and stopping twice are
// no-ops. Play always stops first. A source that plays to its end stays in
// Playing until the owner reacts to FinishedChan.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a source is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}
