package playlist

// Snapshot is the persistable form of a Queue.
type Snapshot struct {
	Tracks     []Track
	ShuffleIDs []string // shuffled order as track IDs; empty when not shuffled
	CurrentID  string   // empty when nothing is loaded
	Repeat     RepeatMode
	Shuffle    bool
}

// Snapshot captures the queue state.
func (q *Queue) Snapshot() Snapshot {
	s := Snapshot{
		Tracks:  q.base.Tracks(),
		Repeat:  q.repeat,
		Shuffle: q.shuffle,
	}
	for i := range q.shuffled {
		s.ShuffleIDs = append(s.ShuffleIDs, q.shuffled[i].ID)
	}
	if q.current != nil {
		s.CurrentID = q.current.ID
	}
	return s
}

// Restore replaces the queue state with s. A saved shuffled order that is
// not a permutation of the tracks is discarded and redrawn.
func (q *Queue) Restore(s Snapshot) {
	q.base.Replace(s.Tracks)
	q.repeat = s.Repeat
	q.shuffle = s.Shuffle
	q.current = nil
	q.shuffled = nil

	if q.shuffle {
		shuffled := q.resolveIDs(s.ShuffleIDs)
		if q.base.Len() > 1 && IsPermutation(q.base.tracks, shuffled) {
			q.shuffled = shuffled
		} else {
			q.reshuffle()
		}
	}

	if s.CurrentID != "" {
		if i := q.base.IndexOf(s.CurrentID); i >= 0 {
			q.SetCurrent(q.base.Track(i))
		}
	}
}

// resolveIDs maps IDs back to tracks, consuming duplicates in base order.
func (q *Queue) resolveIDs(ids []string) []Track {
	byID := make(map[string][]Track)
	for _, t := range q.base.tracks {
		byID[t.ID] = append(byID[t.ID], t)
	}
	result := make([]Track, 0, len(ids))
	for _, id := range ids {
		pool := byID[id]
		if len(pool) == 0 {
			return nil
		}
		result = append(result, pool[0])
		byID[id] = pool[1:]
	}
	return result
}
