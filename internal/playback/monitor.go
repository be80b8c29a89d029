package playback

import "time"

// startPollLocked launches the monitor for the load identified by gen.
// Expects mu held.
func (s *serviceImpl) startPollLocked(gen uint64) {
	stop := make(chan struct{})
	s.pollStop = stop
	s.wg.Add(1)
	go s.monitor(gen, stop)
}

// stopPollLocked signals the running monitor, if any. It does not wait.
func (s *serviceImpl) stopPollLocked() {
	if s.pollStop != nil {
		close(s.pollStop)
		s.pollStop = nil
	}
}

// monitor samples the player until the track ends or the load is
// superseded. Both the player's finished signal and the position
// threshold end up in trackCompleted, which drops stale generations.
func (s *serviceImpl) monitor(gen uint64, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()
	finished := s.player.FinishedChan()

	for {
		select {
		case <-stop:
			return
		case <-s.done:
			return
		case <-finished:
			s.trackCompleted(gen)
			return
		case <-ticker.C:
			if s.sample(gen) {
				s.trackCompleted(gen)
				return
			}
		}
	}
}

// sample records the player position, reports whether the track reached
// its end and runs stall detection.
func (s *serviceImpl) sample(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || !s.state.IsPlaying() {
		return false
	}

	pos := s.player.Position()
	if d := s.player.Duration(); d > 0 {
		s.duration = d
	}
	s.position = pos
	dur := s.duration
	s.broadcast(func(sub *Subscription) {
		send(sub.positionCh, PositionChange{Position: pos, Duration: dur})
	})

	if dur > 0 && pos >= dur-s.opts.EndThreshold {
		return true
	}

	progress := pos - s.lastPos
	if progress < 0 {
		progress = -progress
	}
	s.lastPos = pos
	if progress < s.opts.StallThreshold {
		s.stalls++
		if s.stalls >= s.opts.StallSamples {
			s.stalls = 0
			s.metrics.BufferingEvent()
			s.logger.Debug("playback stalled", "position", pos)
			s.setBufferingLocked(true)
		}
		return false
	}
	s.stalls = 0
	s.setBufferingLocked(false)
	return false
}
