package player

import (
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

// seekMute is how long output stays silent around a seek.
const seekMute = 100 * time.Millisecond

// Stop silences the speaker and releases the source.
func (p *Player) Stop() {
	if p.state == Stopped {
		return
	}
	speaker.Clear()
	p.release()
	p.state = Stopped
	closeOnce(p.done)
}

func (p *Player) release() {
	if p.streamer != nil {
		_ = p.streamer.Close()
	}
	if p.closer != nil {
		_ = p.closer.Close()
	}
	p.streamer, p.closer = nil, nil
	p.ctrl, p.volume, p.trackInfo = nil, nil, nil
}

// Pause holds the output. It is a no-op unless playing.
func (p *Player) Pause() { p.setPaused(true) }

// Resume continues a paused output. It is a no-op unless paused.
func (p *Player) Resume() { p.setPaused(false) }

func (p *Player) setPaused(paused bool) {
	from, to := Playing, Paused
	if !paused {
		from, to = Paused, Playing
	}
	if p.state != from || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
	p.state = to
}

// Position returns the current playback position. It reads without the
// speaker lock, so it may lag by one buffer but never waits on the audio
// callback.
func (p *Player) Position() time.Duration {
	streamer := p.streamer
	if streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(streamer.Position())
}

// SeekTo requests a jump to pos. Requests are applied in the background and
// only the latest pending one is kept.
func (p *Player) SeekTo(pos time.Duration) {
	if p.streamer == nil || p.state == Stopped {
		return
	}
	select {
	case <-p.seekChan:
	default:
	}
	select {
	case p.seekChan <- pos:
	default:
	}
}

func (p *Player) seekLoop() {
	for target := range p.seekChan {
		p.applySeek(target)
	}
}

func (p *Player) applySeek(target time.Duration) {
	streamer := p.streamer
	if streamer == nil || p.state == Stopped || p.volume == nil {
		return
	}

	n := max(p.format.SampleRate.N(target), 0)
	if length := streamer.Len(); length > 0 && n >= length {
		p.signalFinished()
		return
	}

	speaker.Lock()
	// Stop may have run while the target was computed.
	if p.streamer == nil || p.volume == nil {
		speaker.Unlock()
		return
	}
	p.volume.Silent = true
	_ = p.streamer.Seek(n) // non-seekable streams stay where they are
	speaker.Unlock()

	time.Sleep(seekMute)

	speaker.Lock()
	if p.volume != nil {
		p.volume.Silent = false
	}
	speaker.Unlock()
}

func (p *Player) signalFinished() {
	select {
	case p.finishedCh <- struct{}{}:
	default:
	}
}
