package player

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// outputRate is the speaker sample rate. Sources at other rates are
// resampled.
const outputRate beep.SampleRate = 44100

// Player plays audio through the system speaker.
type Player struct {
	state      State
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	streamer   beep.StreamSeekCloser
	format     beep.Format
	closer     io.Closer
	trackInfo  *TrackInfo
	done       chan struct{}
	finishedCh chan struct{}
	seekChan   chan time.Duration
	client     *http.Client
}

// TrackInfo describes the loaded source.
type TrackInfo struct {
	Source     string
	Title      string
	Artist     string
	Album      string
	Duration   time.Duration // zero when the stream length is unknown
	SampleRate int
	Format     string // MP3, FLAC, WAV or OGG
	Remote     bool
}

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
)

// New creates a player. Remote sources are fetched with client; a nil
// client gets a default one that only bounds the wait for response headers,
// since a stream body is read for as long as the track plays.
func New(client *http.Client) *Player {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: 10 * time.Second,
			},
		}
	}
	p := &Player{
		state:      Stopped,
		done:       make(chan struct{}),
		finishedCh: make(chan struct{}, 1),
		seekChan:   make(chan time.Duration, 1),
		client:     client,
	}
	go p.seekLoop()
	return p
}

// Play starts playback of a local file or an http(s) URL.
func (p *Player) Play(source string) error {
	p.Stop()

	// Let a pending beep callback complete after speaker.Clear()
	time.Sleep(10 * time.Millisecond)

	// Drain any stale finish signal from the previous source
	select {
	case <-p.finishedCh:
	default:
	}

	dec, err := p.open(source)
	if err != nil {
		return err
	}

	if err := initSpeaker(); err != nil {
		dec.close()
		return err
	}

	p.closer = dec.closer
	p.streamer = dec.streamer
	p.format = dec.format

	var playStreamer beep.Streamer = dec.streamer
	if dec.format.SampleRate != outputRate {
		playStreamer = beep.Resample(4, dec.format.SampleRate, outputRate, dec.streamer)
	}
	p.ctrl = &beep.Ctrl{Streamer: playStreamer, Paused: false}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2, Volume: 0, Silent: false}
	p.trackInfo = describe(source, dec)

	p.state = Playing
	done := make(chan struct{})
	p.done = done

	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		closeOnce(done)
		p.signalFinished()
	})))

	return nil
}

// State returns the output state.
func (p *Player) State() State { return p.state }

// TrackInfo returns the loaded source description, or nil when stopped.
func (p *Player) TrackInfo() *TrackInfo { return p.trackInfo }

// Duration returns the length of the loaded source, zero when unknown.
func (p *Player) Duration() time.Duration {
	if p.trackInfo == nil {
		return 0
	}
	return p.trackInfo.Duration
}

// FinishedChan receives when a source plays to its end.
func (p *Player) FinishedChan() <-chan struct{} {
	return p.finishedCh
}

// Done is closed when the current source ends or is stopped.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

func initSpeaker() error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(outputRate, outputRate.N(time.Second/10)); err != nil {
		return err
	}
	speakerInitialized = true
	return nil
}

func describe(source string, dec *decoded) *TrackInfo {
	info := &TrackInfo{
		Source:     source,
		SampleRate: int(dec.format.SampleRate),
		Format:     strings.ToUpper(strings.TrimPrefix(dec.ext, ".")),
		Remote:     dec.remote,
	}
	if n := dec.streamer.Len(); n > 0 {
		info.Duration = dec.format.SampleRate.D(n)
	}
	if !dec.remote {
		if tags, err := ReadTags(source); err == nil {
			info.Title = tags.Title
			info.Artist = tags.Artist
			info.Album = tags.Album
		}
	}
	if info.Title == "" {
		info.Title = filepath.Base(source)
	}
	return info
}

func closeOnce(ch chan struct{}) {
	select {
	case <-ch:
	default:
		close(ch)
	}
}
