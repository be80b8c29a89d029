package app

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/chants/internal/audiocache"
	"github.com/llehouerou/chants/internal/keymap"
	"github.com/llehouerou/chants/internal/metrics"
	"github.com/llehouerou/chants/internal/playback"
	"github.com/llehouerou/chants/internal/playlist"
	"github.com/llehouerou/chants/internal/quality"
	"github.com/llehouerou/chants/internal/state"
	"github.com/llehouerou/chants/internal/ui/confirm"
	"github.com/llehouerou/chants/internal/ui/jobbar"
	"github.com/llehouerou/chants/internal/ui/playerbar"
	"github.com/llehouerou/chants/internal/ui/queuepanel"
)

// Cache limit steps for the grow and shrink keys, in megabytes.
const (
	cacheStepMB = 100
	cacheMinMB  = 100
)

// CacheControl is the part of the audio cache the front-end drives.
type CacheControl interface {
	IsCached(url string) bool
	Clear()
	SizeBytes() int64
	MaxSizeMB() int
	SetMaxSizeMB(n int)
	Stats() audiocache.Stats
}

// Downloads lists the cache downloads in flight.
type Downloads interface {
	Active() []audiocache.Task
}

// Deps are the collaborators of the model. Everything but Playback may be
// nil.
type Deps struct {
	Playback  playback.Service
	State     state.Interface
	Cache     CacheControl
	Downloads Downloads
	Stats     *metrics.Stats
	Keys      *keymap.Resolver
	Logger    *slog.Logger
}

// Model is the root application model.
type Model struct {
	Playback playback.Service
	StateMgr state.Interface
	Cache     CacheControl
	Downloads Downloads
	Stats     *metrics.Stats
	Keys      *keymap.Resolver
	Logger    *slog.Logger

	sub        *playback.Subscription
	status     playback.Status
	QueuePanel queuepanel.Model
	spinner    spinner.Model
	input      textinput.Model
	confirm    confirm.Model
	jobs       []jobbar.Job
	titles     map[string]string // track title by URL, for download labels

	PlayerDisplayMode playerbar.DisplayMode
	InputActive       bool
	ShowHelp          bool
	ShowInfo          bool
	Message           string
	messageSet        time.Time
	cacheBytes        int64

	Width  int
	Height int
}

// New creates the model and subscribes to the session.
func New(d Deps) Model {
	if d.Keys == nil {
		d.Keys = keymap.Default()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	ti := textinput.New()
	ti.Placeholder = "https://…"
	ti.Prompt = "URL: "
	ti.CharLimit = 2048

	m := Model{
		Playback:   d.Playback,
		StateMgr:   d.State,
		Cache:      d.Cache,
		Downloads:  d.Downloads,
		Stats:      d.Stats,
		Keys:       d.Keys,
		Logger:     d.Logger,
		sub:        d.Playback.Subscribe(),
		QueuePanel: queuepanel.New(),
		spinner:    sp,
		input:      ti,
		confirm:    confirm.New(),
	}
	m.QueuePanel.SetFocused(true)
	m.refresh()
	m.QueuePanel.SyncCursor()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchServiceEvents(), m.spinner.Tick)
}

// refresh re-reads the session status and the queue.
func (m *Model) refresh() {
	m.status = m.Playback.Status()
	tracks := m.Playback.QueueTracks()
	m.QueuePanel.SetTracks(tracks, m.status.Index)
	m.indexTitles(tracks)
	m.QueuePanel.SetModes(m.status.Repeat, m.status.Shuffle)
	if m.Cache != nil {
		m.cacheBytes = m.Cache.SizeBytes()
	}
}

func (m *Model) indexTitles(tracks []playlist.Track) {
	m.titles = make(map[string]string, len(tracks))
	for _, t := range tracks {
		if t.URL != "" {
			m.titles[t.URL] = t.Title
		}
	}
}

// refreshJobs re-reads the running downloads and reports whether the job
// bar changed height.
func (m *Model) refreshJobs(now time.Time) bool {
	if m.Downloads == nil {
		return false
	}
	before := jobbar.Height(len(m.jobs))

	tasks := m.Downloads.Active()
	jobs := make([]jobbar.Job, len(tasks))
	for i, t := range tasks {
		label := m.titles[t.URL]
		if label == "" {
			label = t.URL
		}
		jobs[i] = jobbar.Job{ID: t.ID, Label: label, Elapsed: now.Sub(t.Started)}
	}
	m.jobs = jobs

	return jobbar.Height(len(m.jobs)) != before
}

// setMessage shows msg on the status line for messageTTL.
func (m *Model) setMessage(msg string) tea.Cmd {
	m.Message = msg
	m.messageSet = time.Now()
	return clearMessageCmd(m.messageSet)
}

// ResizeComponents lays out the queue panel around the job and player bars.
func (m *Model) ResizeComponents() {
	barHeight := jobbar.Height(len(m.jobs))
	if m.playerState().Visible() {
		barHeight += playerbar.Height(m.PlayerDisplayMode)
	}
	// header and status line
	m.QueuePanel.SetSize(m.Width, max(m.Height-barHeight-2, 0))
}

func (m Model) playerState() playerbar.State {
	var cache playerbar.CacheInfo
	if m.Cache != nil {
		cache.SizeBytes = m.cacheBytes
		cache.MaxMB = m.Cache.MaxSizeMB()
		if m.status.Track != nil {
			cache.Cached = m.Cache.IsCached(m.status.Track.URL)
		}
	}
	s := playerbar.NewState(m.status, cache, m.PlayerDisplayMode)
	s.Spinner = m.spinner.View()
	return s
}

// trackFromInput builds a queue track from a pasted URL.
func trackFromInput(raw string) playlist.Track {
	u := quality.SanitizeURL(raw)
	if u == "" {
		return playlist.Track{}
	}
	return playlist.FromURL(u)
}
