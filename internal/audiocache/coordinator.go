package audiocache

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/llehouerou/chants/internal/storage"
)

const defaultDownloadTimeout = 10 * time.Second

// Result describes a finished download task.
type Result struct {
	TaskID  string
	URL     string
	Path    string
	Status  int
	Err     error
	Elapsed time.Duration
}

// OK reports whether the download produced a cache file.
func (r Result) OK() bool {
	return r.Err == nil
}

// Task is a running download.
type Task struct {
	ID      string
	URL     string
	Started time.Time
}

type task struct {
	id      string
	url     string
	started time.Time
	cancel  context.CancelFunc
}

type coordinatorOptions struct {
	timeout   time.Duration
	perSecond float64
	logger    *slog.Logger
}

// Coordinator runs background downloads into the cache. At most one task
// exists per URL between registration and completion.
type Coordinator struct {
	cache   *Cache
	fs      storage.FileSystem
	logger  *slog.Logger
	timeout time.Duration
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	inFlight   map[string]*task
	closed     bool
	onComplete func(Result)
}

func newCoordinator(c *Cache, opts coordinatorOptions) *Coordinator {
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = defaultDownloadTimeout
	}

	var limiter *rate.Limiter
	if opts.perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.perSecond), 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		cache:    c,
		fs:       c.fs,
		logger:   opts.logger,
		timeout:  timeout,
		limiter:  limiter,
		ctx:      ctx,
		cancel:   cancel,
		inFlight: make(map[string]*task),
	}
}

// OnComplete registers a hook called after every task finishes, once the
// task has left the in-flight set and the cache has been updated.
func (d *Coordinator) OnComplete(fn func(Result)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onComplete = fn
}

// DownloadInBackground starts a download of url unless one is already in
// flight. It reports whether a new task was started.
func (d *Coordinator) DownloadInBackground(url string) bool {
	if url == "" {
		return false
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	if _, ok := d.inFlight[url]; ok {
		d.mu.Unlock()
		return false
	}

	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	t := &task{
		id:      uuid.NewString(),
		url:     url,
		started: time.Now(),
		cancel:  cancel,
	}
	d.inFlight[url] = t
	d.wg.Add(1)
	d.mu.Unlock()

	d.logger.Debug("download started", "task", t.id, "url", url)
	go d.run(ctx, t)
	return true
}

// InFlight reports whether url has a running task.
func (d *Coordinator) InFlight(url string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.inFlight[url]
	return ok
}

// Pending returns the number of running tasks.
func (d *Coordinator) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inFlight)
}

// Active returns the running tasks, oldest first.
func (d *Coordinator) Active() []Task {
	d.mu.Lock()
	tasks := make([]Task, 0, len(d.inFlight))
	for _, t := range d.inFlight {
		tasks = append(tasks, Task{ID: t.id, URL: t.url, Started: t.started})
	}
	d.mu.Unlock()

	slices.SortFunc(tasks, func(a, b Task) int { return a.Started.Compare(b.Started) })
	return tasks
}

// Wait blocks until every started task has finished.
func (d *Coordinator) Wait() {
	d.wg.Wait()
}

// Close cancels all running tasks and waits for them. Later requests are
// ignored.
func (d *Coordinator) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}

func (d *Coordinator) run(ctx context.Context, t *task) {
	defer d.wg.Done()
	defer t.cancel()

	path := d.cache.ResolveLocalPath(t.url)
	res := Result{TaskID: t.id, URL: t.url, Path: path}

	if d.limiter != nil {
		res.Err = d.limiter.Wait(ctx)
	}
	if res.Err == nil {
		res.Status, res.Err = d.fs.Download(ctx, t.url, path)
	}
	if res.Err == nil && (res.Status < 200 || res.Status > 299) {
		res.Err = &storage.StatusError{Code: res.Status}
	}
	res.Elapsed = time.Since(t.started)

	hook := d.finish(t)

	if res.Err != nil {
		d.logger.Warn("download failed",
			"task", t.id,
			"url", t.url,
			"status", res.Status,
			"err", res.Err,
		)
	} else {
		d.logger.Info("download complete", "task", t.id, "url", t.url, "elapsed", res.Elapsed)
		d.cache.commit(t.url, path)
	}

	if hook != nil {
		hook(res)
	}
}

// finish removes t from the in-flight set and returns the completion hook.
func (d *Coordinator) finish(t *task) func(Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cur, ok := d.inFlight[t.url]; ok && cur == t {
		delete(d.inFlight, t.url)
	}
	return d.onComplete
}
