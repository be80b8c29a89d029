package notify

import (
	"log/slog"
	"sync"
	"time"
)

// ToastExpire is how long a toast stays visible.
const ToastExpire = 3 * time.Second

// ToastCategory tags toasts as failed transfers for notification servers
// that group by category.
const ToastCategory = "transfer.error"

// Toaster shows short transient messages. Each toast replaces the previous
// one instead of stacking.
type Toaster struct {
	notifier Notifier
	logger   *slog.Logger

	mu   sync.Mutex
	last uint32
}

// NewToaster wraps n. A nil logger falls back to slog.Default().
func NewToaster(n Notifier, logger *slog.Logger) *Toaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toaster{notifier: n, logger: logger}
}

// Toast shows message with an optional detail line. Failures are logged,
// never returned.
func (t *Toaster) Toast(message, detail string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, err := t.notifier.Notify(Notification{
		Summary:  message,
		Body:     detail,
		Category: ToastCategory,
		Expire:   ToastExpire,
		Replaces: t.last,
		Urgency:  UrgencyNormal,
	})
	if err != nil {
		t.logger.Warn("notification failed", "message", message, "err", err)
		return
	}
	t.last = id
}

// Recorder is an in-memory Notifier for tests.
type Recorder struct {
	mu     sync.Mutex
	sent   []Notification
	nextID uint32
}

func (r *Recorder) Notify(n Notification) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	if n.Replaces != 0 {
		return n.Replaces, nil
	}
	r.nextID++
	return r.nextID, nil
}

// Sent returns the notifications received so far.
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// Titles returns the summaries of the notifications received so far.
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, len(r.sent))
	for i := range r.sent {
		titles[i] = r.sent[i].Summary
	}
	return titles
}

var _ Notifier = (*Recorder)(nil)
