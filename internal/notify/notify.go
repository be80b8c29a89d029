// Package notify shows playback failures as desktop notifications.
package notify

import (
	"errors"
	"time"
)

// ErrUnavailable is returned by New when no notification server can be
// reached.
var ErrUnavailable = errors.New("desktop notifications unavailable")

// Urgency levels of the freedesktop notification protocol.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification is a single desktop notification.
type Notification struct {
	Summary  string
	Body     string
	Category string        // freedesktop category hint, e.g. "network.error"
	Expire   time.Duration // zero lets the server decide
	Replaces uint32        // id of a notification to update in place
	Urgency  Urgency
}

// Notifier delivers notifications and returns the id the server assigned.
type Notifier interface {
	Notify(n Notification) (uint32, error)
}

// expireMillis converts an expiry to the protocol's timeout argument, where
// -1 means the server default.
func expireMillis(d time.Duration) int32 {
	if d <= 0 {
		return -1
	}
	return int32(d.Milliseconds())
}
