//go:build !linux

package notify

// New reports ErrUnavailable: only the freedesktop protocol is supported.
func New() (Notifier, error) {
	return nil, ErrUnavailable
}
