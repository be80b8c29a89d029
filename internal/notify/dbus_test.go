//go:build linux

package notify

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHints(t *testing.T) {
	h := hints(Notification{Urgency: UrgencyCritical, Category: "network.error"})

	assert.Equal(t, byte(UrgencyCritical), h["urgency"].Value())
	assert.Equal(t, "chants", h["desktop-entry"].Value())
	assert.Equal(t, "network.error", h["category"].Value())
}

func TestHints_NoCategory(t *testing.T) {
	h := hints(Notification{})

	_, ok := h["category"]
	assert.False(t, ok)
}

func TestBusNotifier_ReplacesInPlace(t *testing.T) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}

	n, err := New()
	require.NoError(t, err)

	first, err := n.Notify(Notification{Summary: "Unable to play audio", Body: "Kyrie", Urgency: UrgencyLow})
	require.NoError(t, err)
	assert.NotZero(t, first)

	second, err := n.Notify(Notification{Summary: "Sound restricted", Replaces: first, Urgency: UrgencyLow})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
