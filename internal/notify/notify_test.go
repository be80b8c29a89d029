package notify

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireMillis(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int32
	}{
		{0, -1},
		{-time.Second, -1},
		{ToastExpire, 3000},
		{1500 * time.Microsecond, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expireMillis(tt.in), "expireMillis(%v)", tt.in)
	}
}

func TestToaster_ReplacesPrevious(t *testing.T) {
	r := &Recorder{}
	toaster := NewToaster(r, nil)

	toaster.Toast("Sound restricted", "Kyrie")
	toaster.Toast("Unable to play audio", "")

	sent := r.Sent()
	require.Len(t, sent, 2)
	assert.Zero(t, sent[0].Replaces)
	assert.Equal(t, uint32(1), sent[1].Replaces)
	assert.Equal(t, "Kyrie", sent[0].Body)
	assert.Equal(t, ToastExpire, sent[1].Expire)
	assert.Equal(t, ToastCategory, sent[1].Category)
	assert.Equal(t, []string{"Sound restricted", "Unable to play audio"}, r.Titles())
}

type failingNotifier struct{}

func (failingNotifier) Notify(Notification) (uint32, error) { return 0, errors.New("no bus") }

func TestToaster_SwallowsErrors(t *testing.T) {
	toaster := NewToaster(failingNotifier{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	toaster.Toast("Unable to play audio", "")
	toaster.Toast("Sound restricted", "")

	assert.Zero(t, toaster.last)
}
