package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/llehouerou/chants/internal/playlist"
)

func TestSubscription_DeliversEveryKind(t *testing.T) {
	sub := newSubscription()
	boom := errors.New("boom")

	send(sub.stateCh, StateChange{Previous: StateLoading, Current: StateBuffering})
	send(sub.trackCh, TrackChange{Index: 3})
	send(sub.positionCh, PositionChange{Position: 90 * time.Second})
	send(sub.queueCh, QueueChange{Index: 0, Tracks: []playlist.Track{{ID: "introit"}}})
	send(sub.modeCh, ModeChange{RepeatMode: playlist.RepeatOne})
	send(sub.bufferingCh, BufferingChange{Buffering: true})
	send(sub.errorCh, ErrorEvent{Err: boom})

	if got := (<-sub.StateChanged).Current; got != StateBuffering {
		t.Errorf("state = %v, want Buffering", got)
	}
	if got := (<-sub.TrackChanged).Index; got != 3 {
		t.Errorf("track index = %d, want 3", got)
	}
	if got := (<-sub.PositionChanged).Position; got != 90*time.Second {
		t.Errorf("position = %v, want 1m30s", got)
	}
	if got := (<-sub.QueueChanged).Tracks; len(got) != 1 || got[0].ID != "introit" {
		t.Errorf("queue = %v, want [introit]", got)
	}
	if got := (<-sub.ModeChanged).RepeatMode; got != playlist.RepeatOne {
		t.Errorf("repeat = %v, want one", got)
	}
	if !(<-sub.BufferingChanged).Buffering {
		t.Error("buffering = false, want true")
	}
	if got := (<-sub.Error).Err; !errors.Is(got, boom) {
		t.Errorf("error = %v, want boom", got)
	}
}

func TestSubscription_CloseSignalsDone(t *testing.T) {
	sub := newSubscription()
	sub.close()

	select {
	case <-sub.Done:
	default:
		t.Fatal("Done not closed")
	}
}

func TestSend_FullBufferKeepsOldest(t *testing.T) {
	sub := newSubscription()

	for i := range eventBufferSize + 4 {
		send(sub.trackCh, TrackChange{Index: i})
	}

	if n := len(sub.TrackChanged); n != eventBufferSize {
		t.Fatalf("buffered %d events, want %d", n, eventBufferSize)
	}
	if first := <-sub.TrackChanged; first.Index != 0 {
		t.Errorf("first event index = %d, want 0", first.Index)
	}
}
