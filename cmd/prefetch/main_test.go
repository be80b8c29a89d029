package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/chants/internal/playlist"
	"github.com/llehouerou/chants/internal/quality"
)

func TestTargets_KeyedLikePlayback(t *testing.T) {
	r := quality.NewParamResolver("bitrate", map[quality.Tier]string{quality.TierHigh: "320"}, quality.Fixed(quality.TierHigh))
	tracks := []playlist.Track{
		{ID: "kyrie", URL: " `\"https://x.io/kyrie.mp3\"` "},
		{ID: "gloria", URL: "https://x.io/gloria.mp3"},
		{ID: "credo", URL: "https://x.io/credo.mp3"},
		{ID: "silent", URL: "  "},
		{ID: "kyrie-again", URL: "https://x.io/kyrie.mp3"},
	}
	cached := func(u string) bool { return u == "https://x.io/gloria.mp3?bitrate=320" }

	urls, skipped := targets(context.Background(), tracks, r, cached)

	assert.Equal(t, []string{
		"https://x.io/kyrie.mp3?bitrate=320",
		"https://x.io/credo.mp3?bitrate=320",
	}, urls)
	assert.Equal(t, 3, skipped)
}

func TestTargets_Passthrough(t *testing.T) {
	urls, skipped := targets(context.Background(),
		[]playlist.Track{{URL: "'https://x.io/a.ogg'"}},
		quality.Passthrough{},
		func(string) bool { return false })

	assert.Equal(t, []string{"https://x.io/a.ogg"}, urls)
	assert.Zero(t, skipped)
}
