package mpris

import (
	"net/url"

	"github.com/llehouerou/chants/internal/playlist"
)

// ArtURL returns the image to advertise for t: its artwork when it is a
// usable URL, else the fallback image, else "".
func ArtURL(t playlist.Track) string {
	for _, raw := range []string{t.ArtworkURL, t.FallbackImageURL} {
		if u, err := url.Parse(raw); err == nil && u.Host != "" &&
			(u.Scheme == "http" || u.Scheme == "https") {
			return raw
		}
	}
	return ""
}
