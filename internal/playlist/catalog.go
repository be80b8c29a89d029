package playlist

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// catalogTrack is a [[tracks]] table of a catalog file.
type catalogTrack struct {
	ID               string  `koanf:"id"`
	Title            string  `koanf:"title"`
	Artist           string  `koanf:"artist"`
	ArtworkURL       string  `koanf:"artwork_url"`
	FallbackImageURL string  `koanf:"fallback_image_url"`
	URL              string  `koanf:"url"`
	Duration         float64 `koanf:"duration"` // seconds
}

// LoadCatalog reads tracks from a TOML catalog file:
//
//	[[tracks]]
//	id = "anthem"
//	title = "Anthem"
//	artist = "North Stand"
//	url = "https://cdn.example.com/anthem.mp3"
//	duration = 94.5
//
// Tracks without an id get their URL as id.
func LoadCatalog(p string) ([]Track, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", p, err)
	}

	var entries []catalogTrack
	if err := k.Unmarshal("tracks", &entries); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", p, err)
	}

	tracks := make([]Track, 0, len(entries))
	for _, e := range entries {
		id := e.ID
		if id == "" {
			id = e.URL
		}
		if id == "" {
			continue
		}
		tracks = append(tracks, Track{
			ID:               id,
			Title:            e.Title,
			Artist:           e.Artist,
			ArtworkURL:       e.ArtworkURL,
			FallbackImageURL: e.FallbackImageURL,
			URL:              e.URL,
			Duration:         time.Duration(e.Duration * float64(time.Second)),
		})
	}
	return tracks, nil
}

// FromURL builds an ad-hoc track for a bare URL, titled after its last path
// segment.
func FromURL(raw string) Track {
	title := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		title = path.Base(u.Path)
	}
	title = strings.TrimSuffix(title, path.Ext(title))
	if title == "" || title == "/" || title == "." {
		title = raw
	}
	return Track{ID: raw, Title: title, URL: raw}
}
