package player

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// Tags is the subset of embedded metadata the player surfaces.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Year   int
}

// ReadTags reads embedded tags from a local audio file.
func ReadTags(path string) (*Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read tags %s: %w", path, err)
	}

	artist := m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}
	return &Tags{
		Title:  m.Title(),
		Artist: artist,
		Album:  m.Album(),
		Year:   m.Year(),
	}, nil
}
