package player

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/chants/internal/storage"
)

// ErrUnsupportedFormat is returned by Play for sources no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

const userAgent = "chants-player/1.0"

type decoded struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	closer   io.Closer
	ext      string
	remote   bool
}

func (d *decoded) close() {
	d.streamer.Close()
	d.closer.Close()
}

// IsRemote reports whether source is an http(s) URL rather than a file.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// IsSupported reports whether source has an extension Play can decode.
func IsSupported(source string) bool {
	switch sourceExt(source) {
	case extMP3, extFLAC, extWAV, extOGG:
		return true
	default:
		return false
	}
}

// sourceExt returns the lowercased extension of a file path or of a URL's
// path. URLs follow the cache naming rule, so a stream and its cached
// copy always decode the same way.
func sourceExt(source string) string {
	if !IsRemote(source) {
		return strings.ToLower(filepath.Ext(source))
	}
	return "." + storage.URLExt(source)
}

func (p *Player) open(source string) (*decoded, error) {
	ext := sourceExt(source)
	if !IsSupported(source) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if IsRemote(source) {
		body, err := p.fetch(source)
		if err != nil {
			return nil, err
		}
		d, err := decodeStream(body, ext)
		if err != nil {
			body.Close()
			return nil, err
		}
		d.remote = true
		return d, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	d, err := decodeFile(f, ext)
	if err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

// fetch opens an HTTP stream. The caller closes the body.
func (p *Player) fetch(rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("stream request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("stream %s: %w", rawURL, &storage.StatusError{Code: resp.StatusCode})
	}
	return resp.Body, nil
}

func decodeFile(f *os.File, ext string) (*decoded, error) {
	d := &decoded{closer: f, ext: ext}
	var err error
	switch ext {
	case extMP3:
		d.streamer, d.format, err = decodeMP3(f)
	case extFLAC:
		// Some taggers prepend an ID3v2 tag the FLAC decoder rejects
		if err := skipID3v2(f); err != nil {
			return nil, err
		}
		d.streamer, d.format, err = flac.Decode(f)
	case extWAV:
		d.streamer, d.format, err = wav.Decode(f)
	case extOGG:
		d.streamer, d.format, err = decodeVorbis(f, f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(f.Name()), err)
	}
	return d, nil
}

// decodeStream decodes a non-seekable body. Seeking on the result fails
// silently and its length may be unknown.
func decodeStream(body io.ReadCloser, ext string) (*decoded, error) {
	d := &decoded{closer: body, ext: ext}
	var err error
	switch ext {
	case extMP3:
		d.streamer, d.format, err = mp3.Decode(body)
	case extFLAC:
		d.streamer, d.format, err = flac.Decode(body)
	case extWAV:
		d.streamer, d.format, err = wav.Decode(body)
	case extOGG:
		d.streamer, d.format, err = decodeVorbis(body, body)
	}
	if err != nil {
		return nil, fmt.Errorf("decode stream: %w", err)
	}
	return d, nil
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Syncsafe size: 7 bits per byte
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
