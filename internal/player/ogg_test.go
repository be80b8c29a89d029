package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// oggPage builds a raw page with the given lacing values and a body filled
// with fill.
func oggPage(flags byte, granule int64, lacing []byte, fill byte) []byte {
	size := 0
	for _, l := range lacing {
		size += int(l)
	}
	hdr := make([]byte, oggHeaderSize)
	copy(hdr, "OggS")
	hdr[5] = flags
	binary.LittleEndian.PutUint64(hdr[6:14], uint64(granule)) //nolint:gosec // test data
	hdr[26] = byte(len(lacing))

	page := append(hdr, lacing...)
	return append(page, bytes.Repeat([]byte{fill}, size)...)
}

func TestOggReader_JoinsPacketsAcrossPages(t *testing.T) {
	var data []byte
	data = append(data, oggPage(0, -1, []byte{10, 255}, 'a')...)
	data = append(data, oggPage(oggFlagContinued, 4096, []byte{5}, 'b')...)
	o := &oggReader{r: bytes.NewReader(data)}

	packets, granule, err := o.next()
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(packets) != 1 || len(packets[0]) != 10 {
		t.Fatalf("first page packets = %d, want one 10-byte packet", len(packets))
	}
	if granule != -1 {
		t.Errorf("granule = %d, want -1", granule)
	}

	packets, granule, err = o.next()
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(packets) != 1 || len(packets[0]) != 260 {
		t.Fatalf("second page packets = %v, want one 260-byte packet", len(packets))
	}
	if packets[0][254] != 'a' || packets[0][255] != 'b' {
		t.Error("joined packet should hold the first page's tail followed by the second page")
	}
	if granule != 4096 {
		t.Errorf("granule = %d, want 4096", granule)
	}
}

func TestOggReader_DropsOrphanedContinuation(t *testing.T) {
	o := &oggReader{r: bytes.NewReader(oggPage(oggFlagContinued, 100, []byte{5, 3}, 'x'))}

	packets, _, err := o.next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(packets) != 1 || len(packets[0]) != 3 {
		t.Errorf("packets = %d, want only the 3-byte packet", len(packets))
	}
}

func TestOggReader_BadHeader(t *testing.T) {
	bad := oggPage(0, 0, []byte{1}, 'x')
	copy(bad, "OggX")
	if _, _, err := (&oggReader{r: bytes.NewReader(bad)}).next(); !errors.Is(err, errOggCapture) {
		t.Errorf("bad capture: err = %v, want errOggCapture", err)
	}

	version := oggPage(0, 0, []byte{1}, 'x')
	version[4] = 1
	if _, _, err := (&oggReader{r: bytes.NewReader(version)}).next(); !errors.Is(err, errOggVersion) {
		t.Errorf("bad version: err = %v, want errOggVersion", err)
	}
}

func TestIndexOggPages(t *testing.T) {
	first := oggPage(0, -1, []byte{20}, 'a')
	second := oggPage(0, 1000, []byte{30}, 'b')
	third := oggPage(0, 2000, []byte{40, 2}, 'c')

	var data []byte
	data = append(data, first...)
	data = append(data, second...)
	data = append(data, third...)

	pages, err := indexOggPages(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("indexOggPages: %v", err)
	}
	want := []oggPageRef{
		{offset: int64(len(first)), granule: 1000},
		{offset: int64(len(first) + len(second)), granule: 2000},
	}
	if len(pages) != len(want) {
		t.Fatalf("pages = %+v, want %+v", pages, want)
	}
	for i := range want {
		if pages[i] != want[i] {
			t.Errorf("pages[%d] = %+v, want %+v", i, pages[i], want[i])
		}
	}
}

func TestIndexOggPages_TruncatedTail(t *testing.T) {
	data := oggPage(0, 500, []byte{10}, 'a')
	data = append(data, "OggS"...)

	pages, err := indexOggPages(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("indexOggPages: %v", err)
	}
	if len(pages) != 1 || pages[0].granule != 500 {
		t.Errorf("pages = %+v, want the one complete page", pages)
	}
}

func TestSeekPoint(t *testing.T) {
	pages := []oggPageRef{
		{offset: 100, granule: 0},
		{offset: 200, granule: 1000},
		{offset: 300, granule: 2000},
	}

	tests := []struct {
		name       string
		pages      []oggPageRef
		p          int
		wantOffset int64
		wantStart  int
	}{
		{"no index", nil, 500, 50, 0},
		{"first audio page", pages, 500, 200, 0},
		{"page boundary", pages, 1000, 300, 1000},
		{"middle", pages, 1500, 300, 1000},
		{"past the end", pages, 2500, 300, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, start := seekPoint(tt.pages, 50, tt.p)
			if offset != tt.wantOffset || start != tt.wantStart {
				t.Errorf("seekPoint(%d) = (%d, %d), want (%d, %d)",
					tt.p, offset, start, tt.wantOffset, tt.wantStart)
			}
		})
	}
}

func TestDecodeVorbis_Rejects(t *testing.T) {
	if _, _, err := decodeVorbis(bytes.NewReader(nil), nopCloser{}); !errors.Is(err, errShortHeaders) {
		t.Errorf("empty stream: err = %v, want errShortHeaders", err)
	}

	notVorbis := oggPage(0, 0, []byte{30}, 'z')
	if _, _, err := decodeVorbis(bytes.NewReader(notVorbis), nopCloser{}); !errors.Is(err, errNotVorbis) {
		t.Errorf("foreign stream: err = %v, want errNotVorbis", err)
	}
}

func TestVorbisStream_SkipsAfterSeek(t *testing.T) {
	s := &vorbisStream{
		channels: 2,
		pages:    &oggReader{r: bytes.NewReader(nil)},
		pending:  []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
		skip:     1,
		pos:      10,
	}

	samples := make([][2]float64, 4)
	n, ok := s.Stream(samples)
	if !ok || n != 2 {
		t.Fatalf("Stream() = (%d, %v), want (2, true)", n, ok)
	}
	if samples[0] != [2]float64{float64(float32(0.3)), float64(float32(0.4))} {
		t.Errorf("first frame = %v, want the second decoded frame", samples[0])
	}
	if s.Position() != 12 {
		t.Errorf("Position() = %d, want 12", s.Position())
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil at end of stream", s.Err())
	}
}

func TestVorbisStream_MonoDuplicated(t *testing.T) {
	s := &vorbisStream{
		channels: 1,
		pages:    &oggReader{r: bytes.NewReader(nil)},
		pending:  []float32{0.5},
	}
	samples := make([][2]float64, 1)
	if n, _ := s.Stream(samples); n != 1 {
		t.Fatalf("Stream() n = %d, want 1", n)
	}
	if samples[0][0] != 0.5 || samples[0][1] != 0.5 {
		t.Errorf("mono frame = %v, want both channels 0.5", samples[0])
	}
}

func TestVorbisStream_SeekNeedsSeeker(t *testing.T) {
	s := &vorbisStream{}
	if err := s.Seek(10); !errors.Is(err, errNotSeekable) {
		t.Errorf("Seek() = %v, want errNotSeekable", err)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
