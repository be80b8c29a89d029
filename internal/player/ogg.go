package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/jfreymuth/vorbis"
)

var (
	errOggCapture   = errors.New("ogg: invalid capture pattern")
	errOggVersion   = errors.New("ogg: unsupported version")
	errNotVorbis    = errors.New("ogg: not a vorbis stream")
	errNotSeekable  = errors.New("ogg: stream is not seekable")
	errShortHeaders = errors.New("ogg: incomplete vorbis headers")
)

const (
	oggHeaderSize    = 27
	oggFlagContinued = 0x01
	vorbisHeaders    = 3
)

// oggReader splits an Ogg bitstream into packets, joining packets that span
// pages.
type oggReader struct {
	r       io.Reader
	partial []byte
}

// next reads one page and returns the packets it completes together with
// its granule position.
func (o *oggReader) next() ([][]byte, int64, error) {
	var hdr [oggHeaderSize]byte
	if _, err := io.ReadFull(o.r, hdr[:]); err != nil {
		return nil, 0, err
	}
	if string(hdr[0:4]) != "OggS" {
		return nil, 0, errOggCapture
	}
	if hdr[4] != 0 {
		return nil, 0, errOggVersion
	}
	granule := int64(binary.LittleEndian.Uint64(hdr[6:14])) //nolint:gosec // -1 marks pages without a completed packet

	lacing := make([]byte, hdr[26])
	if _, err := io.ReadFull(o.r, lacing); err != nil {
		return nil, 0, err
	}
	size := 0
	for _, l := range lacing {
		size += int(l)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(o.r, body); err != nil {
		return nil, 0, err
	}

	pkt := o.partial
	o.partial = nil
	// After a seek the tail of a packet from an unread page is worthless.
	drop := hdr[5]&oggFlagContinued != 0 && pkt == nil

	var packets [][]byte
	pos := 0
	for _, l := range lacing {
		pkt = append(pkt, body[pos:pos+int(l)]...)
		pos += int(l)
		if l == 255 {
			continue
		}
		if drop {
			drop = false
		} else {
			packets = append(packets, pkt)
		}
		pkt = nil
	}
	if !drop {
		o.partial = pkt
	}
	return packets, granule, nil
}

// oggPageRef locates a page in a seekable stream.
type oggPageRef struct {
	offset  int64
	granule int64
}

// indexOggPages walks the page headers from the current position to the
// end, skipping bodies.
func indexOggPages(rs io.ReadSeeker) ([]oggPageRef, error) {
	offset, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	var pages []oggPageRef
	var hdr [oggHeaderSize]byte
	for {
		if _, err := io.ReadFull(rs, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return pages, nil
			}
			return nil, err
		}
		if string(hdr[0:4]) != "OggS" {
			return nil, errOggCapture
		}
		lacing := make([]byte, hdr[26])
		if _, err := io.ReadFull(rs, lacing); err != nil {
			return pages, nil //nolint:nilerr // truncated tail
		}
		size := int64(0)
		for _, l := range lacing {
			size += int64(l)
		}

		granule := int64(binary.LittleEndian.Uint64(hdr[6:14])) //nolint:gosec // -1 marks pages without a completed packet
		if granule >= 0 {
			pages = append(pages, oggPageRef{offset: offset, granule: granule})
		}

		offset += oggHeaderSize + int64(len(lacing)) + size
		if _, err := rs.Seek(offset, io.SeekStart); err != nil {
			return nil, err
		}
	}
}

// seekPoint returns where decoding must restart to reach sample p: the page
// after the last one ending at or before p, and the sample position that
// page starts at.
func seekPoint(pages []oggPageRef, dataStart int64, p int) (int64, int) {
	offset, start := dataStart, 0
	for i, pg := range pages {
		if pg.granule > int64(p) {
			break
		}
		if i+1 < len(pages) {
			offset, start = pages[i+1].offset, int(pg.granule)
		}
	}
	return offset, start
}

// vorbisStream decodes Ogg Vorbis into beep samples. Seeking needs a
// seekable source.
type vorbisStream struct {
	seeker io.ReadSeeker
	closer io.Closer
	pages  *oggReader
	dec    vorbis.Decoder

	channels  int
	dataStart int64
	index     []oggPageRef
	length    int

	queued  [][]byte
	pending []float32 // interleaved
	skip    int       // frames to drop after a seek
	pos     int
	err     error
}

// decodeVorbis reads the three Vorbis headers from r. When r is also an
// io.Seeker the pages are indexed for Len and Seek.
func decodeVorbis(r io.Reader, closer io.Closer) (beep.StreamSeekCloser, beep.Format, error) {
	s := &vorbisStream{closer: closer, pages: &oggReader{r: r}}

	var ident []byte
	headers := 0
	for headers < vorbisHeaders {
		packets, _, err := s.pages.next()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				err = errShortHeaders
			}
			return nil, beep.Format{}, err
		}
		for _, pkt := range packets {
			if headers == vorbisHeaders {
				s.queued = append(s.queued, pkt)
				continue
			}
			if headers == 0 {
				if len(pkt) < 16 || pkt[0] != 1 || string(pkt[1:7]) != "vorbis" {
					return nil, beep.Format{}, errNotVorbis
				}
				ident = pkt
			}
			if err := s.dec.ReadHeader(pkt); err != nil {
				return nil, beep.Format{}, fmt.Errorf("vorbis header: %w", err)
			}
			headers++
		}
	}

	s.channels = int(ident[11])
	rate := int(binary.LittleEndian.Uint32(ident[12:16]))
	if s.channels == 0 || rate == 0 {
		return nil, beep.Format{}, errNotVorbis
	}

	if rs, ok := r.(io.ReadSeeker); ok {
		if err := s.indexPages(rs); err != nil {
			return nil, beep.Format{}, err
		}
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: min(s.channels, 2),
		Precision:   2,
	}
	return s, format, nil
}

func (s *vorbisStream) indexPages(rs io.ReadSeeker) error {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	index, err := indexOggPages(rs)
	if err != nil {
		return err
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return err
	}

	s.seeker = rs
	s.dataStart = start
	s.index = index
	if len(index) > 0 {
		s.length = int(index[len(index)-1].granule)
	}
	return nil
}

func (s *vorbisStream) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) {
		if len(s.pending) == 0 {
			if !s.refill() {
				break
			}
			continue
		}

		frames := len(s.pending) / s.channels
		if frames == 0 {
			s.pending = nil
			continue
		}
		if s.skip > 0 {
			drop := min(s.skip, frames)
			s.pending = s.pending[drop*s.channels:]
			s.skip -= drop
			continue
		}

		take := min(frames, len(samples)-n)
		for i := range take {
			frame := s.pending[i*s.channels:]
			left, right := frame[0], frame[0]
			if s.channels > 1 {
				right = frame[1]
			}
			samples[n+i] = [2]float64{float64(left), float64(right)}
		}
		s.pending = s.pending[take*s.channels:]
		n += take
		s.pos += take
	}
	return n, n > 0
}

// refill decodes the next packet into pending. It reports false at the end
// of the stream or on a read error.
func (s *vorbisStream) refill() bool {
	for len(s.queued) == 0 {
		packets, _, err := s.pages.next()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				s.err = err
			}
			return false
		}
		s.queued = packets
	}

	pkt := s.queued[0]
	s.queued = s.queued[1:]
	out, err := s.dec.Decode(pkt)
	if err != nil {
		return true // corrupt packets are skipped
	}
	s.pending = out
	return true
}

func (s *vorbisStream) Err() error { return s.err }

func (s *vorbisStream) Len() int { return s.length }

func (s *vorbisStream) Position() int { return s.pos }

// Seek restarts decoding at the page holding sample p and drops the
// samples before it.
func (s *vorbisStream) Seek(p int) error {
	if s.seeker == nil {
		return errNotSeekable
	}
	p = min(max(p, 0), s.length)

	offset, start := seekPoint(s.index, s.dataStart, p)
	if _, err := s.seeker.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	s.dec.Clear()
	s.pages.partial = nil
	s.queued = nil
	s.pending = nil
	s.skip = p - start
	s.pos = p
	s.err = nil
	return nil
}

func (s *vorbisStream) Close() error { return s.closer.Close() }
