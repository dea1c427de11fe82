package audio

import (
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// bytesPerSample is the decoder's output frame size: 2 channels of
// 16-bit little-endian PCM.
const bytesPerSample = 4

// mp3Streamer adapts a go-mp3 decoder to a beep stream with seeking.
type mp3Streamer struct {
	dec    *gomp3.Decoder
	pos    int
	err    error
	buf    []byte
	closer io.Closer
}

func (s *mp3Streamer) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	want := len(samples) * bytesPerSample
	if cap(s.buf) < want {
		s.buf = make([]byte, want)
	}
	buf := s.buf[:want]

	read, err := io.ReadFull(s.dec, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err != io.EOF {
			s.err = err
		}
		if read == 0 {
			return 0, false
		}
	}

	n := read / bytesPerSample
	for i := 0; i < n; i++ {
		left := int16(uint16(buf[i*4]) | uint16(buf[i*4+1])<<8)
		right := int16(uint16(buf[i*4+2]) | uint16(buf[i*4+3])<<8)
		samples[i][0] = float64(left) / 32768
		samples[i][1] = float64(right) / 32768
	}
	s.pos += n
	return n, n > 0
}

func (s *mp3Streamer) Err() error {
	return s.err
}

func (s *mp3Streamer) Len() int {
	return int(s.dec.Length() / bytesPerSample)
}

func (s *mp3Streamer) Position() int {
	return s.pos
}

func (s *mp3Streamer) Seek(p int) error {
	if p < 0 {
		p = 0
	}
	if l := s.Len(); l > 0 && p > l {
		p = l
	}
	if _, err := s.dec.Seek(int64(p)*bytesPerSample, io.SeekStart); err != nil {
		return err
	}
	s.pos = p
	return nil
}

func (s *mp3Streamer) close() {
	if s.closer != nil {
		_ = s.closer.Close()
		s.closer = nil
	}
}
