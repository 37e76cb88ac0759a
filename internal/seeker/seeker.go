// Package seeker implements a forward-only, position-tracked reader over a
// byte stream, with little-endian primitive decoders. It's the low-level
// cursor a File Processor drives while walking a data file's blocks.
package seeker

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrTruncated means the stream ended before a primitive or an advance
// could be satisfied.
var ErrTruncated = errors.New("seeker: truncated stream")

// Seeker reads little-endian primitives off an io.Reader while tracking an
// absolute byte position. It never reads backward: AdvanceTo may only move
// forward, and attempting to move it backward is a programming error.
type Seeker struct {
	r        *bufio.Reader
	position uint64
}

// New wraps r in a Seeker starting at position 0.
func New(r io.Reader) *Seeker {
	return &Seeker{r: bufio.NewReaderSize(r, 64*1024)}
}

// Position returns the current absolute byte offset.
func (s *Seeker) Position() uint64 { return s.position }

func wrapShortRead(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}

// U8 reads one byte.
func (s *Seeker) U8() (uint8, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, wrapShortRead(err)
	}
	s.position++
	return b, nil
}

func (s *Seeker) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, wrapShortRead(err)
	}
	s.position += uint64(n)
	return buf, nil
}

// U32 reads a little-endian uint32.
func (s *Seeker) U32() (uint32, error) {
	buf, err := s.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// U64 reads a little-endian uint64.
func (s *Seeker) U64() (uint64, error) {
	buf, err := s.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// F64 reads a little-endian IEEE-754 double.
func (s *Seeker) F64() (float64, error) {
	v, err := s.U64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// AdvanceTo discards bytes until the Seeker's position equals offset. offset
// must be >= the current position; advancing to the current position is a
// no-op. Seeking backward panics, matching the append-only, single-pass
// nature of the data files this reads.
func (s *Seeker) AdvanceTo(offset uint64) error {
	if offset < s.position {
		panic(fmt.Sprintf("seeker: cannot advance backward: %d < %d", offset, s.position))
	}
	remaining := offset - s.position
	n, err := io.CopyN(io.Discard, s.r, int64(remaining))
	s.position += uint64(n)
	if err != nil {
		return wrapShortRead(err)
	}
	return nil
}
