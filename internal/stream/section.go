// Package stream provides bounded views over random-access byte sources.
//
// A Section restricts all reads and seeks to a byte range of an
// underlying Source, translating offsets so the range looks like a
// standalone stream. Sections hand the Source back via Release so two
// views over the same handle can be built one after the other without
// aliasing it.
package stream

import (
	"errors"
	"fmt"
	"io"
)

// Source provides random access to the underlying bytes.
//
// Implementations exist for local files, in-memory buffers
// (*bytes.Reader) and HTTP range requests.
type Source interface {
	io.ReaderAt
	Size() int64
}

// ErrReleased is returned by Section operations after Release has
// handed the Source back.
var ErrReleased = errors.New("stream: section released")

// Bound marks the upper edge of a Section. The zero value is open:
// the section extends to the end of the source.
type Bound struct {
	off    int64
	closed bool
}

// BoundAt returns a bound closed at the given offset into the source.
func BoundAt(off int64) Bound {
	return Bound{off: off, closed: true}
}

// Unbounded returns an open bound.
func Unbounded() Bound {
	return Bound{}
}

// Section is a byte-range view over a Source.
//
// Offsets passed to Read, Seek and ReadAt are relative to the start of
// the range. Reads never observe bytes outside the range; seeks are
// clamped into it rather than failing.
type Section struct {
	src   Source
	start int64
	end   int64
	pos   int64
}

// Interface compliance.
var (
	_ io.Reader   = (*Section)(nil)
	_ io.Seeker   = (*Section)(nil)
	_ io.ReaderAt = (*Section)(nil)
)

// NewSection returns a view over src restricted to [start, limit).
// An open limit extends the view to the end of the source. The range
// is clamped to the physical size of src, so a limit past the end is
// equivalent to an open one.
func NewSection(src Source, start int64, limit Bound) *Section {
	end := src.Size()
	if limit.closed && limit.off < end {
		end = limit.off
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return &Section{src: src, start: start, end: end, pos: start}
}

// Offset reports the start of the section within the source.
func (s *Section) Offset() int64 {
	return s.start
}

// Size reports the length of the section in bytes.
func (s *Section) Size() int64 {
	return s.end - s.start
}

// Read reads up to len(p) bytes at the current position, never past
// the section's end. At the end it returns 0, io.EOF.
func (s *Section) Read(p []byte) (int, error) {
	if s.src == nil {
		return 0, ErrReleased
	}
	remaining := s.end - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := s.src.ReadAt(p, s.pos)
	s.pos += int64(n)
	if err == io.EOF && n > 0 {
		// The next Read reports EOF via the range check.
		err = nil
	}
	return n, err
}

// Seek sets the position relative to the start, the current position
// or the end of the section. Results are clamped into the section
// rather than failing, matching typical stream seek tolerance.
func (s *Section) Seek(offset int64, whence int) (int64, error) {
	if s.src == nil {
		return 0, ErrReleased
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = s.start + offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		abs = s.end + offset
	default:
		return 0, fmt.Errorf("stream: invalid whence %d", whence)
	}
	abs = min(max(abs, s.start), s.end)
	s.pos = abs
	return abs - s.start, nil
}

// ReadAt reads len(p) bytes at off within the section without moving
// the current position. Reads that would cross the section's end are
// truncated and report io.EOF, per the io.ReaderAt contract.
func (s *Section) ReadAt(p []byte, off int64) (int, error) {
	if s.src == nil {
		return 0, ErrReleased
	}
	if off < 0 {
		return 0, fmt.Errorf("stream: read at %d: negative offset", off)
	}
	abs := s.start + off
	remaining := s.end - abs
	if remaining <= 0 {
		return 0, io.EOF
	}
	want := len(p)
	if int64(want) > remaining {
		p = p[:remaining]
	}
	n, err := s.src.ReadAt(p, abs)
	if err == nil && n < want {
		err = io.EOF
	}
	return n, err
}

// Release hands the underlying Source back so a different Section can
// be built over it. The Section is unusable afterwards; at any instant
// exactly one owner holds the Source.
func (s *Section) Release() Source {
	src := s.src
	s.src = nil
	return src
}
