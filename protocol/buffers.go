package protocol

import "errors"

// ErrTruncated is returned when encoded output did not fit the scratch
// buffer.
var ErrTruncated = errors.New("output truncated")

// OutputBuffer receives encoded protocol bytes.
type OutputBuffer interface {
	Output(data []byte)
	CurPosition() int
	// DataSince returns what was written after pos.
	DataSince(pos int) []byte
}

// ScratchOutput is a fixed OutputBuffer so the firmware can build reports
// and frames without allocating. Bytes past MessageMax are discarded and
// the buffer remembers that it overflowed until Reset.
type ScratchOutput struct {
	buf       [MessageMax]byte
	pos       int
	truncated bool
}

func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
	if n < len(data) {
		s.truncated = true
	}
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos < 0 || pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns everything written since the last Reset.
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Err reports ErrTruncated if any Output call was cut short.
func (s *ScratchOutput) Err() error {
	if s.truncated {
		return ErrTruncated
	}
	return nil
}

func (s *ScratchOutput) Reset() {
	s.pos = 0
	s.truncated = false
}

// RxBufferSize holds four maximum length frames.
const RxBufferSize = 4 * MessageLengthMax

// RxBuffer collects received bytes until whole frames can be taken off the
// front. Unread bytes always sit in one contiguous run; Write slides them
// to the start of the array when the tail runs out of room.
type RxBuffer struct {
	buf        [RxBufferSize]byte
	start, end int
}

// Write appends as much of data as fits and returns the count taken.
func (r *RxBuffer) Write(data []byte) int {
	if r.end+len(data) > len(r.buf) && r.start > 0 {
		r.end = copy(r.buf[:], r.buf[r.start:r.end])
		r.start = 0
	}
	n := copy(r.buf[r.end:], data)
	r.end += n
	return n
}

// Len is the number of unread bytes.
func (r *RxBuffer) Len() int {
	return r.end - r.start
}

// Free is how many bytes the next Write can take.
func (r *RxBuffer) Free() int {
	return len(r.buf) - r.Len()
}

// Data returns the unread bytes. The slice is only valid until the next
// Write or Pop.
func (r *RxBuffer) Data() []byte {
	return r.buf[r.start:r.end]
}

// Pop discards up to n bytes from the front.
func (r *RxBuffer) Pop(n int) {
	if n >= r.Len() {
		r.Reset()
		return
	}
	r.start += n
}

func (r *RxBuffer) Reset() {
	r.start = 0
	r.end = 0
}
