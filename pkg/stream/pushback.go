package stream

import "io"

var (
	_ Source         = (*PushbackSource)(nil)
	_ io.ByteScanner = (*PushbackSource)(nil)
)

// PushbackSource wraps a Source and lets callers push bytes back in front of
// it. Any bytes may be pushed back, in any amount, whether or not they were
// read before.
//
// Pushed-back bytes behave as a stack of Unget operations: the most recent
// Unget is read first, and each Unget reads back in its original order.
type PushbackSource struct {
	src Source
	// stack holds pushed-back bytes in reverse; the next byte to read is
	// the last element.
	stack []byte
	// last is the byte returned by the previous ReadByte, or -1.
	last int
	// err is an error from src held back so ReadByte could return the byte
	// read along with it.
	err error
}

// NewPushbackSource returns a PushbackSource reading from src.
//
// The PushbackSource borrows src; src must outlive it.
func NewPushbackSource(src Source) *PushbackSource {
	return &PushbackSource{src: src, last: -1}
}

// Unget pushes p back so that the next reads return p before anything else.
func (s *PushbackSource) Unget(p []byte) {
	for i := len(p) - 1; i >= 0; i-- {
		s.stack = append(s.stack, p[i])
	}
	s.last = -1
}

// Read drains pushed-back bytes into p first and reads the rest of p from
// the wrapped source.
func (s *PushbackSource) Read(p []byte) (int, error) {
	s.last = -1
	n := 0
	for n < len(p) && len(s.stack) > 0 {
		top := len(s.stack) - 1
		p[n] = s.stack[top]
		s.stack = s.stack[:top]
		n++
	}
	if n == len(p) {
		return n, nil
	}
	if s.err != nil {
		if n > 0 {
			return n, nil
		}
		err := s.err
		s.err = nil
		return 0, err
	}
	m, err := s.src.Read(p[n:])
	return n + m, err
}

// ReadByte returns the next byte. At end-of-data it returns io.EOF, as
// io.ByteReader requires.
func (s *PushbackSource) ReadByte() (byte, error) {
	var b [1]byte
	n, err := s.Read(b[:])
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	if err != nil {
		// Reported by the next read.
		s.err = err
	}
	s.last = int(b[0])
	return b[0], nil
}

// UnreadByte pushes back the byte returned by the previous ReadByte.
func (s *PushbackSource) UnreadByte() error {
	if s.last < 0 {
		return ErrNoUnread
	}
	s.stack = append(s.stack, byte(s.last))
	s.last = -1
	return nil
}

// Pending returns the number of pushed-back bytes not yet read.
func (s *PushbackSource) Pending() int { return len(s.stack) }
