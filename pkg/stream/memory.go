package stream

var (
	_ Sink   = (*SpanSink)(nil)
	_ Sink   = (*BytesSink)(nil)
	_ Source = (*BytesSource)(nil)
)

// SpanSink writes into a caller-provided fixed span of memory.
//
// Once the span is used up, Write transfers what fits and returns
// ErrSinkFull along with the short count.
type SpanSink struct {
	free []byte
}

// NewSpanSink returns a SpanSink that writes into span from the start.
func NewSpanSink(span []byte) *SpanSink {
	return &SpanSink{free: span}
}

// Write copies as much of p as fits into the unused part of the span.
func (s *SpanSink) Write(p []byte) (int, error) {
	n := copy(s.free, p)
	s.free = s.free[n:]
	if n < len(p) {
		return n, ErrSinkFull
	}
	return n, nil
}

// Flush is a no-op.
func (s *SpanSink) Flush() error { return nil }

// Unused returns the part of the span that has not been written yet.
func (s *SpanSink) Unused() []byte { return s.free }

// BytesSink is a growable in-memory sink. The zero value is ready to use.
type BytesSink struct {
	buf []byte
}

// Write appends p. It always succeeds.
func (s *BytesSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Flush is a no-op.
func (s *BytesSink) Flush() error { return nil }

// Bytes returns the bytes written so far. The slice aliases the sink's
// storage and is only valid until the next Write or Reset.
func (s *BytesSink) Bytes() []byte { return s.buf }

// String returns the bytes written so far as a string.
func (s *BytesSink) String() string { return string(s.buf) }

// Len returns the number of bytes written so far.
func (s *BytesSink) Len() int { return len(s.buf) }

// Reset discards the contents but keeps the allocated storage.
func (s *BytesSink) Reset() { s.buf = s.buf[:0] }

// BytesSource reads from a byte slice.
type BytesSource struct {
	remaining []byte
}

// NewBytesSource returns a source that yields the bytes of b. b is not
// copied and must not be modified while the source is in use.
func NewBytesSource(b []byte) *BytesSource {
	return &BytesSource{remaining: b}
}

// NewStringSource returns a source that yields the bytes of s.
func NewStringSource(s string) *BytesSource {
	return &BytesSource{remaining: []byte(s)}
}

// Read copies up to len(p) unread bytes into p.
func (s *BytesSource) Read(p []byte) (int, error) {
	n := copy(p, s.remaining)
	s.remaining = s.remaining[n:]
	return n, nil
}

// Len returns the number of unread bytes.
func (s *BytesSource) Len() int { return len(s.remaining) }
