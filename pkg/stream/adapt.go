package stream

import (
	"errors"
	"io"
)

// FromReader adapts an io.Reader to a Source.
//
// Each Read keeps reading from r until p is full or r reports io.EOF, so a
// reader that returns small chunks still fills requests completely. io.EOF
// and io.ErrUnexpectedEOF become a short count; other errors are returned as
// *ReadError.
func FromReader(r io.Reader) Source {
	if s, ok := r.(*sourceReader); ok {
		return s.src
	}
	return &readerSource{r: r}
}

type readerSource struct {
	r   io.Reader
	eof bool
}

func (s *readerSource) Read(p []byte) (int, error) {
	if s.eof || len(p) == 0 {
		return 0, nil
	}
	n, err := io.ReadFull(s.r, p)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.eof = true
		return n, nil
	default:
		return n, &ReadError{Target: "reader", N: n, Err: err}
	}
}

// AsReader adapts a Source to an io.Reader. It returns io.EOF once the
// source yields no bytes for a non-empty request.
func AsReader(src Source) io.Reader {
	if s, ok := src.(*readerSource); ok {
		return s.r
	}
	return &sourceReader{src: src}
}

type sourceReader struct {
	src Source
}

func (r *sourceReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := r.src.Read(p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// flusher is implemented by writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// FromWriter adapts an io.Writer to a Sink. Flush calls w.Flush when w has
// one and is a no-op otherwise.
func FromWriter(w io.Writer) Sink {
	if s, ok := w.(Sink); ok {
		return s
	}
	return &writerSink{w: w}
}

type writerSink struct {
	w io.Writer
}

func (s *writerSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n, &WriteError{Target: "writer", N: n, Err: err}
	}
	return n, nil
}

func (s *writerSink) Flush() error {
	f, ok := s.w.(flusher)
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		return &FlushError{Target: "writer", Err: err}
	}
	return nil
}

// AsWriter returns sink as an io.Writer. Every Sink already satisfies
// io.Writer; AsWriter exists for symmetry with AsReader.
func AsWriter(sink Sink) io.Writer {
	return sink
}

// TransformSink applies a byte mapping to everything written and passes the
// result to the wrapped sink. It keeps no buffer of its own, so Flush only
// flushes the wrapped sink.
type TransformSink struct {
	sink Sink
	fn   func(byte) byte
	out  []byte
}

var _ Sink = (*TransformSink)(nil)

// NewTransformSink returns a sink that writes fn(b) to sink for every byte b.
func NewTransformSink(sink Sink, fn func(byte) byte) *TransformSink {
	return &TransformSink{sink: sink, fn: fn}
}

// Write maps p and writes the result downstream. The returned count refers
// to bytes of p.
func (t *TransformSink) Write(p []byte) (int, error) {
	t.out = t.out[:0]
	for _, b := range p {
		t.out = append(t.out, t.fn(b))
	}
	return t.sink.Write(t.out)
}

// Flush flushes the wrapped sink.
func (t *TransformSink) Flush() error {
	return t.sink.Flush()
}

// Upper maps ASCII lowercase letters to uppercase.
func Upper(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
