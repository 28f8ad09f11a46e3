package osstream

import (
	"os"

	"github.com/fisherro/streams/pkg/stream"
)

var (
	_ stream.Sink   = (*StdSink)(nil)
	_ stream.Source = (*StdSource)(nil)
)

// StdSink writes to a file handle it does not own, such as os.Stdout.
type StdSink struct {
	name string
	f    *os.File
}

// NewStdSink wraps f. The caller keeps ownership of f.
func NewStdSink(f *os.File, name string) *StdSink {
	return &StdSink{name: name, f: f}
}

// Name returns the name given to NewStdSink.
func (s *StdSink) Name() string { return s.name }

// Write writes all of p to the handle.
func (s *StdSink) Write(p []byte) (int, error) {
	n, err := s.f.Write(p)
	if err != nil {
		return n, &stream.WriteError{Target: s.name, N: n, Err: err}
	}
	return n, nil
}

// Flush is a no-op: os.File keeps no user-space buffer, and terminals and
// pipes cannot be synced.
func (s *StdSink) Flush() error { return nil }

// StdSource reads from a file handle it does not own, such as os.Stdin.
type StdSource struct {
	name string
	f    *os.File
}

// NewStdSource wraps f. The caller keeps ownership of f.
func NewStdSource(f *os.File, name string) *StdSource {
	return &StdSource{name: name, f: f}
}

// Name returns the name given to NewStdSource.
func (s *StdSource) Name() string { return s.name }

// Read fills p from the handle, blocking until p is full or the handle
// reaches end of input.
func (s *StdSource) Read(p []byte) (int, error) {
	return readFull(s.f, p, s.name)
}

// The standard streams.
var (
	Stdout = NewStdSink(os.Stdout, "stdout")
	Stderr = NewStdSink(os.Stderr, "stderr")
	Stdin  = NewStdSource(os.Stdin, "stdin")
)
