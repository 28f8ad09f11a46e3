package stream

import (
	"errors"
	"fmt"
	"io"
)

// DefaultBufferSize is the capacity used by NewBufferedSink and
// NewBufferedSource when a non-positive size is given.
const DefaultBufferSize = 1024

// Sentinel errors.
var (
	// ErrClosed is returned by operations on a stream after Close.
	ErrClosed = errors.New("stream: closed")

	// ErrNotFixedSize is returned by PutFixed and GetFixed for values that
	// have no fixed binary size (slices, strings, maps, pointers).
	ErrNotFixedSize = errors.New("stream: value has no fixed size")

	// ErrNoUnread is returned by PushbackSource.UnreadByte when the previous
	// operation was not a successful ReadByte.
	ErrNoUnread = errors.New("stream: no byte to unread")

	// ErrSinkFull is returned by SpanSink when its span has no room left for
	// the bytes being written.
	ErrSinkFull = errors.New("stream: sink full")
)

// Sink is the write side of a stream.
//
// Write transfers all of p or returns a non-nil error explaining why it
// transferred fewer bytes. It never drops bytes silently.
//
// Flush pushes any data buffered inside the implementation toward its
// downstream. Implementations without internal buffering return nil.
type Sink interface {
	Write(p []byte) (n int, err error)
	Flush() error
}

// Source is the read side of a stream.
//
// Read fills as much of p as data allows and returns the number of bytes
// filled. A count below len(p) with a nil error signals end-of-data for that
// call, not a failure. A drained source keeps returning 0. A non-nil error
// means a genuine I/O failure.
type Source interface {
	Read(p []byte) (n int, err error)
}

// SinkCloser is a Sink that owns a resource released by Close.
type SinkCloser interface {
	Sink
	io.Closer
}

// SourceCloser is a Source that owns a resource released by Close.
type SourceCloser interface {
	Source
	io.Closer
}

// Seeker is an optional capability of concrete sinks and sources that
// support random access. The decorators in this package do not provide it.
type Seeker interface {
	Seek(offset int64, whence int) (int64, error)
	Tell() (int64, error)
}

// WriteError reports a failed write to an underlying resource.
type WriteError struct {
	// Target names the resource, e.g. a file path or command.
	Target string
	// N is the number of bytes transferred before the failure.
	N   int
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("stream: write %s: %v", e.Target, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FlushError reports a failed flush of an underlying resource.
type FlushError struct {
	Target string
	Err    error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("stream: flush %s: %v", e.Target, e.Err)
}

func (e *FlushError) Unwrap() error { return e.Err }

// ReadError reports a failed read from an underlying resource. It is never
// used for ordinary end-of-data.
type ReadError struct {
	Target string
	N      int
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("stream: read %s: %v", e.Target, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
