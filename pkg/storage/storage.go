// Package storage defines the Store interface for named byte streams. It
// abstracts the backend so that callers can swap between local disk, an
// embedded key-value database, or memory without changing how they read
// and write.
//
// Sinks returned by Create publish their contents on Close; a sink that is
// never closed leaves the previous contents of the name in place.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/fisherro/streams/pkg/stream"
)

// ErrInvalidName is returned for names that are empty, absolute, or that
// escape the store root.
var ErrInvalidName = errors.New("storage: invalid name")

// Store opens named streams.
//
// Names are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type Store interface {
	// Create opens name for writing. With appending set, writes add to the
	// existing contents; otherwise the contents are replaced when the sink
	// is closed.
	Create(ctx context.Context, name string, appending bool) (stream.SinkCloser, error)

	// Open opens name for reading. If name does not exist, an error
	// wrapping fs.ErrNotExist is returned.
	Open(ctx context.Context, name string) (stream.SourceCloser, error)

	// Remove deletes name. Removing a missing name returns nil.
	Remove(ctx context.Context, name string) error

	// Exists reports whether name exists.
	Exists(ctx context.Context, name string) (bool, error)
}

// cleanName validates name and returns it in canonical form.
func cleanName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return clean, nil
}

// Abort discards a sink returned by Create without publishing it. Sinks
// that cannot discard, such as appending local files, are closed instead.
func Abort(w stream.SinkCloser) error {
	if a, ok := w.(interface{ Abort() error }); ok {
		return a.Abort()
	}
	return w.Close()
}

func notExist(name string) error {
	return fmt.Errorf("storage: open %s: %w", name, fs.ErrNotExist)
}

// memorySource serves a stored value. Close only marks it closed.
type memorySource struct {
	*stream.BytesSource
	closed bool
}

func (s *memorySource) Read(p []byte) (int, error) {
	if s.closed {
		return 0, stream.ErrClosed
	}
	return s.BytesSource.Read(p)
}

func (s *memorySource) Close() error {
	s.closed = true
	return nil
}

// commitSink collects writes in memory and hands the whole value to commit
// on Close.
type commitSink struct {
	buf    stream.BytesSink
	commit func([]byte) error
	closed bool
}

func (s *commitSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, stream.ErrClosed
	}
	return s.buf.Write(p)
}

// Flush is a no-op; contents become visible on Close.
func (s *commitSink) Flush() error {
	if s.closed {
		return stream.ErrClosed
	}
	return nil
}

// Abort drops the collected bytes.
func (s *commitSink) Abort() error {
	s.closed = true
	s.buf.Reset()
	return nil
}

func (s *commitSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.commit(s.buf.Bytes())
}
