// Package osstream provides sinks and sources backed by operating system
// resources: files, memory-mapped files, standard streams and subprocess
// pipes.
//
// Each type holds its handle directly and implements stream.Sink or
// stream.Source itself. Types that own a handle must be closed, usually with
// defer, to release it.
package osstream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fisherro/streams/pkg/stream"
)

var (
	_ stream.SinkCloser   = (*FileSink)(nil)
	_ stream.Seeker       = (*FileSink)(nil)
	_ stream.SourceCloser = (*FileSource)(nil)
	_ stream.Seeker       = (*FileSource)(nil)
)

// DefaultPerm is the permission used for files created by CreateFile when
// FileOptions.Perm is zero.
const DefaultPerm os.FileMode = 0o644

// FileOptions configures CreateFile.
type FileOptions struct {
	// Append adds to the end of an existing file instead of truncating it.
	Append bool

	// Perm is the permission for a newly created file. Default is
	// DefaultPerm if zero.
	Perm os.FileMode
}

func (o FileOptions) flags() int {
	flags := os.O_CREATE | os.O_WRONLY
	if o.Append {
		return flags | os.O_APPEND
	}
	return flags | os.O_TRUNC
}

func (o FileOptions) perm() os.FileMode {
	if o.Perm != 0 {
		return o.Perm
	}
	return DefaultPerm
}

// FileSink writes to a file it owns.
type FileSink struct {
	name string
	f    *os.File
}

// CreateFile opens path for writing, creating it if necessary.
func CreateFile(path string, opts FileOptions) (*FileSink, error) {
	f, err := os.OpenFile(path, opts.flags(), opts.perm())
	if err != nil {
		return nil, fmt.Errorf("osstream: create %s: %w", path, err)
	}
	return &FileSink{name: path, f: f}, nil
}

// Name returns the path the sink writes to.
func (s *FileSink) Name() string { return s.name }

// Write writes all of p to the file.
func (s *FileSink) Write(p []byte) (int, error) {
	if s.f == nil {
		return 0, stream.ErrClosed
	}
	n, err := s.f.Write(p)
	if err != nil {
		return n, &stream.WriteError{Target: s.name, N: n, Err: err}
	}
	return n, nil
}

// Flush commits the file contents to stable storage.
func (s *FileSink) Flush() error {
	if s.f == nil {
		return stream.ErrClosed
	}
	if err := s.f.Sync(); err != nil {
		return &stream.FlushError{Target: s.name, Err: err}
	}
	return nil
}

// Seek sets the offset for the next Write, as os.File.Seek does. It has no
// effect on where data lands when the file was opened in append mode.
func (s *FileSink) Seek(offset int64, whence int) (int64, error) {
	if s.f == nil {
		return 0, stream.ErrClosed
	}
	return s.f.Seek(offset, whence)
}

// Tell returns the current write offset.
func (s *FileSink) Tell() (int64, error) {
	return s.Seek(0, io.SeekCurrent)
}

// Close syncs and closes the file. The handle is released even if the sync
// fails. Calling Close more than once is a no-op.
func (s *FileSink) Close() error {
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil
	syncErr := f.Sync()
	closeErr := f.Close()
	if closeErr != nil {
		return fmt.Errorf("osstream: close %s: %w", s.name, closeErr)
	}
	if syncErr != nil {
		return &stream.FlushError{Target: s.name, Err: syncErr}
	}
	return nil
}

// FileSource reads from a file it owns.
type FileSource struct {
	name string
	f    *os.File
}

// OpenFile opens path for reading. Directories are rejected.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("osstream: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("osstream: stat %s: %w", path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("osstream: %s is a directory", path)
	}
	return &FileSource{name: path, f: f}, nil
}

// Name returns the path the source reads from.
func (s *FileSource) Name() string { return s.name }

// Read fills p from the file. A short count means the end of the file.
func (s *FileSource) Read(p []byte) (int, error) {
	if s.f == nil {
		return 0, stream.ErrClosed
	}
	return readFull(s.f, p, s.name)
}

// Seek sets the offset for the next Read.
func (s *FileSource) Seek(offset int64, whence int) (int64, error) {
	if s.f == nil {
		return 0, stream.ErrClosed
	}
	return s.f.Seek(offset, whence)
}

// Tell returns the current read offset.
func (s *FileSource) Tell() (int64, error) {
	return s.Seek(0, io.SeekCurrent)
}

// Close closes the file. Calling Close more than once is a no-op.
func (s *FileSource) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	if err != nil {
		return fmt.Errorf("osstream: close %s: %w", s.name, err)
	}
	return nil
}

// readFull reads from r until p is full or r is exhausted. End of input is
// reported as a short count.
func readFull(r io.Reader, p []byte, target string) (int, error) {
	n, err := io.ReadFull(r, p)
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	return n, &stream.ReadError{Target: target, N: n, Err: err}
}
