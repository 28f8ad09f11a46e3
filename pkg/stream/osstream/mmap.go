package osstream

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/mmap"

	"github.com/fisherro/streams/pkg/stream"
)

var (
	_ stream.SourceCloser = (*MmapSource)(nil)
	_ stream.Seeker       = (*MmapSource)(nil)
)

// MmapSource reads a file through a read-only memory mapping.
type MmapSource struct {
	name string
	r    *mmap.ReaderAt
	pos  int64
}

// OpenMmap maps path into memory for reading.
func OpenMmap(path string) (*MmapSource, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("osstream: mmap %s: %w", path, err)
	}
	return &MmapSource{name: path, r: r}, nil
}

// Name returns the mapped path.
func (s *MmapSource) Name() string { return s.name }

// Len returns the size of the mapping.
func (s *MmapSource) Len() int {
	if s.r == nil {
		return 0
	}
	return s.r.Len()
}

// Read copies from the mapping at the current offset.
func (s *MmapSource) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, stream.ErrClosed
	}
	if s.pos >= int64(s.r.Len()) {
		return 0, nil
	}
	n, err := s.r.ReadAt(p, s.pos)
	s.pos += int64(n)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, &stream.ReadError{Target: s.name, N: n, Err: err}
	}
	return n, nil
}

// Seek sets the offset for the next Read.
func (s *MmapSource) Seek(offset int64, whence int) (int64, error) {
	if s.r == nil {
		return 0, stream.ErrClosed
	}
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = s.pos
	case io.SeekEnd:
		base = int64(s.r.Len())
	default:
		return 0, fmt.Errorf("osstream: seek %s: invalid whence %d", s.name, whence)
	}
	pos := base + offset
	if pos < 0 {
		return 0, fmt.Errorf("osstream: seek %s: negative position", s.name)
	}
	s.pos = pos
	return pos, nil
}

// Tell returns the current read offset.
func (s *MmapSource) Tell() (int64, error) {
	if s.r == nil {
		return 0, stream.ErrClosed
	}
	return s.pos, nil
}

// Close unmaps the file. Calling Close more than once is a no-op.
func (s *MmapSource) Close() error {
	if s.r == nil {
		return nil
	}
	err := s.r.Close()
	s.r = nil
	if err != nil {
		return fmt.Errorf("osstream: unmap %s: %w", s.name, err)
	}
	return nil
}
