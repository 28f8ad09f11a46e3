package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/fisherro/streams/pkg/stream"
	"github.com/fisherro/streams/pkg/stream/osstream"
)

var _ Store = (*Local)(nil)

// Local implements Store on top of the local filesystem.
// All names are resolved relative to the configured root directory.
type Local struct {
	root string
}

// NewLocal creates a Local store rooted at dir.
// The directory is created (with parents) if it does not already exist.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string { return l.root }

func (l *Local) resolve(name string) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

// Create opens name for writing, creating parent directories as needed.
//
// A replacing write goes to a temporary file next to the target, which is
// renamed over it on Close. An appending write opens the target directly.
func (l *Local) Create(_ context.Context, name string, appending bool) (stream.SinkCloser, error) {
	full, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	if appending {
		f, err := osstream.CreateFile(full, osstream.FileOptions{Append: true})
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	tmp := filepath.Join(filepath.Dir(full), "."+filepath.Base(full)+"."+uuid.NewString()+".tmp")
	f, err := osstream.CreateFile(tmp, osstream.FileOptions{})
	if err != nil {
		return nil, err
	}
	return &renameSink{FileSink: f, tmp: tmp, target: full}, nil
}

// Open opens name for reading.
func (l *Local) Open(_ context.Context, name string) (stream.SourceCloser, error) {
	full, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	src, err := osstream.OpenFile(full)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Remove deletes name. If name does not exist, Remove returns nil.
func (l *Local) Remove(_ context.Context, name string) error {
	full, err := l.resolve(name)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether name exists.
func (l *Local) Exists(_ context.Context, name string) (bool, error) {
	full, err := l.resolve(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// renameSink writes a temporary file and moves it into place on Close.
type renameSink struct {
	*osstream.FileSink
	tmp    string
	target string
	done   bool
}

// Abort closes the temporary file and removes it.
func (s *renameSink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	closeErr := s.FileSink.Close()
	if err := os.Remove(s.tmp); err != nil {
		return err
	}
	return closeErr
}

func (s *renameSink) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.FileSink.Close(); err != nil {
		_ = os.Remove(s.tmp)
		return err
	}
	if err := os.Rename(s.tmp, s.target); err != nil {
		_ = os.Remove(s.tmp)
		return fmt.Errorf("storage: publish %s: %w", s.target, err)
	}
	return nil
}
