package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/fisherro/streams/pkg/stream"
)

var _ Store = (*Memory)(nil)

// Memory is an in-memory Store, mainly for tests. The zero value is ready
// to use.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

// Create returns a sink whose contents are stored under name on Close.
func (m *Memory) Create(_ context.Context, name string, appending bool) (stream.SinkCloser, error) {
	key, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	s := &commitSink{
		commit: func(value []byte) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.files == nil {
				m.files = make(map[string][]byte)
			}
			m.files[key] = slices.Clone(value)
			return nil
		},
	}
	if appending {
		m.mu.Lock()
		prev := m.files[key]
		m.mu.Unlock()
		_, _ = s.buf.Write(prev)
	}
	return s, nil
}

// Open returns a source over a copy of the contents of name.
func (m *Memory) Open(_ context.Context, name string) (stream.SourceCloser, error) {
	key, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	val, ok := m.files[key]
	m.mu.Unlock()
	if !ok {
		return nil, notExist(name)
	}
	return &memorySource{BytesSource: stream.NewBytesSource(slices.Clone(val))}, nil
}

// Remove deletes name. Removing a missing name returns nil.
func (m *Memory) Remove(_ context.Context, name string) error {
	key, err := cleanName(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

// Exists reports whether name exists.
func (m *Memory) Exists(_ context.Context, name string) (bool, error) {
	key, err := cleanName(name)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	_, ok := m.files[key]
	m.mu.Unlock()
	return ok, nil
}
