package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/fisherro/streams/pkg/stream"
)

var _ Store = (*Badger)(nil)

// Badger is a Store backed by BadgerDB v4. Each name is one key; the
// stream contents are its value.
type Badger struct {
	db *badger.DB
}

// BadgerOptions configures the BadgerDB store.
type BadgerOptions struct {
	// Dir is the directory for BadgerDB data files.
	// Required unless InMemory is set.
	Dir string

	// InMemory runs BadgerDB in memory-only mode (no disk persistence).
	// Useful for testing with a real badger engine.
	InMemory bool

	// Logger sets the badger logger. If nil, warnings and errors go to
	// slog.Default().
	Logger badger.Logger
}

// NewBadger opens a BadgerDB-backed Store.
func NewBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("storage: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	if opts.Logger != nil {
		dbOpts = dbOpts.WithLogger(opts.Logger)
	} else {
		dbOpts = dbOpts.WithLogger(slogLogger{})
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

// Create returns a sink that stores everything written to it under name
// in a single transaction on Close. With appending set, the sink starts
// from the value already stored.
func (b *Badger) Create(_ context.Context, name string, appending bool) (stream.SinkCloser, error) {
	key, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	s := &commitSink{
		commit: func(value []byte) error {
			return b.db.Update(func(txn *badger.Txn) error {
				return txn.Set([]byte(key), value)
			})
		},
	}
	if appending {
		prev, err := b.get(key)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return nil, err
		}
		if _, err := s.buf.Write(prev); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Open returns a source over the value stored under name.
func (b *Badger) Open(_ context.Context, name string) (stream.SourceCloser, error) {
	key, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	val, err := b.get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notExist(name)
	}
	if err != nil {
		return nil, err
	}
	return &memorySource{BytesSource: stream.NewBytesSource(val)}, nil
}

// Remove deletes name. Removing a missing name returns nil.
func (b *Badger) Remove(_ context.Context, name string) error {
	key, err := cleanName(name)
	if err != nil {
		return err
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Exists reports whether name exists.
func (b *Badger) Exists(_ context.Context, name string) (bool, error) {
	key, err := cleanName(name)
	if err != nil {
		return false, err
	}
	err = b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func (b *Badger) get(key string) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

// slogLogger routes badger warnings and errors to slog, dropping info and
// debug output.
type slogLogger struct{}

func (slogLogger) Errorf(f string, v ...any) {
	slog.Error("badger: " + strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (slogLogger) Warningf(f string, v ...any) {
	slog.Warn("badger: " + strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (slogLogger) Infof(string, ...any)  {}
func (slogLogger) Debugf(string, ...any) {}
