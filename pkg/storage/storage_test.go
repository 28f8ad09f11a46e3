package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/fisherro/streams/pkg/stream"
)

// stores returns one fresh instance of every Store implementation.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	b, err := NewBadger(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return map[string]Store{
		"local":  newTestLocal(t),
		"badger": b,
		"memory": &Memory{},
	}
}

func put(t *testing.T, s Store, name, data string, appending bool) {
	t.Helper()
	w, err := s.Create(context.Background(), name, appending)
	if err != nil {
		t.Fatal(err)
	}
	bs := stream.NewBufferedSink(w, 4)
	if err := stream.PutString(bs, data); err != nil {
		t.Fatal(err)
	}
	if err := bs.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func get(t *testing.T, s Store, name string) string {
	t.Helper()
	r, err := s.Open(context.Background(), name)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := io.ReadAll(stream.AsReader(r))
	if err != nil {
		t.Fatal(err)
	}
	return string(got)
}

func TestStores_CreateAndOpen(t *testing.T) {
	for kind, s := range stores(t) {
		t.Run(kind, func(t *testing.T) {
			put(t, s, "a/b/file.txt", "hello, storage", false)
			if got := get(t, s, "a/b/file.txt"); got != "hello, storage" {
				t.Fatalf("got %q", got)
			}
		})
	}
}

func TestStores_ReplaceAndAppend(t *testing.T) {
	for kind, s := range stores(t) {
		t.Run(kind, func(t *testing.T) {
			put(t, s, "f", "long content here", false)
			put(t, s, "f", "short", false)
			if got := get(t, s, "f"); got != "short" {
				t.Fatalf("after replace: %q", got)
			}
			put(t, s, "f", ",more", true)
			if got := get(t, s, "f"); got != "short,more" {
				t.Fatalf("after append: %q", got)
			}
			put(t, s, "new", "fresh", true)
			if got := get(t, s, "new"); got != "fresh" {
				t.Fatalf("append to missing name: %q", got)
			}
		})
	}
}

func TestStores_UnclosedSinkKeepsOldContents(t *testing.T) {
	for kind, s := range stores(t) {
		if kind == "local" {
			// Tested separately: the temp file is visible on disk.
			continue
		}
		t.Run(kind, func(t *testing.T) {
			put(t, s, "keep", "old", false)
			w, err := s.Create(context.Background(), "keep", false)
			if err != nil {
				t.Fatal(err)
			}
			stream.PutString(w, "new")
			if got := get(t, s, "keep"); got != "old" {
				t.Fatalf("before Close: %q", got)
			}
			w.Close()
			if got := get(t, s, "keep"); got != "new" {
				t.Fatalf("after Close: %q", got)
			}
		})
	}
}

func TestStores_OpenNotExist(t *testing.T) {
	for kind, s := range stores(t) {
		t.Run(kind, func(t *testing.T) {
			_, err := s.Open(context.Background(), "no-such-file")
			if !errors.Is(err, fs.ErrNotExist) {
				t.Fatalf("expected fs.ErrNotExist, got %v", err)
			}
		})
	}
}

func TestStores_RemoveAndExists(t *testing.T) {
	for kind, s := range stores(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()

			if err := s.Remove(ctx, "ghost"); err != nil {
				t.Fatalf("Remove missing: %v", err)
			}
			ok, err := s.Exists(ctx, "tmp")
			if err != nil || ok {
				t.Fatalf("Exists before create = %v, %v", ok, err)
			}

			put(t, s, "tmp", "x", false)
			ok, err = s.Exists(ctx, "tmp")
			if err != nil || !ok {
				t.Fatalf("Exists after create = %v, %v", ok, err)
			}

			if err := s.Remove(ctx, "tmp"); err != nil {
				t.Fatal(err)
			}
			ok, err = s.Exists(ctx, "tmp")
			if err != nil || ok {
				t.Fatalf("Exists after remove = %v, %v", ok, err)
			}
			if err := s.Remove(ctx, "tmp"); err != nil {
				t.Fatalf("second Remove: %v", err)
			}
		})
	}
}

func TestStores_InvalidName(t *testing.T) {
	bad := []string{"", ".", "/abs", "..", "../escape", "a/../../b"}
	for kind, s := range stores(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			for _, name := range bad {
				if _, err := s.Create(ctx, name, false); !errors.Is(err, ErrInvalidName) {
					t.Errorf("Create(%q) = %v, want ErrInvalidName", name, err)
				}
				if _, err := s.Open(ctx, name); !errors.Is(err, ErrInvalidName) {
					t.Errorf("Open(%q) = %v, want ErrInvalidName", name, err)
				}
				if _, err := s.Exists(ctx, name); !errors.Is(err, ErrInvalidName) {
					t.Errorf("Exists(%q) = %v, want ErrInvalidName", name, err)
				}
			}
		})
	}
}

func TestStores_ClosedStreams(t *testing.T) {
	for kind, s := range stores(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			w, err := s.Create(ctx, "c", false)
			if err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("second Close = %v", err)
			}
			if _, err := w.Write([]byte("x")); !errors.Is(err, stream.ErrClosed) {
				t.Fatalf("Write after Close = %v, want ErrClosed", err)
			}

			r, err := s.Open(ctx, "c")
			if err != nil {
				t.Fatal(err)
			}
			r.Close()
			if _, err := r.Read(make([]byte, 1)); !errors.Is(err, stream.ErrClosed) {
				t.Fatalf("Read after Close = %v, want ErrClosed", err)
			}
		})
	}
}

func TestBadger_RequiresDir(t *testing.T) {
	if _, err := NewBadger(BadgerOptions{}); err == nil {
		t.Fatal("expected error without Dir")
	}
}

func TestBadger_Persists(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBadger(BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	put(t, b, "saved", "across reopen", false)
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	b, err = NewBadger(BadgerOptions{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if got := get(t, b, "saved"); got != "across reopen" {
		t.Fatalf("got %q", got)
	}
}

func TestStores_Abort(t *testing.T) {
	for kind, s := range stores(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			put(t, s, "kept", "original", false)

			w, err := s.Create(ctx, "kept", false)
			if err != nil {
				t.Fatal(err)
			}
			stream.PutString(w, "partial")
			if err := Abort(w); err != nil {
				t.Fatalf("Abort: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close after Abort: %v", err)
			}
			if got := get(t, s, "kept"); got != "original" {
				t.Fatalf("after Abort: %q", got)
			}
		})
	}
}
