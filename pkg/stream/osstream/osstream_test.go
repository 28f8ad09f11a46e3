package osstream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/fisherro/streams/pkg/stream"
)

func TestFile_WriteAndReadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	const date = "2017-Jan-02 15:04:05"

	out, err := CreateFile(path, FileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := stream.PutString(out, date); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	in, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	line, ok, err := stream.ReadLine(in, '\n')
	if err != nil || !ok {
		t.Fatalf("ReadLine ok=%v err=%v", ok, err)
	}
	if line != date {
		t.Fatalf("got %q, want %q", line, date)
	}
}

func TestFile_AppendAndTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")

	write := func(s string, appendMode bool) {
		t.Helper()
		f, err := CreateFile(path, FileOptions{Append: appendMode})
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		bs := stream.NewBufferedSink(f, 2)
		defer bs.Close()
		if err := stream.PutString(bs, s); err != nil {
			t.Fatal(err)
		}
	}

	write("one,", false)
	write("two", true)
	if got, _ := os.ReadFile(path); string(got) != "one,two" {
		t.Fatalf("after append: %q", got)
	}

	write("three", false)
	if got, _ := os.ReadFile(path); string(got) != "three" {
		t.Fatalf("after truncate: %q", got)
	}
}

func TestFile_SeekTell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seek.bin")
	out, err := CreateFile(path, FileOptions{Perm: 0o600})
	if err != nil {
		t.Fatal(err)
	}
	stream.PutString(out, "abcdef")
	if pos, err := out.Tell(); err != nil || pos != 6 {
		t.Fatalf("Tell = %d, %v", pos, err)
	}
	out.Seek(1, io.SeekStart)
	stream.PutString(out, "XY")
	if err := out.Flush(); err != nil {
		t.Fatal(err)
	}
	out.Close()

	in, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	in.Seek(-3, io.SeekEnd)
	p := make([]byte, 8)
	n, _ := in.Read(p)
	if string(p[:n]) != "def" {
		t.Fatalf("Read after Seek = %q", p[:n])
	}

	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("perm = %v, want 0600", info.Mode().Perm())
	}
}

func TestFile_ClosedAndErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := OpenFile(dir); err == nil {
		t.Fatal("expected error opening a directory")
	}
	if _, err := OpenFile(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}

	out, err := CreateFile(filepath.Join(dir, "c"), FileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	out.Close()
	if _, err := out.Write([]byte("x")); !errors.Is(err, stream.ErrClosed) {
		t.Fatalf("Write after Close: expected ErrClosed, got %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("second Close = %v", err)
	}
}

func TestFile_BufferedSourceOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	data := bytes.Repeat([]byte("0123456789"), 100)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	got, err := io.ReadAll(stream.AsReader(stream.NewBufferedSource(in, 64)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("read %d bytes, want %d", len(got), len(data))
	}
}

func TestMmap_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapped.txt")
	if err := os.WriteFile(path, []byte("line one\nline two"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := OpenMmap(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if src.Len() != 17 {
		t.Fatalf("Len() = %d, want 17", src.Len())
	}

	var lines []string
	for {
		line, ok, err := stream.ReadLine(src, '\n')
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) != 2 || lines[0] != "line one" || lines[1] != "line two" {
		t.Fatalf("lines = %q", lines)
	}

	if _, err := src.Seek(5, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	p := make([]byte, 3)
	n, _ := src.Read(p)
	if string(p[:n]) != "one" {
		t.Fatalf("Read after Seek = %q", p[:n])
	}
	if pos, _ := src.Tell(); pos != 8 {
		t.Fatalf("Tell = %d, want 8", pos)
	}
	if _, err := src.Seek(-1, io.SeekStart); err == nil {
		t.Fatal("expected error for negative seek")
	}
}

func TestStdSink_Write(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "std"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sink := NewStdSink(f, "test")
	stream.PutLine(sink, "to a borrowed handle")
	if err := sink.Flush(); err != nil {
		t.Fatal(err)
	}
	if sink.Name() != "test" {
		t.Fatalf("Name() = %q", sink.Name())
	}

	f.Seek(0, io.SeekStart)
	line, ok, _ := stream.ReadLine(NewStdSource(f, "test"), '\n')
	if !ok || line != "to a borrowed handle" {
		t.Fatalf("ReadLine = %q ok=%v", line, ok)
	}
}

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestPipe_SinkFeedsCommand(t *testing.T) {
	requireCommand(t, "cat")

	var out bytes.Buffer
	cmd := exec.Command("cat")
	cmd.Stdout = &out
	sink, err := NewPipeSink(cmd)
	if err != nil {
		t.Fatal(err)
	}
	bs := stream.NewBufferedSink(sink, 4)
	stream.PutString(bs, "through a pipe")
	bs.Close()
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "through a pipe" {
		t.Fatalf("command output = %q", out.String())
	}
	if _, err := sink.Write([]byte("x")); !errors.Is(err, stream.ErrClosed) {
		t.Fatalf("Write after Close: expected ErrClosed, got %v", err)
	}
}

func TestPipe_SourceReadsCommand(t *testing.T) {
	requireCommand(t, "echo")

	src, err := StartPipeSource(context.Background(), "echo", "hello from a pipe")
	if err != nil {
		t.Fatal(err)
	}
	line, ok, err := stream.ReadLine(src, '\n')
	if err != nil || !ok {
		t.Fatalf("ReadLine ok=%v err=%v", ok, err)
	}
	if line != "hello from a pipe" {
		t.Fatalf("line = %q", line)
	}
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close = %v", err)
	}
}

func TestPipe_CloseUnboundedProducer(t *testing.T) {
	requireCommand(t, "yes")

	src, err := StartPipeSource(context.Background(), "yes")
	if err != nil {
		t.Fatal(err)
	}
	p := make([]byte, 16)
	n, err := src.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read n=%d err=%v", n, err)
	}
	if string(p[:4]) != "y\ny\n" {
		t.Fatalf("Read = %q", p)
	}

	done := make(chan error, 1)
	go func() { done <- src.Close() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Close = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return while the command was still writing")
	}
}

func TestPipe_CommandFailure(t *testing.T) {
	requireCommand(t, "false")

	src, err := StartPipeSource(context.Background(), "false")
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Close(); err == nil {
		t.Fatal("expected an error from a failing command")
	}
}
