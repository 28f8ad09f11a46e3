package osstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/fisherro/streams/pkg/stream"
)

var (
	_ stream.SinkCloser   = (*PipeSink)(nil)
	_ stream.SourceCloser = (*PipeSource)(nil)
)

// PipeSink writes to the standard input of a running command.
type PipeSink struct {
	name  string
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// StartPipeSink starts name with args and returns a sink feeding its
// standard input. The command's standard output and error go to those of
// the current process. ctx bounds the lifetime of the command.
func StartPipeSink(ctx context.Context, name string, args ...string) (*PipeSink, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return NewPipeSink(cmd)
}

// NewPipeSink starts cmd, which must not have Stdin set, and returns a sink
// feeding its standard input.
func NewPipeSink(cmd *exec.Cmd) (*PipeSink, error) {
	name := commandName(cmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("osstream: pipe to %s: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("osstream: start %s: %w", name, err)
	}
	return &PipeSink{name: name, cmd: cmd, stdin: stdin}, nil
}

// Name returns the command line of the subprocess.
func (s *PipeSink) Name() string { return s.name }

// Write writes all of p to the command's standard input.
func (s *PipeSink) Write(p []byte) (int, error) {
	if s.stdin == nil {
		return 0, stream.ErrClosed
	}
	n, err := s.stdin.Write(p)
	if err != nil {
		return n, &stream.WriteError{Target: s.name, N: n, Err: err}
	}
	return n, nil
}

// Flush is a no-op; bytes written to a pipe are already visible to the
// command.
func (s *PipeSink) Flush() error {
	if s.stdin == nil {
		return stream.ErrClosed
	}
	return nil
}

// Close closes the command's standard input and waits for it to exit.
// Calling Close more than once is a no-op.
func (s *PipeSink) Close() error {
	if s.stdin == nil {
		return nil
	}
	closeErr := s.stdin.Close()
	s.stdin = nil
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("osstream: wait %s: %w", s.name, err)
	}
	if closeErr != nil {
		return fmt.Errorf("osstream: close pipe to %s: %w", s.name, closeErr)
	}
	return nil
}

// PipeSource reads the standard output of a running command.
type PipeSource struct {
	name   string
	cmd    *exec.Cmd
	stdout io.ReadCloser
	// eof is set once the command has closed its output.
	eof bool
}

// StartPipeSource starts name with args and returns a source reading its
// standard output. The command's standard error goes to that of the current
// process. ctx bounds the lifetime of the command.
func StartPipeSource(ctx context.Context, name string, args ...string) (*PipeSource, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return NewPipeSource(cmd)
}

// NewPipeSource starts cmd, which must not have Stdout set, and returns a
// source reading its standard output.
func NewPipeSource(cmd *exec.Cmd) (*PipeSource, error) {
	name := commandName(cmd)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("osstream: pipe from %s: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("osstream: start %s: %w", name, err)
	}
	return &PipeSource{name: name, cmd: cmd, stdout: stdout}, nil
}

// Name returns the command line of the subprocess.
func (s *PipeSource) Name() string { return s.name }

// Read fills p from the command's output, blocking until p is full or the
// command closes its output.
func (s *PipeSource) Read(p []byte) (int, error) {
	if s.stdout == nil {
		return 0, stream.ErrClosed
	}
	n, err := readFull(s.stdout, p, s.name)
	if err == nil && n < len(p) {
		s.eof = true
	}
	return n, err
}

// Close closes the read end of the pipe and waits for the command to exit.
// Output not read yet is discarded. A command still writing when Close is
// called gets SIGPIPE; that exit is not reported as an error. Calling Close
// more than once is a no-op.
func (s *PipeSource) Close() error {
	if s.stdout == nil {
		return nil
	}
	_ = s.stdout.Close()
	s.stdout = nil
	err := s.cmd.Wait()
	if err != nil && !s.eof && brokenPipe(err) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("osstream: wait %s: %w", s.name, err)
	}
	return nil
}

// brokenPipe reports whether err is the exit of a command killed by SIGPIPE,
// either directly or through a shell that reports it as status 128+13.
func brokenPipe(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() && ws.Signal() == syscall.SIGPIPE {
		return true
	}
	return exitErr.ExitCode() == 128+int(syscall.SIGPIPE)
}

func commandName(cmd *exec.Cmd) string {
	if len(cmd.Args) == 0 {
		return cmd.Path
	}
	return strings.Join(cmd.Args, " ")
}
