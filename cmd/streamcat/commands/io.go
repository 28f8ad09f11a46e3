package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fisherro/streams/pkg/cli"
	"github.com/fisherro/streams/pkg/storage"
	"github.com/fisherro/streams/pkg/stream"
	"github.com/fisherro/streams/pkg/stream/osstream"
)

// inputOptions selects where an input comes from.
type inputOptions struct {
	exec string
	mmap bool
}

func (o *inputOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.exec, "exec", "", "read the output of a shell command")
	fs.BoolVar(&o.mmap, "mmap", false, "memory-map the input file")
}

// openInput opens the input named by args: a file, "-" or nothing for
// stdin, or the command given with --exec.
func openInput(cmd *cobra.Command, args []string, opts inputOptions) (stream.SourceCloser, error) {
	name := "-"
	if len(args) > 0 {
		name = args[0]
	}

	switch {
	case opts.exec != "":
		if len(args) > 0 {
			return nil, fmt.Errorf("--exec and an input file are mutually exclusive")
		}
		slog.Debug("reading command output", "command", opts.exec)
		src, err := osstream.StartPipeSource(cmd.Context(), "sh", "-c", opts.exec)
		if err != nil {
			return nil, err
		}
		return src, nil
	case name == "-":
		if opts.mmap {
			return nil, fmt.Errorf("--mmap needs an input file")
		}
		return nopSourceCloser{stdinSource(cmd)}, nil
	case opts.mmap:
		slog.Debug("mapping input", "path", name)
		src, err := osstream.OpenMmap(name)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		slog.Debug("opening input", "path", name)
		src, err := osstream.OpenFile(name)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

// openOutput opens path for writing, or stdout if path is empty or "-".
func openOutput(cmd *cobra.Command, path string, appending bool) (stream.SinkCloser, error) {
	if path == "" || path == "-" {
		return nopSinkCloser{stdoutSink(cmd)}, nil
	}
	slog.Debug("opening output", "path", path, "append", appending)
	f, err := osstream.CreateFile(path, osstream.FileOptions{Append: appending})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func stdinSource(cmd *cobra.Command) stream.Source {
	return sourceFor(cmd.InOrStdin(), "stdin")
}

func stdoutSink(cmd *cobra.Command) stream.Sink {
	return sinkFor(cmd.OutOrStdout(), "stdout")
}

func sourceFor(r io.Reader, name string) stream.Source {
	if f, ok := r.(*os.File); ok {
		return osstream.NewStdSource(f, name)
	}
	return stream.FromReader(r)
}

func sinkFor(w io.Writer, name string) stream.Sink {
	if f, ok := w.(*os.File); ok {
		return osstream.NewStdSink(f, name)
	}
	return stream.FromWriter(w)
}

// openStore opens the store selected by sc. The returned function releases
// it and may be called more than once.
func openStore(sc *cli.StreamConfig) (storage.Store, func() error, error) {
	nop := func() error { return nil }
	switch sc.Store.Kind {
	case cli.StoreLocal:
		s, err := storage.NewLocal(sc.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, nop, nil
	case cli.StoreBadger:
		s, err := storage.NewBadger(storage.BadgerOptions{Dir: sc.Store.Dir})
		if err != nil {
			return nil, nil, err
		}
		closed := false
		release := func() error {
			if closed {
				return nil
			}
			closed = true
			return s.Close()
		}
		return s, release, nil
	case cli.StoreMemory:
		return sharedMemory, nop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", sc.Store.Kind)
	}
}

// sharedMemory backs the "memory" store kind for the life of the process.
var sharedMemory = &storage.Memory{}

type nopSourceCloser struct{ stream.Source }

func (nopSourceCloser) Close() error { return nil }

type nopSinkCloser struct{ stream.Sink }

func (nopSinkCloser) Close() error { return nil }
