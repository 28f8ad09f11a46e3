package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fisherro/streams/pkg/cli"
	"github.com/fisherro/streams/pkg/stream"
)

var catOpts struct {
	input  inputOptions
	output string
	append bool
	upper  bool
}

var catCmd = &cobra.Command{
	Use:   "cat [input]",
	Short: "Copy an input to an output",
	Long: `Copy an input to an output through a buffered source and a buffered
sink sized by the current profile.

The input is a file, "-" or nothing for stdin, or the output of --exec.
The output is stdout unless -o is given.

Examples:
  streamcat cat notes.txt
  streamcat cat --mmap big.bin -o copy.bin
  streamcat cat --exec 'date' --upper -o log.txt --append`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := streamConfig()
		if err != nil {
			return err
		}

		src, err := openInput(cmd, args, catOpts.input)
		if err != nil {
			return err
		}
		defer src.Close()

		dst, err := openOutput(cmd, catOpts.output, catOpts.append || sc.Append)
		if err != nil {
			return err
		}
		defer dst.Close()

		n, err := copyBuffered(dst, src, sc, catOpts.upper)
		if err != nil {
			return err
		}
		slog.Debug("copied", "bytes", n)

		if err := src.Close(); err != nil {
			return err
		}
		return dst.Close()
	},
}

// copyBuffered copies src to dst through a BufferedSource and a
// BufferedSink of the configured size, optionally upper-casing the bytes.
func copyBuffered(dst stream.Sink, src stream.Source, sc *cli.StreamConfig, upper bool) (int64, error) {
	bs := stream.NewBufferedSink(dst, sc.BufferSize)
	defer bs.Close()

	var sink stream.Sink = bs
	if upper {
		sink = stream.NewTransformSink(bs, stream.Upper)
	}
	n, err := stream.Copy(sink, stream.NewBufferedSource(src, sc.BufferSize))
	if err != nil {
		return n, err
	}
	return n, bs.Flush()
}

func init() {
	catOpts.input.addFlags(catCmd.Flags())
	catCmd.Flags().StringVarP(&catOpts.output, "output", "o", "", "output file (default: stdout)")
	catCmd.Flags().BoolVar(&catOpts.append, "append", false, "append to the output file")
	catCmd.Flags().BoolVar(&catOpts.upper, "upper", false, "convert ASCII letters to upper case")
}
