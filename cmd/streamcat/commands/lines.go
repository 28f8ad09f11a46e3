package commands

import (
	"github.com/spf13/cobra"

	"github.com/fisherro/streams/pkg/stream"
)

var linesOpts struct {
	input  inputOptions
	number bool
}

var linesCmd = &cobra.Command{
	Use:   "lines [input]",
	Short: "Print the lines of an input",
	Long: `Split an input on the profile's terminator and print each piece as a
line. A final piece without a terminator is printed too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := streamConfig()
		if err != nil {
			return err
		}

		src, err := openInput(cmd, args, linesOpts.input)
		if err != nil {
			return err
		}
		defer src.Close()

		in := stream.NewBufferedSource(src, sc.BufferSize)
		out := stream.NewBufferedSink(stdoutSink(cmd), sc.BufferSize)
		defer out.Close()

		term := sc.TerminatorByte()
		for i := 1; ; i++ {
			line, ok, err := stream.ReadLine(in, term)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if linesOpts.number {
				err = stream.Printf(out, "%6d\t%s\n", i, line)
			} else {
				err = stream.PutLine(out, line)
			}
			if err != nil {
				return err
			}
		}
		if err := out.Flush(); err != nil {
			return err
		}
		return src.Close()
	},
}

func init() {
	linesOpts.input.addFlags(linesCmd.Flags())
	linesCmd.Flags().BoolVarP(&linesOpts.number, "number", "n", false, "prefix each line with its number")
}
