package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/fisherro/streams/pkg/cli"
	"github.com/fisherro/streams/pkg/record"
	"github.com/fisherro/streams/pkg/stream"
)

var statsOpts struct {
	input   inputOptions
	json    bool
	records bool
}

// inputStats is the result of the stats command.
type inputStats struct {
	Input          string `yaml:"input" json:"input"`
	Bytes          int64  `yaml:"bytes" json:"bytes"`
	Size           string `yaml:"size" json:"size"`
	Lines          int    `yaml:"lines,omitempty" json:"lines,omitempty"`
	Records        int    `yaml:"records,omitempty" json:"records,omitempty"`
	EndedMidRecord bool   `yaml:"ended_mid_record" json:"ended_mid_record"`
}

var statsCmd = &cobra.Command{
	Use:   "stats [input]",
	Short: "Count the bytes and lines of an input",
	Long: `Count the bytes and terminator-separated lines of an input and report
whether it ended in the middle of a line.

With --records the input is read as a sequence of msgpack records, such as
the output of 'streamcat records encode', and records are counted instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := streamConfig()
		if err != nil {
			return err
		}

		src, err := openInput(cmd, args, statsOpts.input)
		if err != nil {
			return err
		}
		defer src.Close()

		counted := &countingSource{src: stream.NewBufferedSource(src, sc.BufferSize)}
		var st inputStats
		if statsOpts.records {
			st, err = recordStats(counted)
		} else {
			st, err = lineStats(counted, sc.TerminatorByte())
		}
		if err != nil {
			return err
		}
		if err := src.Close(); err != nil {
			return err
		}

		st.Input = "-"
		if len(args) > 0 {
			st.Input = args[0]
		} else if statsOpts.input.exec != "" {
			st.Input = statsOpts.input.exec
		}
		st.Bytes = counted.n
		st.Size = cli.FormatBytes(counted.n)

		format := cli.FormatYAML
		if statsOpts.json {
			format = cli.FormatJSON
		}
		return cli.Output(st, cli.OutputOptions{Format: format, Writer: cmd.OutOrStdout()})
	},
}

func lineStats(src stream.Source, term byte) (inputStats, error) {
	var st inputStats
	for {
		chunk, err := stream.ReadUntil(src, term)
		if err != nil {
			return st, err
		}
		if len(chunk) == 0 {
			return st, nil
		}
		st.Lines++
		if chunk[len(chunk)-1] != term {
			st.EndedMidRecord = true
		}
	}
}

func recordStats(src stream.Source) (inputStats, error) {
	var st inputStats
	dec := record.NewDecoder(stream.NewPushbackSource(src))
	for {
		var v any
		ok, err := dec.Decode(&v)
		if errors.Is(err, record.ErrTruncated) {
			st.EndedMidRecord = true
			return st, nil
		}
		if err != nil {
			return st, err
		}
		if !ok {
			return st, nil
		}
		st.Records++
	}
}

// countingSource counts the bytes read through it.
type countingSource struct {
	src stream.Source
	n   int64
}

func (c *countingSource) Read(p []byte) (int, error) {
	n, err := c.src.Read(p)
	c.n += int64(n)
	return n, err
}

func init() {
	statsOpts.input.addFlags(statsCmd.Flags())
	statsCmd.Flags().BoolVar(&statsOpts.json, "json", false, "output as JSON")
	statsCmd.Flags().BoolVar(&statsOpts.records, "records", false, "count msgpack records instead of lines")
}
