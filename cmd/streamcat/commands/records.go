package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fisherro/streams/pkg/record"
	"github.com/fisherro/streams/pkg/stream"
)

// lineRecord is the record written for each input line.
type lineRecord struct {
	Number int    `msgpack:"n"`
	Text   string `msgpack:"text"`
}

var recordsOpts struct {
	input  inputOptions
	output string
	number bool
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Convert between lines and msgpack records",
}

var recordsEncodeCmd = &cobra.Command{
	Use:   "encode [input]",
	Short: "Write each input line as a msgpack record",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := streamConfig()
		if err != nil {
			return err
		}
		src, err := openInput(cmd, args, recordsOpts.input)
		if err != nil {
			return err
		}
		defer src.Close()
		dst, err := openOutput(cmd, recordsOpts.output, sc.Append)
		if err != nil {
			return err
		}
		defer dst.Close()

		in := stream.NewBufferedSource(src, sc.BufferSize)
		out := stream.NewBufferedSink(dst, sc.BufferSize)
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
			if err := record.Encode(out, lineRecord{Number: i, Text: line}); err != nil {
				return err
			}
		}
		if err := out.Flush(); err != nil {
			return err
		}
		if err := src.Close(); err != nil {
			return err
		}
		return dst.Close()
	},
}

var recordsDecodeCmd = &cobra.Command{
	Use:   "decode [input]",
	Short: "Print msgpack line records as lines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := streamConfig()
		if err != nil {
			return err
		}
		src, err := openInput(cmd, args, recordsOpts.input)
		if err != nil {
			return err
		}
		defer src.Close()
		dst, err := openOutput(cmd, recordsOpts.output, sc.Append)
		if err != nil {
			return err
		}
		defer dst.Close()

		dec := record.NewDecoder(stream.NewPushbackSource(stream.NewBufferedSource(src, sc.BufferSize)))
		out := stream.NewBufferedSink(dst, sc.BufferSize)
		defer out.Close()

		for n := 0; ; n++ {
			var r lineRecord
			ok, err := dec.Decode(&r)
			if errors.Is(err, record.ErrTruncated) {
				return fmt.Errorf("input ends inside record %d", n+1)
			}
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if recordsOpts.number {
				err = stream.Printf(out, "%6d\t%s\n", r.Number, r.Text)
			} else {
				err = stream.PutLine(out, r.Text)
			}
			if err != nil {
				return err
			}
		}
		if err := out.Flush(); err != nil {
			return err
		}
		if err := src.Close(); err != nil {
			return err
		}
		return dst.Close()
	},
}

func init() {
	recordsOpts.input.addFlags(recordsCmd.PersistentFlags())
	recordsCmd.PersistentFlags().StringVarP(&recordsOpts.output, "output", "o", "", "output file (default: stdout)")
	recordsDecodeCmd.Flags().BoolVarP(&recordsOpts.number, "number", "n", false, "prefix each line with its record number")

	recordsCmd.AddCommand(recordsEncodeCmd)
	recordsCmd.AddCommand(recordsDecodeCmd)
}
