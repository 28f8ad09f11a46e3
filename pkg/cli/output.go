package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/fisherro/streams/pkg/stream"
	"github.com/fisherro/streams/pkg/stream/osstream"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatYAML outputs as YAML (default for terminal)
	FormatYAML OutputFormat = "yaml"
	// FormatJSON outputs as JSON
	FormatJSON OutputFormat = "json"
	// FormatRaw outputs raw data
	FormatRaw OutputFormat = "raw"
)

// OutputOptions configures output behavior
type OutputOptions struct {
	// Format is the output format (yaml, json, raw)
	Format OutputFormat

	// File is the output file path (empty for stdout)
	File string

	// Indent is the indentation for JSON output
	Indent string

	// Writer is an optional custom writer (overrides File)
	Writer io.Writer
}

// Output writes the result to the configured destination
func Output(result any, opts OutputOptions) error {
	var sink stream.Sink = osstream.Stdout

	if opts.Writer != nil {
		sink = stream.FromWriter(opts.Writer)
	} else if opts.File != "" {
		f, err := osstream.CreateFile(opts.File, osstream.FileOptions{})
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		sink = f
	}

	bs := stream.NewBufferedSink(sink, stream.DefaultBufferSize)
	defer bs.Close()

	var err error
	switch opts.Format {
	case FormatJSON:
		err = outputJSON(bs, result, opts.Indent)
	case FormatYAML, "":
		err = outputYAML(bs, result)
	case FormatRaw:
		err = outputRaw(bs, result)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
	if err != nil {
		return err
	}
	return bs.Flush()
}

func outputJSON(sink stream.Sink, result any, indent string) error {
	enc := json.NewEncoder(stream.AsWriter(sink))
	if indent == "" {
		indent = "  "
	}
	enc.SetIndent("", indent)
	return enc.Encode(result)
}

func outputYAML(sink stream.Sink, result any) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return stream.PutString(sink, string(data))
}

func outputRaw(sink stream.Sink, result any) error {
	switch v := result.(type) {
	case []byte:
		return stream.PutString(sink, string(v))
	case string:
		return stream.PutString(sink, v)
	default:
		return outputYAML(sink, result)
	}
}

// Print helpers for terminal output

// PrintSuccess prints a success message with checkmark
func PrintSuccess(format string, args ...any) {
	fmt.Printf("✓ "+format+"\n", args...)
}

// PrintError prints an error message to stderr
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
