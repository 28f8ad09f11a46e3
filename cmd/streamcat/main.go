// Package main provides the streamcat CLI tool.
//
// Usage:
//
//	streamcat [flags] <command> [args]
//
// Commands:
//
//	cat      - Copy an input to an output through buffered streams
//	lines    - Print the lines of an input
//	stats    - Count the bytes and lines of an input
//	put      - Store an input under a name
//	get      - Print a stored stream
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.streams/streamcat/
//	Use 'streamcat config' commands to manage profiles.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fisherro/streams/cmd/streamcat/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
