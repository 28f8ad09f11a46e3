// Package cli provides common utilities for the streams command-line tools.
//
// This package includes:
//   - Configuration management (named profiles of stream settings)
//   - Output formatting (YAML, JSON, raw)
//   - Per-app directory layout
//
// Configuration is stored in ~/.streams/<app>/config.yaml, with one profile
// current at a time, similar to kubectl contexts.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("streamcat")
//
//	// Settings of the current profile, or the defaults
//	sc, err := cfg.ResolveProfile("")
//
//	cli.Output(stats, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	})
package cli
