package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fisherro/streams/pkg/cli"
)

const appName = "streamcat"

var (
	// Global flags
	cfgFile     string
	profileName string
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streamcat",
	Short: "Buffered byte stream tool",
	Long: `streamcat - copy, split and store byte streams.

Inputs can be files, standard input, memory-mapped files or the output of
a command. Everything passes through buffered sinks and sources whose
settings come from the current profile.

Configuration is stored in ~/.streams/streamcat/ and supports multiple
profiles, similar to kubectl's context management.

Examples:
  # Copy a file to stdout in upper case
  streamcat cat --upper notes.txt

  # Number the NUL-separated records printed by find
  streamcat config add-profile nul --terminator '\0'
  streamcat -p nul lines --number --exec 'find . -print0'

  # Keep a copy of a log in the store and read it back
  streamcat put logs/today app.log
  streamcat get logs/today
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(cmd)
		cfg, err := cli.LoadConfigWithPath(appName, cfgFile)
		if err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		globalConfig = cfg
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext is Execute with a context that bounds subprocesses.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.streams/streamcat/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(configCmd)
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// streamConfig returns the settings of the selected profile
func streamConfig() (*cli.StreamConfig, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return cfg.ResolveProfile(profileName)
}
