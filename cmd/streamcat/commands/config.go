package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fisherro/streams/pkg/cli"
)

// defaultProfile is created by set-buffer-size when no profile is selected.
const defaultProfile = "default"

var configOpts struct {
	json bool

	bufferSize int
	terminator string
	append     bool
	storeKind  string
	storeDir   string
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and profiles.

A profile holds the buffer size, line terminator, append mode and store
used by the other commands. One profile is current; -p selects another for
a single command.

Configuration is stored in ~/.streams/streamcat/config.yaml`,
}

// configView is what 'config show' prints.
type configView struct {
	Path           string            `yaml:"path" json:"path"`
	CurrentProfile string            `yaml:"current_profile,omitempty" json:"current_profile,omitempty"`
	Profiles       []string          `yaml:"profiles,omitempty" json:"profiles,omitempty"`
	Effective      *cli.StreamConfig `yaml:"effective" json:"effective"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		sc, err := streamConfig()
		if err != nil {
			return err
		}

		format := cli.FormatYAML
		if configOpts.json {
			format = cli.FormatJSON
		}
		return cli.Output(configView{
			Path:           cfg.Path(),
			CurrentProfile: cfg.CurrentProfile,
			Profiles:       cfg.ListProfiles(),
			Effective:      sc,
		}, cli.OutputOptions{Format: format, Writer: cmd.OutOrStdout()})
	},
}

var configAddProfileCmd = &cobra.Command{
	Use:   "add-profile <name>",
	Short: "Add or replace a profile",
	Long: `Add a profile with the given settings. Unset settings take their
defaults when the profile is used.

The terminator accepts one byte or an escape such as '\n', '\t' or '\0'.

Example:
  streamcat config add-profile nul --terminator '\0'
  streamcat config add-profile archive --store badger --store-dir /var/lib/streamcat`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		sc := &cli.StreamConfig{
			BufferSize: configOpts.bufferSize,
			Append:     configOpts.append,
			Store: cli.StoreConfig{
				Kind: configOpts.storeKind,
				Dir:  configOpts.storeDir,
			},
		}
		if configOpts.terminator != "" {
			term, err := parseTerminator(configOpts.terminator)
			if err != nil {
				return err
			}
			sc.Terminator = string([]byte{term})
		}

		cfg := getConfig()
		if err := sc.WithDefaults(cfg.DataDir()).Validate(); err != nil {
			return err
		}
		if err := cfg.AddProfile(name, sc); err != nil {
			return err
		}
		cli.PrintSuccess("Profile %q added", name)
		return nil
	},
}

var configDeleteProfileCmd = &cobra.Command{
	Use:   "delete-profile <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().DeleteProfile(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Profile %q deleted", args[0])
		return nil
	},
}

var configUseProfileCmd = &cobra.Command{
	Use:   "use-profile <name>",
	Short: "Set the current profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().UseProfile(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to profile %q", args[0])
		return nil
	},
}

var configListProfilesCmd = &cobra.Command{
	Use:   "list-profiles",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		names := cfg.ListProfiles()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No profiles configured")
			return nil
		}
		for _, name := range names {
			current := " "
			if name == cfg.CurrentProfile {
				current = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", current, name)
		}
		return nil
	},
}

var configSetBufferSizeCmd = &cobra.Command{
	Use:   "set-buffer-size <bytes>",
	Short: "Set the buffer size of a profile",
	Long: `Set the buffer size of the profile named by -p, or of the current
profile. With neither, a profile named "default" is created and made
current.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid buffer size %q: %w", args[0], err)
		}
		if size < 1 {
			return fmt.Errorf("buffer size must be at least 1, got %d", size)
		}

		cfg := getConfig()
		name := profileName
		if name == "" {
			name = cfg.CurrentProfile
		}
		if name == "" {
			name = defaultProfile
		}

		sc, ok := cfg.Profiles[name]
		if !ok {
			sc = &cli.StreamConfig{}
		}
		sc.BufferSize = size
		if err := cfg.AddProfile(name, sc); err != nil {
			return err
		}
		if cfg.CurrentProfile == "" {
			if err := cfg.UseProfile(name); err != nil {
				return err
			}
		}
		cli.PrintSuccess("Buffer size of profile %q set to %d", name, size)
		return nil
	},
}

// parseTerminator accepts a single byte or a backslash escape.
func parseTerminator(s string) (byte, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	if s == `\0` {
		return 0, nil
	}
	u, err := strconv.Unquote(`"` + s + `"`)
	if err != nil || len(u) != 1 {
		return 0, fmt.Errorf("terminator must be a single byte, got %q", s)
	}
	return u[0], nil
}

func init() {
	configShowCmd.Flags().BoolVar(&configOpts.json, "json", false, "output as JSON")

	configAddProfileCmd.Flags().IntVar(&configOpts.bufferSize, "buffer-size", 0, "buffer capacity in bytes (default 1024)")
	configAddProfileCmd.Flags().StringVar(&configOpts.terminator, "terminator", "", `line terminator (default '\n')`)
	configAddProfileCmd.Flags().BoolVar(&configOpts.append, "append", false, "append to outputs by default")
	configAddProfileCmd.Flags().StringVar(&configOpts.storeKind, "store", "", "store kind: local, badger or memory (default local)")
	configAddProfileCmd.Flags().StringVar(&configOpts.storeDir, "store-dir", "", "store directory (default <config dir>/data)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configAddProfileCmd)
	configCmd.AddCommand(configDeleteProfileCmd)
	configCmd.AddCommand(configUseProfileCmd)
	configCmd.AddCommand(configListProfilesCmd)
	configCmd.AddCommand(configSetBufferSizeCmd)
}
