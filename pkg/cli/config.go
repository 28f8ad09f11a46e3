package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/fisherro/streams/pkg/stream"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".streams"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Store kinds understood by StoreConfig.
const (
	StoreLocal  = "local"
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// Config represents the configuration file of a CLI app
type Config struct {
	// AppName is the application name (e.g., "streamcat")
	AppName string `yaml:"-"`

	// CurrentProfile is the name of the currently active profile
	CurrentProfile string `yaml:"current_profile,omitempty"`

	// Profiles is a map of profile name to stream settings
	Profiles map[string]*StreamConfig `yaml:"profiles,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// StreamConfig holds the settings used to build sinks and sources.
// Zero fields take their defaults from Defaults.
type StreamConfig struct {
	// Name is the profile name
	Name string `yaml:"name" json:"name"`

	// BufferSize is the capacity of buffered sinks and sources
	BufferSize int `yaml:"buffer_size,omitempty" json:"buffer_size,omitempty"`

	// Terminator is the single-byte line terminator
	Terminator string `yaml:"terminator,omitempty" json:"terminator,omitempty"`

	// Append makes file outputs add to existing contents
	Append bool `yaml:"append,omitempty" json:"append,omitempty"`

	// Store selects the backend for named streams
	Store StoreConfig `yaml:"store,omitempty" json:"store,omitempty"`
}

// streamConfigYAML has the fields of StreamConfig without its YAML methods.
type streamConfigYAML StreamConfig

// MarshalYAML writes the terminator as a Go escape sequence (`\t`, `\x00`),
// since YAML does not keep a bare tab, carriage return or non-UTF-8 byte.
func (sc *StreamConfig) MarshalYAML() (any, error) {
	if sc == nil {
		return nil, nil
	}
	out := streamConfigYAML(*sc)
	if out.Terminator != "" {
		q := strconv.Quote(out.Terminator)
		out.Terminator = q[1 : len(q)-1]
	}
	return out, nil
}

// UnmarshalYAML reads a terminator written by MarshalYAML. A value that is
// not a valid escape sequence is taken literally.
func (sc *StreamConfig) UnmarshalYAML(data []byte) error {
	var raw streamConfigYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Terminator != "" {
		if t, err := strconv.Unquote(`"` + raw.Terminator + `"`); err == nil {
			raw.Terminator = t
		}
	}
	*sc = StreamConfig(raw)
	return nil
}

// StoreConfig selects a storage backend.
type StoreConfig struct {
	// Kind is one of "local", "badger" or "memory"
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Dir is the root directory for local and badger stores
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`
}

// Defaults returns the settings used when no profile is selected.
// dataDir is the default store directory.
func Defaults(dataDir string) *StreamConfig {
	return &StreamConfig{
		BufferSize: stream.DefaultBufferSize,
		Terminator: string(stream.DefaultTerminator),
		Store:      StoreConfig{Kind: StoreLocal, Dir: dataDir},
	}
}

// WithDefaults returns a copy of sc with zero fields filled from Defaults.
func (sc *StreamConfig) WithDefaults(dataDir string) *StreamConfig {
	out := *sc
	def := Defaults(dataDir)
	if out.BufferSize == 0 {
		out.BufferSize = def.BufferSize
	}
	if out.Terminator == "" {
		out.Terminator = def.Terminator
	}
	if out.Store.Kind == "" {
		out.Store.Kind = def.Store.Kind
	}
	if out.Store.Dir == "" && out.Store.Kind != StoreMemory {
		out.Store.Dir = def.Store.Dir
	}
	return &out
}

// Validate checks that the settings can be used.
func (sc *StreamConfig) Validate() error {
	if sc.BufferSize < 1 {
		return fmt.Errorf("buffer_size must be at least 1, got %d", sc.BufferSize)
	}
	if len(sc.Terminator) != 1 {
		return fmt.Errorf("terminator must be a single byte, got %q", sc.Terminator)
	}
	switch sc.Store.Kind {
	case StoreLocal, StoreBadger, StoreMemory:
	default:
		return fmt.Errorf("unknown store kind %q", sc.Store.Kind)
	}
	return nil
}

// TerminatorByte returns the terminator as a byte, or
// stream.DefaultTerminator if none is set.
func (sc *StreamConfig) TerminatorByte() byte {
	if sc.Terminator == "" {
		return stream.DefaultTerminator
	}
	return sc.Terminator[0]
}

// LoadConfig loads or creates configuration for the specified app
func LoadConfig(appName string) (*Config, error) {
	return LoadConfigWithPath(appName, "")
}

// LoadConfigWithPath loads configuration from a custom path
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	var configPath string

	if customPath != "" {
		configPath = customPath
	} else {
		paths, err := NewPaths(appName)
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = paths.ConfigFile()
	}

	// Ensure config directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		AppName:    appName,
		Profiles:   make(map[string]*StreamConfig),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Create empty config file
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*StreamConfig)
	}

	cfg.AppName = appName
	cfg.configPath = configPath

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// DataDir returns the default store directory, next to the config file
func (c *Config) DataDir() string {
	return filepath.Join(c.Dir(), "data")
}

// AddProfile adds or replaces a profile
func (c *Config) AddProfile(name string, sc *StreamConfig) error {
	sc.Name = name
	c.Profiles[name] = sc
	return c.Save()
}

// DeleteProfile removes a profile
func (c *Config) DeleteProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(c.Profiles, name)
	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}
	return c.Save()
}

// UseProfile sets the current profile
func (c *Config) UseProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	c.CurrentProfile = name
	return c.Save()
}

// GetProfile returns a specific profile
func (c *Config) GetProfile(name string) (*StreamConfig, error) {
	sc, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return sc, nil
}

// ResolveProfile returns the effective settings of the named profile, or of
// the current profile if name is empty, with defaults filled in. With no
// name and no current profile, it returns the defaults.
func (c *Config) ResolveProfile(name string) (*StreamConfig, error) {
	if name == "" {
		name = c.CurrentProfile
	}
	if name == "" {
		return Defaults(c.DataDir()), nil
	}
	sc, err := c.GetProfile(name)
	if err != nil {
		return nil, err
	}
	resolved := sc.WithDefaults(c.DataDir())
	if err := resolved.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	return resolved, nil
}

// ListProfiles returns all profile names in sorted order
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
