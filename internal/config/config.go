// Package config provides configuration management for bbl.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

// EnvPrefix is the prefix of environment variables read by LoadFromEnv.
const EnvPrefix = "bbl"

// OutputFormats lists the accepted values of output_format.
var OutputFormats = []string{"text", "json", "plain"}

// Config holds the bbl configuration.
type Config struct {
	OutputFormat string      `yaml:"output_format,omitempty"`
	NoColor      bool        `yaml:"no_color,omitempty"`
	MinSeverity  string      `yaml:"min_severity,omitempty"`
	Disabled     []string    `yaml:"disabled,omitempty"`
	Constants    []string    `yaml:"constants,omitempty"`
	Tags         []TagConfig `yaml:"tags,omitempty"`
}

// TagConfig defines a custom tag on top of the built-in catalogue.
type TagConfig struct {
	Name        string   `yaml:"name"`
	Shape       string   `yaml:"shape"`
	Children    []string `yaml:"children,omitempty"`
	Parents     []string `yaml:"parents,omitempty"`
	Terminators []string `yaml:"terminators,omitempty"`
	Validator   string   `yaml:"validator,omitempty"`
	Values      []string `yaml:"values,omitempty"`
}

// Descriptor converts the tag definition into a grammar descriptor.
func (t TagConfig) Descriptor() (bbcode.Descriptor, error) {
	if t.Name == "" {
		return bbcode.Descriptor{}, errors.New("tag name is required")
	}

	var shape bbcode.NodeType
	if err := shape.UnmarshalText([]byte(t.Shape)); err != nil || !shape.IsTag() {
		return bbcode.Descriptor{}, fmt.Errorf("tag %q: shape must be omission, simple, parametric, greedy or verbatim", t.Name)
	}

	d := bbcode.Descriptor{
		Name:        t.Name,
		Shape:       shape,
		Children:    t.Children,
		Parents:     t.Parents,
		Terminators: t.Terminators,
	}
	if shape == bbcode.NodeParametric {
		v, err := bbcode.ValidatorFor(t.Validator, t.Values)
		if err != nil {
			return bbcode.Descriptor{}, fmt.Errorf("tag %q: %w", t.Name, err)
		}
		d.Validate = v
	}
	return d, nil
}

// Validate checks that all fields hold accepted values.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("output_format must be one of %s", strings.Join(OutputFormats, ", "))
	}
	if c.MinSeverity != "" {
		if _, err := bbcode.ParseSeverity(c.MinSeverity); err != nil {
			return fmt.Errorf("min_severity: %w", err)
		}
	}
	for _, t := range c.Tags {
		if _, err := t.Descriptor(); err != nil {
			return err
		}
	}
	return nil
}

// Severity returns the minimum severity to report. It defaults to tidy.
func (c *Config) Severity() bbcode.Severity {
	sev, err := bbcode.ParseSeverity(c.MinSeverity)
	if err != nil {
		return bbcode.SeverityTidy
	}
	return sev
}

// Enabled reports whether m passes the severity threshold and is not disabled.
func (c *Config) Enabled(m bbcode.Message) bool {
	return m.Severity >= c.Severity() && !slices.Contains(c.Disabled, m.Name)
}

// Filter returns the messages that are Enabled.
func (c *Config) Filter(msgs []bbcode.Message) []bbcode.Message {
	var out []bbcode.Message
	for _, m := range msgs {
		if c.Enabled(m) {
			out = append(out, m)
		}
	}
	return out
}

// BuildRegistry returns the built-in catalogue extended with the custom tags.
func (c *Config) BuildRegistry() (*bbcode.Registry, error) {
	reg := bbcode.DefaultRegistry()
	for _, t := range c.Tags {
		d, err := t.Descriptor()
		if err != nil {
			return nil, err
		}
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// BuildTrie returns a trie holding the built-in constants and the custom ones.
func (c *Config) BuildTrie() (*bbcode.Trie, error) {
	if len(c.Constants) == 0 {
		return bbcode.DefaultTrie(), nil
	}
	words := append(slices.Clone(bbcode.DefaultConstants), c.Constants...)
	return bbcode.BuildTrie(words)
}

// envOverrides maps BBL_* variables onto Config fields. Unset variables
// leave the field nil or empty.
type envOverrides struct {
	Output      string
	NoColor     *bool `split_words:"true"`
	MinSeverity string `split_words:"true"`
	Disabled    []string
}

// LoadFromEnv applies BBL_OUTPUT, BBL_NO_COLOR, BBL_MIN_SEVERITY and
// BBL_DISABLED. Only variables that are set override the config.
func (c *Config) LoadFromEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if env.Output != "" {
		c.OutputFormat = env.Output
	}
	if env.NoColor != nil {
		c.NoColor = *env.NoColor
	}
	if env.MinSeverity != "" {
		c.MinSeverity = env.MinSeverity
	}
	if len(env.Disabled) > 0 {
		c.Disabled = env.Disabled
	}
	return nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "bbl", "config.yml")
	}

	// Fall back to ~/.config/bbl/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".bbl", "config.yml")
	}

	return filepath.Join(home, ".config", "bbl", "config.yml")
}

// Save writes the configuration to path on fsys.
func (c *Config) Save(fsys afero.Fs, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from path on fsys.
func Load(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides it with
// environment variables. A missing file yields an empty config; a file
// that exists but cannot be parsed is an error.
func LoadWithEnv(fsys afero.Fs, path string) (*Config, error) {
	cfg, err := Load(fsys, path)
	if err != nil {
		if exists, _ := afero.Exists(fsys, path); exists {
			return nil, err
		}
		cfg = &Config{}
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
