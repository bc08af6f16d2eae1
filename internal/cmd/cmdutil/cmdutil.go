// Package cmdutil holds the setup shared by bbl subcommands: global flags,
// configuration loading and logging.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/config"
	"github.com/open-cli-collective/bbcode-lint/internal/view"
	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

// ErrSilent marks errors whose details were already printed.
var ErrSilent = errors.New("silent error")

// Globals holds the values of the root persistent flags.
type Globals struct {
	ConfigPath string
	Output     string
	NoColor    bool
	Verbose    int

	outputSet  bool
	noColorSet bool
}

// AddGlobalFlags registers the persistent flags read by GlobalsFrom.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/bbl/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", string(view.FormatText), "output format: text, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().CountP("verbose", "v", "log parser decisions to stderr (repeat for debug output)")
}

// GlobalsFrom reads the persistent flags of cmd.
func GlobalsFrom(cmd *cobra.Command) Globals {
	flags := cmd.Flags()
	g := Globals{}
	g.ConfigPath, _ = flags.GetString("config")
	g.Output, _ = flags.GetString("output")
	g.NoColor, _ = flags.GetBool("no-color")
	g.Verbose, _ = flags.GetCount("verbose")
	g.outputSet = flags.Changed("output")
	g.noColorSet = flags.Changed("no-color")
	return g
}

// Path returns the config file path, falling back to the default location.
func (g Globals) Path() string {
	if g.ConfigPath != "" {
		return g.ConfigPath
	}
	return config.DefaultConfigPath()
}

// LoadConfig loads the config file with environment overrides, then applies
// any explicitly set flags. An explicit --config path must exist.
func (g Globals) LoadConfig(fsys afero.Fs) (*config.Config, error) {
	if g.outputSet {
		if err := view.ValidateFormat(g.Output); err != nil {
			return nil, err
		}
	}

	path := g.Path()
	var (
		cfg *config.Config
		err error
	)
	if g.ConfigPath != "" {
		cfg, err = config.Load(fsys, path)
		if err == nil {
			err = cfg.LoadFromEnv()
		}
	} else {
		cfg, err = config.LoadWithEnv(fsys, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'bbl init' to configure)", err)
	}

	if g.outputSet || cfg.OutputFormat == "" {
		cfg.OutputFormat = g.Output
	}
	if g.noColorSet {
		cfg.NoColor = g.NoColor
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Renderer returns a renderer for the configured format writing to w.
func Renderer(cfg *config.Config, w io.Writer) *view.Renderer {
	r := view.NewRenderer(view.Format(cfg.OutputFormat), cfg.NoColor)
	r.SetWriter(w)
	return r
}

// NewLogger returns a logger writing to w. Verbosity 0 logs warnings,
// 1 adds info and 2 or more adds debug output.
func NewLogger(w io.Writer, verbose int, noColor bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:    noColor,
		DisableTimestamp: true,
	})
	switch {
	case verbose >= 2:
		log.SetLevel(logrus.DebugLevel)
	case verbose == 1:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// ParseOptions builds the parser options for cfg.
func ParseOptions(cfg *config.Config, log logrus.FieldLogger) ([]bbcode.Option, error) {
	reg, err := cfg.BuildRegistry()
	if err != nil {
		return nil, err
	}
	trie, err := cfg.BuildTrie()
	if err != nil {
		return nil, err
	}
	return []bbcode.Option{
		bbcode.WithGrammar(reg),
		bbcode.WithTrie(trie),
		bbcode.WithLogger(log),
	}, nil
}

// Env is what a command needs at run time. Tests build one directly.
type Env struct {
	Fs     afero.Fs
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
	Log    *logrus.Logger
}

// NewEnv loads the configuration for cmd and wires the OS streams.
func NewEnv(cmd *cobra.Command) (*Env, error) {
	g := GlobalsFrom(cmd)
	fsys := afero.NewOsFs()
	cfg, err := g.LoadConfig(fsys)
	if err != nil {
		return nil, err
	}
	return &Env{
		Fs:     fsys,
		Stdin:  os.Stdin,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Config: cfg,
		Log:    NewLogger(cmd.ErrOrStderr(), g.Verbose, cfg.NoColor),
	}, nil
}
