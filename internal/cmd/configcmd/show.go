package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bbcode-lint/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective bbl configuration and where each value comes from.`,
		Example: `  # Show current config
  bbl config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := cmdutil.GlobalsFrom(cmd)
			return runShow(afero.NewOsFs(), g.Path(), cmd.OutOrStdout(), g.NoColor)
		},
	}

	return cmd
}

func runShow(fsys afero.Fs, configPath string, w io.Writer, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(fsys, configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, err := config.LoadWithEnv(fsys, configPath)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, key string) {
		_, _ = bold.Fprintf(w, "%-14s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(w, "-")
			return
		}
		fmt.Fprint(w, value)

		source := "-"
		if name := envVar(key); key != "" && os.Getenv(name) != "" {
			source = name
		} else if fileErr == nil && fileValue == value {
			source = "config"
		}
		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat, "output")
	printField("No color", boolString(cfg.NoColor), boolString(fileCfg.NoColor), "no_color")
	printField("Min severity", cfg.MinSeverity, fileCfg.MinSeverity, "min_severity")
	printField("Disabled", strings.Join(cfg.Disabled, ","), strings.Join(fileCfg.Disabled, ","), "disabled")
	printField("Constants", countString(len(cfg.Constants)), countString(len(fileCfg.Constants)), "")
	printField("Custom tags", countString(len(cfg.Tags)), countString(len(fileCfg.Tags)), "")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}

func boolString(b bool) string {
	if !b {
		return ""
	}
	return "true"
}

func countString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
