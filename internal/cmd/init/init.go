// Package init provides the init command for bbl.
package init

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bbcode-lint/internal/config"
	"github.com/open-cli-collective/bbcode-lint/internal/view"
	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

// diagnosticNames lists every name the parser and built-in validators emit.
var diagnosticNames = []string{
	bbcode.DiagUnknownOpenTag,
	bbcode.DiagUnmatchedTagType,
	bbcode.DiagBadParameter,
	bbcode.DiagUnknownCloseTag,
	bbcode.DiagUnpairedCloseTag,
	bbcode.DiagMissingCloseTag,
	bbcode.DiagIncompleteTag,
	bbcode.DiagUnexpectedNode,
	"color-upper-keyword",
	"color-upper-hex",
	"size-upper-keyword",
	"size-upper-unit",
	"font-name-empty",
	"font-name-dirty",
}

type initOptions struct {
	force    bool
	defaults bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize bbl configuration",
		Long: `Create a bbl configuration file.

This command asks for the default output format, the lowest severity to
report and any diagnostics to turn off. The configuration will be saved to
~/.config/bbl/config.yml unless --config is given.

Custom tags and constants can be added to the file afterwards; see
'bbl config test' to check them.`,
		Example: `  # Interactive setup
  bbl init

  # Write the defaults without prompting
  bbl init --defaults --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := cmdutil.GlobalsFrom(cmd)
			return runInit(afero.NewOsFs(), g.Path(), cmd.OutOrStdout(), opts, askConfig)
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config without asking")
	cmd.Flags().BoolVar(&opts.defaults, "defaults", false, "Skip the prompts and write default values")

	return cmd
}

// asker fills cfg interactively.
type asker func(cfg *config.Config) error

func runInit(fsys afero.Fs, configPath string, w io.Writer, opts *initOptions, ask asker) error {
	// Check if config already exists
	if exists, _ := afero.Exists(fsys, configPath); exists && !opts.force {
		if opts.defaults {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		OutputFormat: string(view.FormatText),
		MinSeverity:  bbcode.SeverityTidy.String(),
	}
	if !opts.defaults {
		if err := ask(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(fsys, configPath); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(w, "\nYou're all set! Try running:")
	fmt.Fprintln(w, "  bbl lint post.bb")
	fmt.Fprintln(w, "  bbl config show")

	return nil
}

func askConfig(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Description("Default format for lint results").
				Options(huh.NewOptions(view.ValidFormats()...)...).
				Value(&cfg.OutputFormat),

			huh.NewSelect[string]().
				Title("Minimum severity").
				Description("Less severe diagnostics are not reported").
				Options(
					huh.NewOption("Notes and above", bbcode.SeverityTidy.String()),
					huh.NewOption("Warnings and errors", bbcode.SeverityWarning.String()),
					huh.NewOption("Errors only", bbcode.SeverityError.String()),
				).
				Value(&cfg.MinSeverity),

			huh.NewMultiSelect[string]().
				Title("Disabled diagnostics (optional)").
				Description("Selected diagnostics are never reported").
				Options(huh.NewOptions(diagnosticNames...)...).
				Value(&cfg.Disabled),

			huh.NewConfirm().
				Title("Disable colors?").
				Value(&cfg.NoColor),
		),
	)

	return form.Run()
}
