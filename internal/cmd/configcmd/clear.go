package configcmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
)

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the bbl configuration file. Environment variables will still be used if set.`,
		Example: `  # Clear config
  bbl config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := cmdutil.GlobalsFrom(cmd)
			return runClear(afero.NewOsFs(), g.Path(), cmd.OutOrStdout(), g.NoColor)
		},
	}

	return cmd
}

func runClear(fsys afero.Fs, configPath string, w io.Writer, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	err := fsys.Remove(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	if os.IsNotExist(err) {
		_, _ = green.Fprintln(w, "✓ No config file to remove")
	} else {
		_, _ = green.Fprintf(w, "✓ Configuration cleared from %s\n", configPath)
	}

	if active := activeEnv(); len(active) > 0 {
		_, _ = dim.Fprintf(w, "\nNote: Environment variables will still be used: %s\n", strings.Join(active, ", "))
	}

	return nil
}
