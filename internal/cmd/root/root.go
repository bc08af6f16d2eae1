// Package root provides the root command for the bbl CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bbcode-lint/internal/cmd/completion"
	"github.com/open-cli-collective/bbcode-lint/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/bbcode-lint/internal/cmd/init"
	"github.com/open-cli-collective/bbcode-lint/internal/cmd/inspect"
	"github.com/open-cli-collective/bbcode-lint/internal/cmd/lint"
	"github.com/open-cli-collective/bbcode-lint/internal/cmd/lspcmd"
	"github.com/open-cli-collective/bbcode-lint/internal/cmd/render"
	"github.com/open-cli-collective/bbcode-lint/internal/cmd/tags"
	"github.com/open-cli-collective/bbcode-lint/internal/version"
)

// NewCmdRoot creates the root command for bbl.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bbl",
		Short: "A linter for BBCode",
		Long: `bbl checks BBCode markup for unknown tags, unpaired or missing close
tags, bad parameters and misplaced nodes.

It recovers from broken markup the way forum renderers do and reports
what it had to repair, with the source line and a marker under the
offending text.

Get started by running: bbl lint post.bb`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmdutil.AddGlobalFlags(cmd)

	// Set version template
	cmd.SetVersionTemplate("bbl version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(lint.NewCmdLint())
	cmd.AddCommand(inspect.NewCmdLex())
	cmd.AddCommand(inspect.NewCmdParse())
	cmd.AddCommand(render.NewCmdRender())
	cmd.AddCommand(tags.NewCmdTags())
	cmd.AddCommand(lspcmd.NewCmdLSP())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
