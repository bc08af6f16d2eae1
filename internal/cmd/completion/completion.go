// Package completion provides shell completion generation commands.
package completion

import (
	"io"

	"github.com/spf13/cobra"
)

type shell struct {
	name    string
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name: "bash",
		install: `  source <(bbl completion bash)

To load completions for every new session:

  bbl completion bash > /etc/bash_completion.d/bbl`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletion(w) },
	},
	{
		name: "zsh",
		install: `  source <(bbl completion zsh)

To load completions for every new session, make sure compinit runs in
~/.zshrc and add the script to your fpath:

  bbl completion zsh > "${fpath[1]}/_bbl"`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		name: "fish",
		install: `  bbl completion fish | source

To load completions for every new session:

  bbl completion fish > ~/.config/fish/completions/bbl.fish`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		name: "powershell",
		install: `  bbl completion powershell | Out-String | Invoke-Expression

To load completions for every new session, add the line above to your
PowerShell profile.`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for bbl.

These scripts enable tab-completion for commands, flags, and diagnostic
names. See each sub-command's help for installation instructions.`,
	}

	for _, sh := range shells {
		cmd.AddCommand(newCmdShell(sh))
	}

	return cmd
}

func newCmdShell(sh shell) *cobra.Command {
	return &cobra.Command{
		Use:                   sh.name,
		Short:                 "Generate " + sh.name + " completion script",
		Long:                  "Generate " + sh.name + " completion script for bbl.\n\nTo load completions in your current shell session:\n\n" + sh.install,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sh.gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
