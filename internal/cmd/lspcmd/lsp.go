// Package lspcmd provides the lsp command.
package lspcmd

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	// Registers the stderr log backend used by glsp.
	_ "github.com/tliron/commonlog/simple"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bbcode-lint/internal/lsp"
	"github.com/open-cli-collective/bbcode-lint/internal/version"
)

type lspOptions struct {
	tcp     string
	logFile string
}

// NewCmdLSP creates the lsp command.
func NewCmdLSP() *cobra.Command {
	opts := &lspOptions{}

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run a language server for BBCode files",
		Long: `Start a Language Server Protocol server that publishes bbl diagnostics
for open documents and completes tag names.

The server talks over stdin and stdout unless --tcp is given. Logs go to
stderr or --log-file.`,
		Example: `  # Editor integration
  bbl lsp

  # Listen on a port
  bbl lsp --tcp localhost:7998`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmdutil.NewEnv(cmd)
			if err != nil {
				return err
			}
			return runLSP(opts, env, cmdutil.GlobalsFrom(cmd).Verbose)
		},
	}

	cmd.Flags().StringVar(&opts.tcp, "tcp", "", "Listen on this address instead of stdio")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write server logs to this file")

	return cmd
}

func runLSP(opts *lspOptions, env *cmdutil.Env, verbose int) error {
	var path *string
	if opts.logFile != "" {
		path = &opts.logFile
	}
	commonlog.Configure(verbose, path)

	reg, err := env.Config.BuildRegistry()
	if err != nil {
		return err
	}
	trie, err := env.Config.BuildTrie()
	if err != nil {
		return err
	}

	srv := lsp.NewServer(lsp.Options{
		Version:  version.Version,
		Config:   env.Config,
		Registry: reg,
		Trie:     trie,
	})
	if opts.tcp != "" {
		return srv.RunTCP(opts.tcp)
	}
	return srv.RunStdio()
}
