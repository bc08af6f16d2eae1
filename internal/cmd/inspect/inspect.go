// Package inspect provides the lex and parse debugging commands.
package inspect

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bbcode-lint/internal/input"
	"github.com/open-cli-collective/bbcode-lint/internal/view"
	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

// NewCmdLex creates the lex command.
func NewCmdLex() *cobra.Command {
	return &cobra.Command{
		Use:   "lex [file]",
		Short: "Print the tokens of a BBCode document",
		Long:  `Run only the lexer and print one token per line with its position.`,
		Example: `  # Show tokens
  echo '[b]hi :)[/b]' | bbl lex

  # As JSON
  bbl lex post.bb -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.NewEnv(cmd)
			if err != nil {
				return err
			}
			return runLex(args, env)
		},
	}
}

// NewCmdParse creates the parse command.
func NewCmdParse() *cobra.Command {
	var showMessages bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the parse tree of a BBCode document",
		Long: `Parse a document and print its tree. Each line shows the node type, tag
name or text, position and span in bytes.`,
		Example: `  # Show the tree
  bbl parse post.bb

  # Tree and diagnostics as JSON
  bbl parse post.bb -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.NewEnv(cmd)
			if err != nil {
				return err
			}
			return runParse(args, showMessages, env)
		},
	}

	cmd.Flags().BoolVarP(&showMessages, "messages", "m", false, "Also print diagnostics after the tree")

	return cmd
}

func readOne(args []string, env *cmdutil.Env) (input.Source, error) {
	sources, err := (&input.Reader{Fs: env.Fs, Stdin: env.Stdin}).Read(args)
	if err != nil {
		return input.Source{}, err
	}
	if len(sources) != 1 {
		return input.Source{}, errors.New("expected exactly one input")
	}
	return sources[0], nil
}

func runLex(args []string, env *cmdutil.Env) error {
	src, err := readOne(args, env)
	if err != nil {
		return err
	}
	trie, err := env.Config.BuildTrie()
	if err != nil {
		return err
	}

	tokens := bbcode.Lex(src.Text, bbcode.WithTrie(trie))
	return cmdutil.Renderer(env.Config, env.Stdout).Tokens(tokens)
}

func runParse(args []string, showMessages bool, env *cmdutil.Env) error {
	src, err := readOne(args, env)
	if err != nil {
		return err
	}
	opts, err := cmdutil.ParseOptions(env.Config, env.Log)
	if err != nil {
		return err
	}

	doc := bbcode.Parse(src.Text, opts...)
	doc.Messages = env.Config.Filter(doc.Messages)
	if doc.Messages == nil {
		doc.Messages = []bbcode.Message{}
	}

	renderer := cmdutil.Renderer(env.Config, env.Stdout)
	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(doc)
	}
	if err := renderer.Tree(doc.Nodes); err != nil {
		return err
	}
	if showMessages {
		return renderer.Diagnostics(src.Name, src.Text, doc.Messages)
	}
	return nil
}
