// Package render provides the render command.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bbcode-lint/internal/input"
	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

type renderOptions struct {
	to      string
	outFile string
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Convert BBCode to HTML, Markdown or plain text",
		Long: `Parse a document and convert the recovered tree. Diagnostics are not
printed; run 'bbl lint' to see them.`,
		Example: `  # HTML to stdout
  bbl render post.bb

  # Markdown into a file
  bbl render post.bb --to markdown --out post.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.NewEnv(cmd)
			if err != nil {
				return err
			}
			return runRender(args, opts, env)
		},
	}

	cmd.Flags().StringVarP(&opts.to, "to", "t", "html", "Target format: html, markdown, text")
	cmd.Flags().StringVar(&opts.outFile, "out", "", "Write to this file instead of stdout")

	return cmd
}

func runRender(args []string, opts *renderOptions, env *cmdutil.Env) error {
	convert, err := converter(opts.to)
	if err != nil {
		return err
	}

	sources, err := (&input.Reader{Fs: env.Fs, Stdin: env.Stdin}).Read(args)
	if err != nil {
		return err
	}
	parseOpts, err := cmdutil.ParseOptions(env.Config, env.Log)
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, src := range sources {
		doc := bbcode.Parse(src.Text, parseOpts...)
		out, err := convert(doc.Nodes)
		if err != nil {
			return fmt.Errorf("%s: %w", src.Name, err)
		}
		sb.WriteString(out)
		if !strings.HasSuffix(out, "\n") {
			sb.WriteByte('\n')
		}
	}

	if opts.outFile != "" {
		if err := afero.WriteFile(env.Fs, opts.outFile, []byte(sb.String()), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		env.Log.WithField("path", opts.outFile).Info("rendered")
		return nil
	}
	_, err = io.WriteString(env.Stdout, sb.String())
	return err
}

func converter(to string) (func([]*bbcode.Node) (string, error), error) {
	switch strings.ToLower(to) {
	case "html":
		return func(n []*bbcode.Node) (string, error) { return bbcode.RenderHTML(n), nil }, nil
	case "markdown", "md":
		return bbcode.ToMarkdown, nil
	case "text", "plain":
		return func(n []*bbcode.Node) (string, error) { return bbcode.PlainText(n), nil }, nil
	default:
		return nil, fmt.Errorf("invalid target %q: must be html, markdown or text", to)
	}
}
