package configcmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bbcode-lint/internal/config"
	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check that the configuration loads",
		Long: `Load the configuration, build the tag grammar and constant set from it,
and parse a sample using every custom tag.`,
		Example: `  # Check config
  bbl config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := cmdutil.GlobalsFrom(cmd)
			return runTest(afero.NewOsFs(), g.Path(), cmd.OutOrStdout(), g.NoColor)
		},
	}

	return cmd
}

func runTest(fsys afero.Fs, configPath string, w io.Writer, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	fail := func(what string, err error) error {
		_, _ = red.Fprintf(w, "✗ %s: %v\n", what, err)
		fmt.Fprintln(w, "\nCheck your settings with: bbl config show")
		return fmt.Errorf("%s: %w", what, err)
	}

	cfg, err := config.LoadWithEnv(fsys, configPath)
	if err != nil {
		return fail("failed to load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return fail("invalid config", err)
	}
	_, _ = green.Fprintln(w, "✓ Configuration is valid")

	reg, err := cfg.BuildRegistry()
	if err != nil {
		return fail("failed to build grammar", err)
	}
	_, _ = green.Fprintf(w, "✓ Grammar has %d tags (%d custom)\n", len(reg.Names()), len(cfg.Tags))

	trie, err := cfg.BuildTrie()
	if err != nil {
		return fail("failed to build constants", err)
	}
	_, _ = green.Fprintf(w, "✓ %d constants\n", trie.Len())

	opts := []bbcode.Option{bbcode.WithGrammar(reg), bbcode.WithTrie(trie)}
	for _, t := range cfg.Tags {
		sample := sampleFor(t)
		doc := bbcode.Parse(sample, opts...)
		for _, m := range doc.Messages {
			if m.Name == bbcode.DiagUnknownOpenTag || m.Name == bbcode.DiagUnmatchedTagType {
				return fail("tag "+t.Name, fmt.Errorf("sample %q not recognized: %s", sample, m.Text))
			}
		}
	}
	if len(cfg.Tags) > 0 {
		_, _ = green.Fprintln(w, "✓ Custom tags parse")
	}

	return nil
}

// sampleFor returns a minimal open tag for t.
func sampleFor(t config.TagConfig) string {
	if !strings.EqualFold(t.Shape, "parametric") {
		return "[" + t.Name + "]"
	}
	param := "x"
	switch {
	case len(t.Values) > 0:
		param = t.Values[0]
	case t.Validator == "color":
		param = "red"
	case t.Validator == "size":
		param = "1"
	}
	return "[" + t.Name + "=" + param + "]"
}
