// Package lint provides the lint command.
package lint

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-lint/internal/cmd/cmdutil"
	"github.com/open-cli-collective/bbcode-lint/internal/input"
	"github.com/open-cli-collective/bbcode-lint/internal/report"
	"github.com/open-cli-collective/bbcode-lint/internal/view"
	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

// ErrProblems is returned when a lint run finds errors, or warnings in
// strict mode.
var ErrProblems = errors.New("problems found")

type lintOptions struct {
	strict      bool
	minSeverity string
	disable     []string
	reportPath  string
}

// NewCmdLint creates the lint command.
func NewCmdLint() *cobra.Command {
	opts := &lintOptions{}

	cmd := &cobra.Command{
		Use:   "lint [file...]",
		Short: "Check BBCode for problems",
		Long: `Parse BBCode and report unknown tags, unpaired or missing close tags,
bad parameters and misplaced nodes.

Reads standard input when no file is given or the file is "-".
Exits with status 1 when errors are found, or warnings with --strict.`,
		Example: `  # Lint a file
  bbl lint post.bb

  # Lint stdin and only show warnings and errors
  cat post.bb | bbl lint --min-severity warning

  # Fail on warnings and save an HTML report
  bbl lint --strict --report report.html *.bb`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.NewEnv(cmd)
			if err != nil {
				return err
			}
			return runLint(args, opts, env)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Treat warnings as failures")
	cmd.Flags().StringVar(&opts.minSeverity, "min-severity", "", "Minimum severity to report: tidy, warning, error")
	cmd.Flags().StringSliceVar(&opts.disable, "disable", nil, "Diagnostic names to suppress (repeatable)")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Also write a report to this file (.md for Markdown, otherwise HTML)")

	cmd.ValidArgsFunction = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"bb", "bbcode", "txt"}, cobra.ShellCompDirectiveFilterFileExt
	}
	_ = cmd.RegisterFlagCompletionFunc("min-severity", cobra.FixedCompletions(
		[]string{"tidy", "warning", "error"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func runLint(paths []string, opts *lintOptions, env *cmdutil.Env) error {
	cfg := env.Config
	if opts.minSeverity != "" {
		if _, err := bbcode.ParseSeverity(opts.minSeverity); err != nil {
			return err
		}
		cfg.MinSeverity = opts.minSeverity
	}
	cfg.Disabled = append(cfg.Disabled, opts.disable...)

	parseOpts, err := cmdutil.ParseOptions(cfg, env.Log)
	if err != nil {
		return err
	}

	sources, err := (&input.Reader{Fs: env.Fs, Stdin: env.Stdin}).Read(paths)
	if err != nil {
		return err
	}

	renderer := cmdutil.Renderer(cfg, env.Stdout)
	var (
		results []report.Result
		reports []view.Report
		total   view.Report
	)
	for _, src := range sources {
		doc := bbcode.Parse(src.Text, parseOpts...)
		msgs := cfg.Filter(doc.Messages)
		env.Log.WithFields(logrus.Fields{
			"file":     src.Name,
			"nodes":    len(doc.Nodes),
			"messages": len(doc.Messages),
			"reported": len(msgs),
		}).Info("linted")

		rep := view.NewReport(src.Name, msgs)
		total.Errors += rep.Errors
		total.Warnings += rep.Warnings
		total.Notes += rep.Notes
		results = append(results, report.Result{Name: src.Name, Messages: msgs})

		if renderer.Format() == view.FormatJSON {
			reports = append(reports, rep)
			continue
		}
		if err := renderer.Diagnostics(src.Name, src.Text, msgs); err != nil {
			return err
		}
	}

	if renderer.Format() == view.FormatJSON {
		if err := renderer.RenderJSON(reports); err != nil {
			return err
		}
	} else if total.Errors+total.Warnings+total.Notes > 0 {
		renderer.Summary(total)
	}

	if opts.reportPath != "" {
		if err := report.Write(env.Fs, opts.reportPath, results); err != nil {
			return err
		}
		env.Log.WithField("path", opts.reportPath).Info("report written")
		if renderer.Format() == view.FormatText {
			renderer.Success("Report written to " + opts.reportPath)
		}
	}

	if total.Errors > 0 || (opts.strict && total.Warnings > 0) {
		return fmt.Errorf("%w: %d error(s), %d warning(s)", ErrProblems, total.Errors, total.Warnings)
	}
	return nil
}
