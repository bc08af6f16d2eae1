// Package report builds shareable lint reports in Markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// Result holds the messages reported for one input.
type Result struct {
	Name     string
	Messages []bbcode.Message
}

func (r Result) count(sev bbcode.Severity) int {
	n := 0
	for _, m := range r.Messages {
		if m.Severity == sev {
			n++
		}
	}
	return n
}

// Markdown renders results as a summary table followed by one section per input.
func Markdown(results []Result) string {
	var b strings.Builder
	b.WriteString("# BBCode lint report\n\n")
	b.WriteString("| File | Errors | Warnings | Notes |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", cell(r.Name),
			r.count(bbcode.SeverityError), r.count(bbcode.SeverityWarning), r.count(bbcode.SeverityTidy))
	}

	for _, r := range results {
		fmt.Fprintf(&b, "\n## %s\n\n", r.Name)
		if len(r.Messages) == 0 {
			b.WriteString("No problems found.\n")
			continue
		}
		b.WriteString("| Location | Severity | Diagnostic | Message |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, m := range r.Messages {
			fmt.Fprintf(&b, "| %s | %s | `%s` | %s |\n", m.Pos, m.Severity.Label(), m.Name, cell(m.Text))
		}
	}
	return b.String()
}

// HTML renders the Markdown report to HTML.
func HTML(results []Result) (string, error) {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(Markdown(results)), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

// Write saves the report to path. Files ending in .md get Markdown, anything
// else gets HTML.
func Write(fsys afero.Fs, path string, results []Result) error {
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		content = Markdown(results)
	default:
		html, err := HTML(results)
		if err != nil {
			return err
		}
		content = html
	}

	if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
