package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

// Report is the JSON shape of a lint run over one input.
type Report struct {
	File     string           `json:"file"`
	Messages []bbcode.Message `json:"messages"`
	Errors   int              `json:"errors"`
	Warnings int              `json:"warnings"`
	Notes    int              `json:"notes"`
}

// NewReport counts msgs by severity.
func NewReport(file string, msgs []bbcode.Message) Report {
	rep := Report{File: file, Messages: msgs}
	if rep.Messages == nil {
		rep.Messages = []bbcode.Message{}
	}
	for _, m := range msgs {
		switch m.Severity {
		case bbcode.SeverityError:
			rep.Errors++
		case bbcode.SeverityWarning:
			rep.Warnings++
		default:
			rep.Notes++
		}
	}
	return rep
}

var severityColors = map[bbcode.Severity]*color.Color{
	bbcode.SeverityTidy:    color.New(color.FgCyan, color.Bold),
	bbcode.SeverityWarning: color.New(color.FgMagenta, color.Bold),
	bbcode.SeverityError:   color.New(color.FgRed, color.Bold),
}

// Diagnostics prints the messages found in src. Text output shows each
// message with the offending source line and a marker under its span.
func (r *Renderer) Diagnostics(file, src string, msgs []bbcode.Message) error {
	switch r.format {
	case FormatJSON:
		return r.RenderJSON(NewReport(file, msgs))
	case FormatPlain:
		for _, m := range msgs {
			fmt.Fprintf(r.writer, "%s\t%d\t%d\t%s\t%s\t%s\n",
				file, m.Pos.Line+1, m.Pos.Column+1, m.Severity, m.Name, m.Text)
		}
		return nil
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	for _, m := range msgs {
		c, ok := severityColors[m.Severity]
		if !ok {
			c = severityColors[bbcode.SeverityError]
		}
		bold.Fprintf(r.writer, "%s:%s: ", file, m.Pos)
		c.Fprintf(r.writer, "%s:", m.Severity.Label())
		fmt.Fprintf(r.writer, " %s ", m.Text)
		dim.Fprintf(r.writer, "[-W%s]", m.Name)
		fmt.Fprintln(r.writer)

		line, marker := Excerpt(src, m.Pos.Offset, m.Span)
		fmt.Fprintln(r.writer, line)
		color.New(color.FgGreen, color.Bold).Fprintln(r.writer, marker)
	}
	return nil
}

// Excerpt returns the source line holding offset and a marker line with a
// caret under offset followed by tildes for the rest of span on that line.
// Tabs in the prefix are preserved so the marker lines up in a terminal.
func Excerpt(src string, offset, span int) (line, marker string) {
	offset = max(0, min(offset, len(src)))
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += offset
	}
	line = strings.TrimSuffix(src[start:end], "\r")

	var pad strings.Builder
	for _, r := range src[start:offset] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	width := runewidth.StringWidth(src[offset:min(offset+max(span, 0), end)])
	return line, pad.String() + "^" + strings.Repeat("~", max(width-1, 0))
}

// Summary prints the closing count line of a text report.
func (r *Renderer) Summary(rep Report) {
	if r.format != FormatText {
		return
	}
	fmt.Fprintf(r.writer, "%s, %s and %s generated.\n",
		plural(rep.Errors, "error"), plural(rep.Warnings, "warning"), plural(rep.Notes, "note"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// Tokens prints a lexer dump, one token per line.
func (r *Renderer) Tokens(tokens []bbcode.Token) error {
	if r.format == FormatJSON {
		return r.RenderJSON(tokens)
	}
	for _, t := range tokens {
		if r.format == FormatPlain {
			fmt.Fprintf(r.writer, "%d\t%d\t%s\t%s\n", t.Pos.Line+1, t.Pos.Column+1, t.Type, strconv.Quote(t.Source()))
			continue
		}
		fmt.Fprintf(r.writer, "%s [%s]: `%s`\n", t.Pos, t.Type, escapeNewlines(t.Source()))
	}
	return nil
}

// Tree prints the parse tree as an indented outline.
func (r *Renderer) Tree(nodes []*bbcode.Node) error {
	if r.format == FormatJSON {
		return r.RenderJSON(nodes)
	}
	for _, n := range nodes {
		r.node(n, 0)
	}
	return nil
}

// maxTreeData caps the node data shown in the tree outline.
const maxTreeData = 60

func (r *Renderer) node(n *bbcode.Node, depth int) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Type.String())
	if n.Name != "" {
		b.WriteString(" " + n.Name)
	}
	if n.Data != "" {
		b.WriteString(" " + strconv.Quote(Truncate(n.Data, maxTreeData)))
	}
	fmt.Fprintf(r.writer, "%s @%s+%d\n", b.String(), n.Pos, n.Span)
	for _, c := range n.Children {
		r.node(c, depth+1)
	}
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
