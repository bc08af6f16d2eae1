// render.go renders parse trees to HTML, Markdown and plain text.
package bbcode

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark/util"
)

// simpleElements maps Simple tags to the HTML element they render as.
var simpleElements = map[string]string{
	"b":     "strong",
	"i":     "em",
	"x":     "s",
	"table": "table",
	"tr":    "tr",
	"td":    "td",
}

// RenderHTML renders nodes as an HTML fragment. Invalid nodes are skipped.
func RenderHTML(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		renderHTML(&sb, n, false)
	}
	return sb.String()
}

func renderHTML(sb *strings.Builder, n *Node, verbatim bool) {
	switch n.Type {
	case NodeLiteral:
		sb.Write(util.EscapeHTML([]byte(n.Data)))
		return
	case NodeConstant:
		sb.WriteString(`<span class="bbcode-constant">`)
		sb.Write(util.EscapeHTML([]byte(n.Data)))
		sb.WriteString(`</span>`)
		return
	case NodeNewline:
		if verbatim {
			sb.WriteString("\n")
		} else {
			sb.WriteString("<br>\n")
		}
		return
	case NodeInvalid, NodeEnd:
		return
	case NodeOmission:
		if n.Name == "hr" {
			sb.WriteString("<hr>\n")
		} else {
			sb.WriteString(`<span class="bbcode-` + attr(n.Name) + `"></span>`)
		}
		return
	}

	start, end := htmlElement(n)
	sb.WriteString(start)
	for _, c := range n.Children {
		renderHTML(sb, c, verbatim || n.Type == NodeVerbatim)
	}
	sb.WriteString(end)
}

// htmlElement returns the open and close markup for a container node.
func htmlElement(n *Node) (string, string) {
	if n.Type == NodeVerbatim {
		return `<pre><code>`, `</code></pre>`
	}
	if el, ok := simpleElements[n.Name]; ok && n.Type == NodeSimple {
		return "<" + el + ">", "</" + el + ">"
	}

	switch n.Name {
	case "center":
		return `<div style="text-align:center">`, `</div>`
	case "font":
		return `<span style="font-family:` + attr(cssValue(n.Data)) + `">`, `</span>`
	case "size":
		if len(n.Data) == 1 && n.Data[0] >= '1' && n.Data[0] <= '7' {
			return `<font size="` + n.Data + `">`, `</font>`
		}
		return `<span style="font-size:` + attr(cssValue(n.Data)) + `">`, `</span>`
	case "color":
		return `<span style="color:` + attr(cssValue(n.Data)) + `">`, `</span>`
	case "url":
		if !safeURL(n.Data) {
			return `<a>`, `</a>`
		}
		return `<a href="` + attr(string(util.URLEscape([]byte(n.Data), false))) + `">`, `</a>`
	case "list":
		switch n.Data {
		case "1":
			return `<ol>`, `</ol>`
		case "a":
			return `<ol type="a">`, `</ol>`
		}
		return `<ul>`, `</ul>`
	case "*":
		return `<li>`, `</li>`
	case "table":
		return `<table style="background-color:` + attr(cssValue(n.Data)) + `">`, `</table>`
	}
	return `<span class="bbcode-` + attr(n.Name) + `">`, `</span>`
}

func attr(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

// cssValue removes characters that could end a declaration or start a function
// inside a style attribute.
func cssValue(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', ':', '(', ')', '{', '}', '\\':
			return -1
		}
		return r
	}, s)
}

// safeURL reports whether u may be used as an href: relative, or http, https
// or mailto. Whitespace and control characters are ignored when finding the
// scheme, as browsers do.
func safeURL(u string) bool {
	u = strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, u)
	i := strings.IndexAny(u, ":/?#")
	if i < 0 || u[i] != ':' {
		return true
	}
	switch strings.ToLower(u[:i]) {
	case "http", "https", "mailto":
		return true
	}
	return false
}

// ToMarkdown renders nodes as Markdown by converting the HTML rendering.
func ToMarkdown(nodes []*Node) (string, error) {
	html := RenderHTML(nodes)
	if html == "" {
		return "", nil
	}
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(markdown), nil
}

// PlainText returns the text content of nodes with all markup removed.
// Omission tags such as [hr] become line breaks.
func PlainText(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		plainText(&sb, n)
	}
	return sb.String()
}

func plainText(sb *strings.Builder, n *Node) {
	switch n.Type {
	case NodeLiteral, NodeConstant, NodeNewline:
		sb.WriteString(n.Data)
	case NodeInvalid, NodeEnd:
	case NodeOmission:
		sb.WriteString("\n")
	default:
		for _, c := range n.Children {
			plainText(sb, c)
		}
	}
}
