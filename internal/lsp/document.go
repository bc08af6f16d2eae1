// document.go tracks open document text: position conversion, edits and tag context.
package lsp

import (
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// positionAt converts a byte offset into an LSP position, whose character
// counts UTF-16 code units.
func positionAt(text string, offset int) protocol.Position {
	offset = max(0, min(offset, len(text)))
	line := strings.Count(text[:offset], "\n")
	start := strings.LastIndexByte(text[:offset], '\n') + 1

	char := 0
	for _, r := range text[start:offset] {
		char += utf16.RuneLen(r)
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

// offsetAt converts an LSP position into a byte offset. Positions past the
// end of a line clamp to the line end.
func offsetAt(text string, pos protocol.Position) int {
	off := 0
	for i := protocol.UInteger(0); i < pos.Line; i++ {
		nl := strings.IndexByte(text[off:], '\n')
		if nl < 0 {
			return len(text)
		}
		off += nl + 1
	}

	units := 0
	for i, r := range text[off:] {
		if r == '\n' || units >= int(pos.Character) {
			return off + i
		}
		units += utf16.RuneLen(r)
	}
	return len(text)
}

// applyChanges applies didChange events in order.
func applyChanges(text string, changes []any) string {
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				continue
			}
			start := offsetAt(text, c.Range.Start)
			end := max(start, offsetAt(text, c.Range.End))
			text = text[:start] + c.Text + text[end:]
		}
	}
	return text
}

// tagPrefix reports whether the cursor at offset is inside a tag name being
// typed, and whether that tag is a close tag.
func tagPrefix(text string, offset int) (inTag, closing bool) {
	offset = max(0, min(offset, len(text)))
	open := strings.LastIndexByte(text[:offset], '[')
	if open < 0 {
		return false, false
	}
	name := text[open+1 : offset]
	closing = strings.HasPrefix(name, "/")
	if strings.ContainsAny(strings.TrimPrefix(name, "/"), "[]=/ \t\n") {
		return false, false
	}
	return true, closing
}
