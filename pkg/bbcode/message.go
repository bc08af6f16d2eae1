// message.go defines parser diagnostics.
package bbcode

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityTidy    Severity = iota // cosmetic; the input is fine but could be cleaner
	SeverityWarning                 // structural problem that was recovered
	SeverityError                   // a tag parameter failed validation
)

func (s Severity) String() string {
	switch s {
	case SeverityTidy:
		return "tidy"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Label is the capitalized name used in human-readable output.
func (s Severity) Label() string {
	switch s {
	case SeverityTidy:
		return "Note"
	case SeverityWarning:
		return "Warning"
	default:
		return "Error"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity parses "tidy", "note", "warning" or "error".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tidy", "note":
		return SeverityTidy, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return 0, fmt.Errorf("invalid severity %q (must be tidy, warning or error)", s)
	}
}

// Diagnostic names emitted by the Parser. Validators add their own.
const (
	DiagUnknownOpenTag   = "unknown-open-tag"
	DiagUnmatchedTagType = "unmatched-tag-type"
	DiagBadParameter     = "bad-parameter"
	DiagUnknownCloseTag  = "unknown-close-tag"
	DiagUnpairedCloseTag = "unpaired-close-tag"
	DiagMissingCloseTag  = "missing-close-tag"
	DiagIncompleteTag    = "incomplete-tag"
	DiagUnexpectedNode   = "unexpected-node"
)

// Message is a diagnostic attached to a source range.
type Message struct {
	Severity Severity `json:"severity"`
	Pos      Position `json:"pos"`
	Span     int      `json:"span"`
	Name     string   `json:"name"`
	Text     string   `json:"text"`
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %s: %s [-W%s]", m.Pos, m.Severity.Label(), m.Text, m.Name)
}
