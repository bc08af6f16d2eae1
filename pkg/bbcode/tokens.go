// tokens.go defines the tokens produced by the Lexer and source positions.
package bbcode

import "fmt"

// Position is a 0-based location in the source. Column counts runes on the
// current line; Offset counts bytes from the start of input.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Advance returns the position just after s, assuming s starts at p.
func (p Position) Advance(s string) Position {
	for i := 0; i < len(s); i++ {
		p = p.next(s[i])
	}
	return p
}

func (p Position) next(b byte) Position {
	p.Offset++
	switch {
	case b == '\n':
		p.Line++
		p.Column = 0
	case b&0xC0 != 0x80:
		p.Column++
	}
	return p
}

// TokenType identifies a lexical token.
type TokenType int

const (
	TokenNewline      TokenType = iota // \n
	TokenOpenTagLeft                   // [
	TokenCloseTagLeft                  // [/
	TokenTagRight                      // ]
	TokenEqual                         // =
	TokenConstant                      // trie match
	TokenLiteral                       // plain text
	TokenEnd                           // end of input
)

var tokenNames = [...]string{
	TokenNewline:      "Newline",
	TokenOpenTagLeft:  "OpenTagLeft",
	TokenCloseTagLeft: "CloseTagLeft",
	TokenTagRight:     "TagRight",
	TokenEqual:        "Equal",
	TokenConstant:     "Constant",
	TokenLiteral:      "Literal",
	TokenEnd:          "End",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Token is one lexical unit. Text is set for Constant and Literal tokens.
type Token struct {
	Type TokenType `json:"type"`
	Pos  Position  `json:"pos"`
	Text string    `json:"text,omitempty"`
}

// Source returns the exact input the token was lexed from.
func (t Token) Source() string {
	switch t.Type {
	case TokenNewline:
		return "\n"
	case TokenOpenTagLeft:
		return "["
	case TokenCloseTagLeft:
		return "[/"
	case TokenTagRight:
		return "]"
	case TokenEqual:
		return "="
	case TokenConstant, TokenLiteral:
		return t.Text
	default:
		return ""
	}
}
