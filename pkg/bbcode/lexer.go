// lexer.go implements the byte-at-a-time lexer for BBCode markup.
package bbcode

import "errors"

// ErrLexerFinished is returned when input is written after Finish.
var ErrLexerFinished = errors.New("lexer already finished")

// Lexer turns bytes into positioned tokens, handing each to a sink as soon as
// it is complete. A Lexer is not safe for concurrent use.
type Lexer struct {
	sink   func(Token)
	cursor *Cursor

	pos Position // position of the next byte

	buf      []byte
	bufPos   Position
	matchPos Position

	pendingTag bool // saw '[' and waiting to know whether '/' follows
	tagPos     Position

	finished bool
}

// NewLexer returns a lexer matching constants from trie. A nil trie uses DefaultTrie.
func NewLexer(trie *Trie, sink func(Token)) *Lexer {
	if trie == nil {
		trie = DefaultTrie()
	}
	return &Lexer{sink: sink, cursor: trie.Cursor()}
}

// Write feeds p to the lexer. It implements io.Writer.
func (l *Lexer) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := l.Put(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteString feeds s to the lexer.
func (l *Lexer) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if err := l.Put(s[i]); err != nil {
			return i, err
		}
	}
	return len(s), nil
}

// Put feeds a single byte.
func (l *Lexer) Put(b byte) error {
	if l.finished {
		return ErrLexerFinished
	}
	at := l.pos
	l.pos = l.pos.next(b)

	if l.pendingTag {
		l.pendingTag = false
		if b == '/' {
			l.emit(TokenCloseTagLeft, l.tagPos, "")
			return nil
		}
		l.emit(TokenOpenTagLeft, l.tagPos, "")
	}

	switch b {
	case ']':
		l.flush()
		l.emit(TokenTagRight, at, "")
	case '=':
		l.flush()
		l.emit(TokenEqual, at, "")
	case '\n':
		l.flush()
		l.emit(TokenNewline, at, "")
	case '[':
		l.flush()
		l.pendingTag = true
		l.tagPos = at
	default:
		l.text(b, at)
	}
	return nil
}

// Finish flushes pending input and emits End. Later writes fail.
func (l *Lexer) Finish() error {
	if l.finished {
		return ErrLexerFinished
	}
	if l.pendingTag {
		l.pendingTag = false
		l.emit(TokenOpenTagLeft, l.tagPos, "")
	}
	l.flush()
	l.emit(TokenEnd, l.pos, "")
	l.finished = true
	return nil
}

// Pos returns the position of the next byte.
func (l *Lexer) Pos() Position {
	return l.pos
}

func (l *Lexer) text(b byte, at Position) {
	if len(l.buf) == 0 {
		l.bufPos = at
	}
	l.buf = append(l.buf, b)

	if !l.match(b, at) {
		// The buffer is not rescanned; the failing byte stays plain text.
		l.cursor.Reset()
	}
}

// match walks the cursor with b and reports whether the walk is still usable.
func (l *Lexer) match(b byte, at Position) bool {
	if l.cursor.Step() == 0 {
		l.matchPos = at
	}
	switch l.cursor.Walk(b) {
	case CursorFound:
		n := l.cursor.Step()
		split := len(l.buf) - n
		if split > 0 {
			l.emit(TokenLiteral, l.bufPos, string(l.buf[:split]))
		}
		l.emit(TokenConstant, l.matchPos, string(l.buf[split:]))
		l.buf = l.buf[:0]
		l.cursor.Reset()
		return true
	case CursorWalking:
		return true
	default:
		return false
	}
}

func (l *Lexer) flush() {
	if len(l.buf) > 0 {
		l.emit(TokenLiteral, l.bufPos, string(l.buf))
		l.buf = l.buf[:0]
	}
	l.cursor.Reset()
}

func (l *Lexer) emit(typ TokenType, at Position, text string) {
	if l.sink != nil {
		l.sink(Token{Type: typ, Pos: at, Text: text})
	}
}
