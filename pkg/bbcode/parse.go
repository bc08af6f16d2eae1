// parse.go wires the Lexer and Parser together for whole-document use.
package bbcode

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

type options struct {
	grammar Grammar
	trie    *Trie
	logger  logrus.FieldLogger
}

// Option configures Parse, Lex and NewParser.
type Option func(*options)

// WithGrammar sets the tag grammar. The default is DefaultRegistry.
func WithGrammar(g Grammar) Option {
	return func(o *options) {
		o.grammar = g
	}
}

// WithTrie sets the constant vocabulary. The default is DefaultTrie.
func WithTrie(t *Trie) Option {
	return func(o *options) {
		o.trie = t
	}
}

// WithLogger sets the logger recovery decisions are reported to at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

var defaultRegistry = sync.OnceValue(DefaultRegistry)

var discardLogger = sync.OnceValue(func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
})

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.grammar == nil {
		o.grammar = defaultRegistry()
	}
	if o.trie == nil {
		o.trie = DefaultTrie()
	}
	if o.logger == nil {
		o.logger = discardLogger()
	}
	return o
}

// Document is the result of parsing a complete input.
type Document struct {
	Nodes    []*Node   `json:"nodes"`
	Messages []Message `json:"messages"`
}

// Span returns the total span of the top-level nodes.
func (d *Document) Span() int {
	total := 0
	for _, n := range d.Nodes {
		total += n.Span
	}
	return total
}

// Count returns how many messages have the given severity.
func (d *Document) Count(sev Severity) int {
	n := 0
	for _, m := range d.Messages {
		if m.Severity == sev {
			n++
		}
	}
	return n
}

// Lex returns every token of src, ending with End.
func Lex(src string, opts ...Option) []Token {
	o := newOptions(opts)
	var tokens []Token
	lx := NewLexer(o.trie, func(t Token) {
		tokens = append(tokens, t)
	})
	_, _ = lx.WriteString(src)
	_ = lx.Finish()
	return tokens
}

// Parse lexes and parses src. The returned nodes end with an End node.
func Parse(src string, opts ...Option) *Document {
	o := newOptions(opts)
	p := &Parser{grammar: o.grammar, log: o.logger}
	lx := NewLexer(o.trie, p.Feed)
	_, _ = lx.WriteString(src)
	_ = lx.Finish()
	return &Document{Nodes: p.TakeNodes(), Messages: p.TakeMessages()}
}

// ParseReader parses everything read from r.
func ParseReader(r io.Reader, opts ...Option) (*Document, error) {
	o := newOptions(opts)
	p := &Parser{grammar: o.grammar, log: o.logger}
	lx := NewLexer(o.trie, p.Feed)
	if _, err := io.Copy(lx, r); err != nil {
		return nil, err
	}
	_ = lx.Finish()
	return &Document{Nodes: p.TakeNodes(), Messages: p.TakeMessages()}, nil
}
