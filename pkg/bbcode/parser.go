// parser.go implements the stack-based parser that turns tokens into a Node tree.
package bbcode

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// maxCloseSearch bounds how many open frames a close tag may look through
// to find its opening tag.
const maxCloseSearch = 8

type parserState int

const (
	stateLiteral parserState = iota
	stateVerbatim
	stateTagOpen       // after [
	stateTagOpenKnown  // after [name
	stateParameter     // after [name=
	stateTagClose      // after [/
	stateTagCloseKnown // after [/name
	stateDone
)

// stackFrame is an open container waiting for its close tag.
type stackFrame struct {
	node *Node
	open int // length of the open tag
}

// Parser consumes tokens and produces top-level nodes and diagnostics. It
// never fails: malformed markup is turned into text or dropped with a message.
// A Parser is not safe for concurrent use.
type Parser struct {
	grammar Grammar
	log     logrus.FieldLogger

	state  parserState
	before parserState // state to restore when a pending tag is abandoned
	stack  []stackFrame
	text   *Node // live Literal collecting text, nil when none

	name   strings.Builder
	param  strings.Builder
	tagPos Position

	nodes    []*Node
	messages []Message
}

// NewParser returns a parser. WithGrammar and WithLogger are honored.
func NewParser(opts ...Option) *Parser {
	o := newOptions(opts)
	return &Parser{grammar: o.grammar, log: o.logger}
}

// Done reports whether the parser has consumed an End token.
func (p *Parser) Done() bool {
	return p.state == stateDone
}

// TakeNodes returns the top-level nodes completed so far and clears the queue.
// After End the last node is always of type NodeEnd.
func (p *Parser) TakeNodes() []*Node {
	out := p.nodes
	p.nodes = nil
	return out
}

// TakeMessages returns the diagnostics emitted so far and clears the queue.
func (p *Parser) TakeMessages() []Message {
	out := p.messages
	p.messages = nil
	return out
}

// Feed consumes one token. Tokens after End are ignored.
func (p *Parser) Feed(tok Token) {
	switch tok.Type {
	case TokenNewline:
		p.onNewline(tok)
	case TokenOpenTagLeft:
		p.onOpenTagLeft(tok)
	case TokenCloseTagLeft:
		p.onCloseTagLeft(tok)
	case TokenTagRight:
		p.onTagRight(tok)
	case TokenEqual:
		p.onEqual(tok)
	case TokenConstant, TokenLiteral:
		p.onText(tok)
	case TokenEnd:
		p.onEnd(tok)
	}
}

func (p *Parser) inTag() bool {
	return p.state >= stateTagOpen && p.state <= stateTagCloseKnown
}

func (p *Parser) onNewline(tok Token) {
	if p.state == stateDone {
		return
	}
	if p.inTag() {
		p.flushTag()
	}
	p.pushLeaf(&Node{Type: NodeNewline, Pos: tok.Pos, Span: 1, Data: "\n"})
}

func (p *Parser) onOpenTagLeft(tok Token) {
	switch p.state {
	case stateLiteral:
		p.armTag(stateTagOpen, tok.Pos)
	case stateVerbatim:
		p.appendText("[", tok.Pos)
	case stateDone:
	default:
		p.flushTag()
		p.onOpenTagLeft(tok)
	}
}

func (p *Parser) onCloseTagLeft(tok Token) {
	switch p.state {
	case stateLiteral, stateVerbatim:
		p.armTag(stateTagClose, tok.Pos)
	case stateDone:
	default:
		p.flushTag()
		p.onCloseTagLeft(tok)
	}
}

func (p *Parser) onTagRight(tok Token) {
	switch p.state {
	case stateLiteral, stateVerbatim:
		p.appendText("]", tok.Pos)
	case stateTagOpen, stateTagClose:
		p.flushTag()
		p.appendText("]", tok.Pos)
	case stateTagOpenKnown, stateParameter:
		p.openTag()
	case stateTagCloseKnown:
		p.closeTag()
	}
}

func (p *Parser) onEqual(tok Token) {
	switch p.state {
	case stateTagOpenKnown:
		p.state = stateParameter
	case stateParameter:
		p.param.WriteByte('=')
	case stateLiteral, stateVerbatim:
		p.appendText("=", tok.Pos)
	case stateTagOpen, stateTagClose, stateTagCloseKnown:
		p.flushTag()
		p.appendText("=", tok.Pos)
	}
}

func (p *Parser) onText(tok Token) {
	switch p.state {
	case stateLiteral:
		if tok.Type == TokenConstant {
			p.pushLeaf(&Node{Type: NodeConstant, Pos: tok.Pos, Span: len(tok.Text), Data: tok.Text})
			return
		}
		p.appendText(tok.Text, tok.Pos)
	case stateVerbatim:
		p.appendText(tok.Text, tok.Pos)
	case stateTagOpen:
		p.name.WriteString(tok.Text)
		p.state = stateTagOpenKnown
	case stateTagClose:
		p.name.WriteString(tok.Text)
		p.state = stateTagCloseKnown
	case stateTagOpenKnown, stateTagCloseKnown:
		p.name.WriteString(tok.Text)
	case stateParameter:
		p.param.WriteString(tok.Text)
	}
}

func (p *Parser) onEnd(tok Token) {
	if p.state == stateDone {
		return
	}
	if p.inTag() {
		p.flushTag()
	}
	p.flushText()

	for len(p.stack) > 0 {
		top := p.pop()
		p.missingClose(top)
		p.finish(top.node)
	}

	p.nodes = append(p.nodes, &Node{Type: NodeEnd, Pos: tok.Pos})
	p.state = stateDone
}

func (p *Parser) armTag(state parserState, at Position) {
	p.before = p.state
	p.state = state
	p.tagPos = at
	p.name.Reset()
	p.param.Reset()
}

// openTag resolves [name] or [name=param].
func (p *Parser) openTag() {
	name := p.name.String()
	tags := p.grammar.Tags(name)

	if p.state == stateParameter {
		param := p.param.String()
		src := "[" + name + "=" + param + "]"
		for _, d := range tags {
			if d.Shape != NodeParametric {
				continue
			}
			paramPos := p.tagPos.Advance("[" + name + "=")
			data, err := d.Validate(param, func(n Note) {
				at := paramPos.Advance(param[:min(n.Offset, len(param))])
				p.emit(SeverityTidy, at, n.Span, n.Name, n.Text)
			})
			if err != nil {
				p.emit(SeverityError, paramPos, len(param), DiagBadParameter,
					fmt.Sprintf("`%s` is not valid parameter of %s tag: %v. This tag will be decayed to normal text.", param, name, err))
				p.downgrade(src)
				return
			}
			p.push(&Node{Type: NodeParametric, Name: name, Pos: p.tagPos, Span: len(src), Data: data}, d)
			return
		}
		p.rejectOpen(name, src, len(tags) > 0)
		return
	}

	src := "[" + name + "]"
	for _, d := range tags {
		if d.Shape == NodeParametric {
			continue
		}
		p.push(&Node{Type: d.Shape, Name: name, Pos: p.tagPos, Span: len(src)}, d)
		return
	}
	p.rejectOpen(name, src, len(tags) > 0)
}

func (p *Parser) rejectOpen(name, src string, known bool) {
	if known {
		p.emit(SeverityWarning, p.tagPos, len(src), DiagUnmatchedTagType,
			fmt.Sprintf("Tag with unmatched type `%s` interpreted as normal text.", name))
	} else {
		p.emit(SeverityTidy, p.tagPos, len(src), DiagUnknownOpenTag,
			fmt.Sprintf("Unknown open tag `%s` interpreted as normal text.", name))
	}
	p.downgrade(src)
}

// downgrade turns the pending tag back into text.
func (p *Parser) downgrade(src string) {
	p.state = p.before
	p.appendText(src, p.tagPos)
}

// push opens node, described by d.
func (p *Parser) push(node *Node, d Descriptor) {
	p.flushText()

	// A new greedy item closes the previous one of the same family.
	if d.Shape == NodeGreedy && len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1].node
		if top.Type == NodeGreedy && (top.Name == node.Name || p.parentAllows(len(p.stack)-2, node.Name)) {
			p.finish(p.pop().node)
		}
	}

	switch d.Shape {
	case NodeOmission:
		p.finish(node)
		p.state = stateLiteral
	case NodeVerbatim:
		p.stack = append(p.stack, stackFrame{node: node, open: node.Span})
		p.state = stateVerbatim
	default:
		p.stack = append(p.stack, stackFrame{node: node, open: node.Span})
		p.state = stateLiteral
	}
}

// parentAllows reports whether the frame at index i declares name as an
// allowed child. Frames without a child list do not count.
func (p *Parser) parentAllows(i int, name string) bool {
	if i < 0 {
		return false
	}
	parent := p.stack[i].node
	d := p.descriptor(parent)
	return len(d.Children) > 0 && d.AllowsChild(name)
}

// closeTag resolves [/name].
func (p *Parser) closeTag() {
	name := p.name.String()
	src := "[/" + name + "]"

	// Inside verbatim content only the verbatim tag's own close is structural.
	if n := len(p.stack); n > 0 && p.stack[n-1].node.Type == NodeVerbatim {
		top := p.stack[n-1].node
		if top.Name != name {
			p.state = stateVerbatim
			p.appendText(src, p.tagPos)
			return
		}
		p.flushText()
		top.Span += len(src)
		p.finish(p.pop().node)
		p.resumeText()
		return
	}

	if !p.closable(name) {
		p.emit(SeverityTidy, p.tagPos, len(src), DiagUnknownCloseTag,
			fmt.Sprintf("Unknown close tag `%s` ignored.", name))
		p.drop(src)
		return
	}

	match := -1
	for i := len(p.stack) - 1; i >= 0 && i >= len(p.stack)-maxCloseSearch; i-- {
		frame := p.stack[i].node
		if frame.Name == name {
			match = i
			break
		}
		if frame.Type == NodeGreedy && !p.descriptor(frame).Terminates(name) {
			break
		}
	}
	if match < 0 {
		p.emit(SeverityWarning, p.tagPos, len(src), DiagUnpairedCloseTag,
			fmt.Sprintf("Unpaired close tag `%s` ignored.", name))
		p.drop(src)
		return
	}

	p.flushText()
	for len(p.stack) > match+1 {
		top := p.pop()
		if top.node.Type != NodeGreedy || !p.descriptor(top.node).Terminates(name) {
			p.missingClose(top)
		}
		p.finish(top.node)
	}
	matched := p.pop()
	matched.node.Span += len(src)
	p.finish(matched.node)
	p.resumeText()
}

// closable reports whether name has a shape that takes an explicit close tag.
func (p *Parser) closable(name string) bool {
	for _, d := range p.grammar.Tags(name) {
		if d.Shape != NodeOmission && d.Shape != NodeGreedy {
			return true
		}
	}
	return false
}

// drop discards a close tag. It is kept in the tree as an Invalid leaf so
// spans still cover the whole input.
func (p *Parser) drop(src string) {
	p.state = p.before
	p.flushText()
	p.attach(&Node{Type: NodeInvalid, Name: p.name.String(), Pos: p.tagPos, Span: len(src), Data: src})
	p.log.WithFields(logrus.Fields{
		"tag":    src,
		"line":   p.tagPos.Line,
		"column": p.tagPos.Column,
	}).Debug("dropped close tag")
}

func (p *Parser) resumeText() {
	if n := len(p.stack); n > 0 && p.stack[n-1].node.Type == NodeVerbatim {
		p.state = stateVerbatim
		return
	}
	p.state = stateLiteral
}

// flushTag gives up on a pending tag and turns what was read of it into text.
func (p *Parser) flushTag() {
	var lit string
	switch p.state {
	case stateTagOpen:
		lit = "["
	case stateTagOpenKnown:
		lit = "[" + p.name.String()
	case stateParameter:
		lit = "[" + p.name.String() + "=" + p.param.String()
	case stateTagClose:
		lit = "[/"
	case stateTagCloseKnown:
		lit = "[/" + p.name.String()
	default:
		return
	}
	p.emit(SeverityWarning, p.tagPos, len(lit), DiagIncompleteTag,
		fmt.Sprintf("Incomplete tag `%s` interpreted as normal text.", lit))
	p.state = p.before
	p.appendText(lit, p.tagPos)
}

func (p *Parser) missingClose(f stackFrame) {
	p.emit(SeverityWarning, f.node.Pos, f.open, DiagMissingCloseTag,
		fmt.Sprintf("Missing close tag for `%s` node.", f.node.Name))
}

func (p *Parser) appendText(s string, at Position) {
	if p.text == nil {
		p.text = &Node{Type: NodeLiteral, Pos: at}
	}
	p.text.Data += s
	p.text.Span += len(s)
}

func (p *Parser) flushText() {
	if p.text == nil {
		return
	}
	text := p.text
	p.text = nil
	if text.Span > 0 {
		p.finish(text)
	}
}

func (p *Parser) pushLeaf(n *Node) {
	p.flushText()
	p.finish(n)
}

func (p *Parser) pop() stackFrame {
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

// finish validates n against its parent and attaches it.
func (p *Parser) finish(n *Node) {
	if len(p.stack) == 0 {
		if n.Type.IsTag() && len(p.descriptor(n).Parents) > 0 {
			p.invalidate(n)
		}
		p.attach(n)
		return
	}

	parent := p.stack[len(p.stack)-1].node
	pd := p.descriptor(parent)
	switch {
	case len(pd.Children) > 0 && !pd.AllowsChild(n.Name) && !isBlank(n):
		p.invalidate(n)
	case n.Type.IsTag() && !p.descriptor(n).AllowsParent(parent.Name):
		p.invalidate(n)
	}
	p.attach(n)
}

// attach adds n to the innermost open container, or to the output queue.
func (p *Parser) attach(n *Node) {
	if len(p.stack) == 0 {
		p.nodes = append(p.nodes, n)
		return
	}
	parent := p.stack[len(p.stack)-1].node
	parent.Span += n.Span
	parent.Children = append(parent.Children, n)
}

func (p *Parser) invalidate(n *Node) {
	p.emit(SeverityWarning, n.Pos, n.Span, DiagUnexpectedNode, "Unexpected node marked as Invalid.")
	if n.Type == NodeParametric {
		n.Name = n.Name + "=" + n.Data
		n.Data = ""
	}
	n.Type = NodeInvalid
}

// descriptor returns the grammar entry for a node the parser already accepted.
func (p *Parser) descriptor(n *Node) Descriptor {
	d, ok := p.grammar.Descriptor(n.Name, n.Type)
	if !ok {
		panic(fmt.Sprintf("bbcode: grammar has no %s descriptor for accepted tag %q", n.Type, n.Name))
	}
	return d
}

// isBlank reports whether n is whitespace that may sit between restricted children.
func isBlank(n *Node) bool {
	switch n.Type {
	case NodeNewline:
		return true
	case NodeLiteral:
		return strings.TrimSpace(n.Data) == ""
	default:
		return false
	}
}

func (p *Parser) emit(sev Severity, at Position, span int, name, text string) {
	p.messages = append(p.messages, Message{Severity: sev, Pos: at, Span: span, Name: name, Text: text})
	p.log.WithFields(logrus.Fields{
		"diagnostic": name,
		"line":       at.Line,
		"column":     at.Column,
	}).Debug(text)
}
