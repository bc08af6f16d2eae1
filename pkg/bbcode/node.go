// node.go defines the parse tree produced by the Parser.
package bbcode

import (
	"fmt"
	"strings"
)

// NodeType identifies the kind of a parse tree node. The first five values
// are tag shapes and double as the shape of a grammar Descriptor.
type NodeType int

const (
	NodeOmission   NodeType = iota // [hr], no body and no close tag
	NodeSimple                     // [b]...[/b]
	NodeParametric                 // [size=1]...[/size]
	NodeGreedy                     // [*]..., closed by a sibling or a terminator
	NodeVerbatim                   // [code]...[/code], body not scanned for tags
	NodeLiteral
	NodeConstant
	NodeNewline
	NodeInvalid
	NodeEnd
)

var nodeTypeNames = [...]string{
	NodeOmission:   "Omission",
	NodeSimple:     "Simple",
	NodeParametric: "Parametric",
	NodeGreedy:     "Greedy",
	NodeVerbatim:   "Verbatim",
	NodeLiteral:    "Literal",
	NodeConstant:   "Constant",
	NodeNewline:    "Newline",
	NodeInvalid:    "Invalid",
	NodeEnd:        "End",
}

func (t NodeType) String() string {
	if t >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Matching is case-insensitive.
func (t *NodeType) UnmarshalText(b []byte) error {
	s := string(b)
	for i, name := range nodeTypeNames {
		if strings.EqualFold(name, s) {
			*t = NodeType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown node type %q", s)
}

// IsTag reports whether t is one of the tag shapes.
func (t NodeType) IsTag() bool {
	return t >= NodeOmission && t <= NodeVerbatim
}

// Node is one element of the parse tree.
//
// Span is the number of source bytes the node covers. For containers it is
// the length of the open and close delimiters plus the spans of all children.
// Data holds the normalized parameter of Parametric nodes and the raw text
// of Literal, Constant, Newline and Invalid nodes.
type Node struct {
	Type     NodeType `json:"type"`
	Name     string   `json:"name,omitempty"`
	Pos      Position `json:"pos"`
	Span     int      `json:"span"`
	Data     string   `json:"data,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// Walk calls fn for n and every descendant in document order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// End returns the offset just past the node.
func (n *Node) End() int {
	return n.Pos.Offset + n.Span
}
