// trie.go implements the nibble trie used to recognize constant tokens such as emoticons.
package bbcode

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyConstant is returned when inserting an empty string into a Trie.
	ErrEmptyConstant = errors.New("constant must not be empty")
	// ErrConflictingConstant is returned when a constant is a prefix or an extension of an existing one.
	ErrConflictingConstant = errors.New("constant conflicts with an existing entry")
)

type nodeKind uint8

const (
	kindEmpty nodeKind = iota
	kindSingle
	kindForward
	kindBranch
)

// trieNode is one arena slot. Child index 0 means "no child": the root is
// always slot 0 and is never anybody's child.
type trieNode struct {
	kind     nodeKind
	route    []byte // nibbles, kindForward only
	next     int    // successor, kindForward only
	children [16]int
}

// Trie is a prefix automaton over nibbles. No entry may be a prefix of another,
// so every match ends on a Single node. A Trie is mutated only while it is
// being built; after that any number of cursors may walk it concurrently.
type Trie struct {
	nodes []trieNode
	size  int
}

// NewTrie returns an empty Trie.
func NewTrie() *Trie {
	return &Trie{nodes: []trieNode{{kind: kindEmpty}}}
}

// BuildTrie returns a Trie holding every word, or the first insertion error.
func BuildTrie(words []string) (*Trie, error) {
	t := NewTrie()
	for _, w := range words {
		if err := t.Insert(w); err != nil {
			return nil, fmt.Errorf("insert %q: %w", w, err)
		}
	}
	return t, nil
}

// Len returns the number of constants stored in the trie.
func (t *Trie) Len() int {
	return t.size
}

// Insert adds s to the trie.
func (t *Trie) Insert(s string) error {
	if s == "" {
		return ErrEmptyConstant
	}
	nib := toNibbles(s)
	cur, pos := 0, 0

	for {
		switch t.nodes[cur].kind {
		case kindEmpty:
			single := t.add(trieNode{kind: kindSingle})
			t.nodes[cur] = trieNode{kind: kindForward, route: nib, next: single}
			t.size++
			return nil

		case kindSingle:
			return ErrConflictingConstant

		case kindForward:
			route := t.nodes[cur].route
			i := 0
			for i < len(route) && pos+i < len(nib) && route[i] == nib[pos+i] {
				i++
			}
			if i == len(route) {
				pos += i
				if pos == len(nib) {
					return ErrConflictingConstant
				}
				cur = t.nodes[cur].next
				continue
			}
			if pos+i == len(nib) {
				return ErrConflictingConstant
			}

			existing := t.nodes[cur].next
			if i+1 < len(route) {
				existing = t.add(trieNode{kind: kindForward, route: route[i+1:], next: existing})
			}
			fresh := t.tail(nib[pos+i+1:])

			branch := trieNode{kind: kindBranch}
			branch.children[route[i]] = existing
			branch.children[nib[pos+i]] = fresh

			if i == 0 {
				t.nodes[cur] = branch
			} else {
				b := t.add(branch)
				t.nodes[cur].route = route[:i:i]
				t.nodes[cur].next = b
			}
			t.size++
			return nil

		case kindBranch:
			if pos == len(nib) {
				return ErrConflictingConstant
			}
			child := t.nodes[cur].children[nib[pos]]
			if child == 0 {
				fresh := t.tail(nib[pos+1:])
				t.nodes[cur].children[nib[pos]] = fresh
				t.size++
				return nil
			}
			pos++
			cur = child
		}
	}
}

// Cursor returns a fresh cursor positioned at the root.
func (t *Trie) Cursor() *Cursor {
	return &Cursor{trie: t, state: CursorWalking}
}

func (t *Trie) add(n trieNode) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// tail builds the chain that finishes an entry whose remaining nibbles are rest.
func (t *Trie) tail(rest []byte) int {
	single := t.add(trieNode{kind: kindSingle})
	if len(rest) == 0 {
		return single
	}
	route := make([]byte, len(rest))
	copy(route, rest)
	return t.add(trieNode{kind: kindForward, route: route, next: single})
}

func toNibbles(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		out = append(out, s[i]>>4, s[i]&0x0f)
	}
	return out
}

// CursorState reports the outcome of the most recent walk.
type CursorState int

const (
	CursorWalking CursorState = iota
	CursorFound
	CursorNotFound
)

func (s CursorState) String() string {
	switch s {
	case CursorWalking:
		return "Walking"
	case CursorFound:
		return "Found"
	case CursorNotFound:
		return "NotFound"
	default:
		return fmt.Sprintf("CursorState(%d)", int(s))
	}
}

// Cursor walks a Trie one byte at a time. Once it reports Found or NotFound
// it stays there until Reset.
type Cursor struct {
	trie     *Trie
	node     int
	verified int
	step     int
	state    CursorState
}

// Walk advances the cursor by one byte, high nibble first.
func (c *Cursor) Walk(b byte) CursorState {
	if c.state != CursorWalking {
		return c.state
	}
	st := c.nibble(b >> 4)
	if st == CursorWalking {
		st = c.nibble(b & 0x0f)
	}
	c.state = st
	if st != CursorNotFound {
		c.step++
	}
	return st
}

// Step returns how many bytes of the current match have been confirmed.
func (c *Cursor) Step() int {
	return c.step
}

// State returns the current cursor state.
func (c *Cursor) State() CursorState {
	return c.state
}

// Reset moves the cursor back to the root.
func (c *Cursor) Reset() {
	c.node = 0
	c.verified = 0
	c.step = 0
	c.state = CursorWalking
}

func (c *Cursor) nibble(nb byte) CursorState {
	n := &c.trie.nodes[c.node]
	switch n.kind {
	case kindSingle:
		return CursorFound
	case kindForward:
		if n.route[c.verified] != nb {
			return CursorNotFound
		}
		c.verified++
		if c.verified < len(n.route) {
			return CursorWalking
		}
		c.descend(n.next)
	case kindBranch:
		child := n.children[nb]
		if child == 0 {
			return CursorNotFound
		}
		c.descend(child)
	default:
		return CursorNotFound
	}
	if c.trie.nodes[c.node].kind == kindSingle {
		return CursorFound
	}
	return CursorWalking
}

func (c *Cursor) descend(to int) {
	c.node = to
	c.verified = 0
}
