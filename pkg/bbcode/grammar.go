// grammar.go defines the grammar lookup consulted by the Parser and its tag registry.
// Adding a built-in tag = adding one entry to defaultTags.
package bbcode

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	ErrEmptyTagName     = errors.New("tag name must not be empty")
	ErrDuplicateTag     = errors.New("tag already registered with this shape")
	ErrInvalidShape     = errors.New("invalid tag shape")
	ErrMissingValidator = errors.New("parametric tag requires a validator")
)

// Note is a cosmetic remark raised by a Validator. Offset is relative to the
// start of the parameter text.
type Note struct {
	Offset int
	Span   int
	Name   string
	Text   string
}

// Validator checks a tag parameter and returns its normalized form. A non-nil
// error rejects the parameter; its text becomes the diagnostic message.
type Validator func(param string, note func(Note)) (string, error)

// Descriptor describes one tag shape. A name may be registered once per shape,
// e.g. [list] and [list=1].
type Descriptor struct {
	Name  string
	Shape NodeType

	// Children, when non-empty, lists the tag names allowed directly inside.
	Children []string
	// Parents, when non-empty, lists the tag names this tag may appear in.
	Parents []string

	Validate    Validator // Parametric only
	Terminators []string  // Greedy only: close tags that end the item silently
}

// AllowsChild reports whether a node named name may be a child of d.
func (d Descriptor) AllowsChild(name string) bool {
	return len(d.Children) == 0 || slices.Contains(d.Children, name)
}

// AllowsParent reports whether d may sit inside a node named name.
func (d Descriptor) AllowsParent(name string) bool {
	return len(d.Parents) == 0 || slices.Contains(d.Parents, name)
}

// Terminates reports whether a close tag named name ends a Greedy d.
func (d Descriptor) Terminates(name string) bool {
	return slices.Contains(d.Terminators, name)
}

// Grammar answers tag lookups for the Parser.
type Grammar interface {
	// Tags returns every descriptor registered under name, in registration order.
	Tags(name string) []Descriptor
	// Descriptor returns the descriptor for name with the given shape.
	Descriptor(name string, shape NodeType) (Descriptor, bool)
}

// Registry is a map-backed Grammar. Adding a tag is one Register call.
type Registry struct {
	tags map[string][]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tags: make(map[string][]Descriptor)}
}

// Register adds d to the registry.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return ErrEmptyTagName
	}
	if !d.Shape.IsTag() {
		return fmt.Errorf("tag %q: %w: %s", d.Name, ErrInvalidShape, d.Shape)
	}
	if d.Shape == NodeParametric && d.Validate == nil {
		return fmt.Errorf("tag %q: %w", d.Name, ErrMissingValidator)
	}
	if _, ok := r.Descriptor(d.Name, d.Shape); ok {
		return fmt.Errorf("tag %q (%s): %w", d.Name, d.Shape, ErrDuplicateTag)
	}
	r.tags[d.Name] = append(r.tags[d.Name], d)
	return nil
}

// Tags returns every descriptor registered under name, in registration order.
func (r *Registry) Tags(name string) []Descriptor {
	return r.tags[name]
}

// Descriptor returns the descriptor for name with the given shape.
func (r *Registry) Descriptor(name string, shape NodeType) (Descriptor, bool) {
	for _, d := range r.tags[name] {
		if d.Shape == shape {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Names returns the registered tag names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tags))
	for name := range r.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a new registry holding the built-in tag catalogue.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range defaultTags() {
		if err := r.Register(d); err != nil {
			panic("bbcode: invalid default tag: " + err.Error())
		}
	}
	return r
}

func defaultTags() []Descriptor {
	return []Descriptor{
		{Name: "b", Shape: NodeSimple},
		{Name: "x", Shape: NodeSimple},
		{Name: "i", Shape: NodeSimple},
		{Name: "center", Shape: NodeSimple},
		{Name: "hr", Shape: NodeOmission},
		{Name: "code", Shape: NodeVerbatim},
		{Name: "font", Shape: NodeParametric, Validate: ValidateFont},
		{Name: "size", Shape: NodeParametric, Validate: ValidateSize},
		{Name: "color", Shape: NodeParametric, Validate: ValidateColor},
		{Name: "url", Shape: NodeParametric, Validate: ValidateAny},
		{Name: "list", Shape: NodeSimple, Children: []string{"*"}},
		{Name: "list", Shape: NodeParametric, Validate: ValidateEnum("1", "a"), Children: []string{"*"}},
		{Name: "*", Shape: NodeGreedy, Terminators: []string{"list"}},
		{Name: "table", Shape: NodeSimple, Children: []string{"tr"}},
		{Name: "table", Shape: NodeParametric, Validate: ValidateColor, Children: []string{"tr"}},
		{Name: "tr", Shape: NodeSimple, Children: []string{"td"}, Parents: []string{"table"}},
		{Name: "td", Shape: NodeSimple, Parents: []string{"tr"}},
	}
}
