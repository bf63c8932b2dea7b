package env

// Scope is a node of a package's registration tree.
type Scope struct {
	element  Element
	parent   *Scope
	children []*Scope
}

// NewRootScope creates a detached package root.
func NewRootScope() *Scope {
	return &Scope{}
}

// Register places e under s and returns the scope owned by e.
func (s *Scope) Register(e Element) *Scope {
	child := &Scope{element: e, parent: s}
	s.children = append(s.children, child)
	return child
}

// Element returns the element owning the scope, nil for a package root.
func (s *Scope) Element() Element {
	return s.element
}

// Parent returns the enclosing scope, nil for a package root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Children returns the directly registered scopes in registration order.
func (s *Scope) Children() []*Scope {
	return s.children
}

// Walk visits every scope below s depth-first in registration order. depth is
// 1 for direct children.
func (s *Scope) Walk(fn func(depth int, child *Scope)) {
	s.walk(0, fn)
}

func (s *Scope) walk(depth int, fn func(int, *Scope)) {
	for _, c := range s.children {
		fn(depth+1, c)
		c.walk(depth+1, fn)
	}
}

// Find returns the first scope below s whose element satisfies match.
func (s *Scope) Find(match func(Element) bool) *Scope {
	var found *Scope
	s.Walk(func(_ int, c *Scope) {
		if found == nil && match(c.element) {
			found = c
		}
	})
	return found
}

// Count returns the number of elements below s.
func (s *Scope) Count() int {
	n := 0
	s.Walk(func(int, *Scope) { n++ })
	return n
}
