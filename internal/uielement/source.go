package uielement

// Source enumerates UI elements by index. The order is stable for the
// lifetime of one load.
type Source interface {
	Count() int
	ElementAt(index int) *Element
}

// Library is an in-memory Source.
type Library struct {
	elements []*Element
}

// NewLibrary creates a library holding elements in the given order.
func NewLibrary(elements ...*Element) *Library {
	return &Library{elements: elements}
}

func (l *Library) Count() int {
	return len(l.elements)
}

func (l *Library) ElementAt(index int) *Element {
	return l.elements[index]
}

// Elements returns all elements in order.
func (l *Library) Elements() []*Element {
	return l.elements
}

// Lookup returns the element called name.
func (l *Library) Lookup(name string) (*Element, bool) {
	for _, e := range l.elements {
		if e.ElementName == name {
			return e, true
		}
	}
	return nil, false
}

func (l *Library) replace(elements []*Element) {
	l.elements = elements
}
