package elementstore

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/uielement"
)

// Watcher is called for every element recorded in a store. The returned
// function, if not nil, is called once the entry is replaced or dropped.
type Watcher func(id uuid.UUID, element *uielement.Element) (detach func())

type entry struct {
	element *uielement.Element
	detach  func()
}

func (e *entry) release() {
	if e.detach != nil {
		e.detach()
	}
}

// Store maps element type identifiers to element handles.
type Store struct {
	elements sync.Map // Key: uuid.UUID, Value: *entry
	count    atomic.Int64
	watch    Watcher
}

// New creates an empty element store.
func New() *Store {
	return &Store{}
}

// NewWatched creates an empty element store that hands every recorded element
// to w.
func NewWatched(w Watcher) *Store {
	return &Store{watch: w}
}

// RegisterElement records the handle for id, overwriting any prior entry.
// The prior entry is detached after the new one is attached.
func (s *Store) RegisterElement(id uuid.UUID, element *uielement.Element) {
	e := &entry{element: element}
	if s.watch != nil {
		e.detach = s.watch(id, element)
	}
	old, loaded := s.elements.Swap(id, e)
	if !loaded {
		s.count.Add(1)
		return
	}
	old.(*entry).release()
}

// Lookup returns the handle recorded for id.
func (s *Store) Lookup(id uuid.UUID) (*uielement.Element, bool) {
	v, ok := s.elements.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*entry).element, true
}

// Reset drops and detaches every entry.
func (s *Store) Reset() {
	s.elements.Range(func(key, _ any) bool {
		if v, loaded := s.elements.LoadAndDelete(key); loaded {
			s.count.Add(-1)
			v.(*entry).release()
		}
		return true
	})
}

// Len returns the number of recorded entries.
func (s *Store) Len() int {
	return int(s.count.Load())
}

// IDs returns the recorded identifiers in lexical order.
func (s *Store) IDs() []uuid.UUID {
	var ids []uuid.UUID
	s.elements.Range(func(key, _ any) bool {
		ids = append(ids, key.(uuid.UUID))
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
