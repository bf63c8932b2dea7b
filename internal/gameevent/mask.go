package gameevent

import (
	"sort"
	"strings"
)

// Mask is an immutable set of kinds. A listener's interest is a Mask and
// delivery is decided by set membership.
type Mask struct {
	kinds map[Kind]struct{}
}

// NewMask builds a mask holding the given kinds. None is ignored.
func NewMask(kinds ...Kind) Mask {
	m := Mask{kinds: make(map[Kind]struct{}, len(kinds))}
	for _, k := range kinds {
		if k == None {
			continue
		}
		m.kinds[k] = struct{}{}
	}
	return m
}

// MaskAll holds every defined kind.
func MaskAll() Mask {
	return NewMask(All...)
}

// MaskFromBits expands a bitmask into a set. Bits that do not correspond to
// a defined kind are dropped.
func MaskFromBits(bits uint32) Mask {
	m := NewMask()
	for _, k := range All {
		if bits&uint32(k) != 0 {
			m.kinds[k] = struct{}{}
		}
	}
	return m
}

// ParseMask resolves a list of kind names into a mask.
func ParseMask(names []string) (Mask, error) {
	kinds := make([]Kind, 0, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return Mask{}, err
		}
		kinds = append(kinds, k)
	}
	return NewMask(kinds...), nil
}

// Has reports whether k is in the mask.
func (m Mask) Has(k Kind) bool {
	_, ok := m.kinds[k]
	return ok
}

// Empty reports whether the mask holds no kinds.
func (m Mask) Empty() bool {
	return len(m.kinds) == 0
}

// Len returns the number of kinds in the mask.
func (m Mask) Len() int {
	return len(m.kinds)
}

// Union returns a new mask holding the kinds of both masks.
func (m Mask) Union(other Mask) Mask {
	out := NewMask()
	for k := range m.kinds {
		out.kinds[k] = struct{}{}
	}
	for k := range other.kinds {
		out.kinds[k] = struct{}{}
	}
	return out
}

// Without returns a new mask holding the kinds of m that are not in other.
func (m Mask) Without(other Mask) Mask {
	out := NewMask()
	for k := range m.kinds {
		if !other.Has(k) {
			out.kinds[k] = struct{}{}
		}
	}
	return out
}

// Intersects reports whether the masks share at least one kind.
func (m Mask) Intersects(other Mask) bool {
	small, large := m, other
	if len(small.kinds) > len(large.kinds) {
		small, large = large, small
	}
	for k := range small.kinds {
		if large.Has(k) {
			return true
		}
	}
	return false
}

// Equal reports whether both masks hold exactly the same kinds.
func (m Mask) Equal(other Mask) bool {
	if len(m.kinds) != len(other.kinds) {
		return false
	}
	for k := range m.kinds {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Kinds returns the members in ascending flag order.
func (m Mask) Kinds() []Kind {
	out := make([]Kind, 0, len(m.kinds))
	for k := range m.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Bits folds the set into its bitmask form.
func (m Mask) Bits() uint32 {
	var bits uint32
	for k := range m.kinds {
		bits |= uint32(k)
	}
	return bits
}

func (m Mask) String() string {
	if m.Empty() {
		return "None"
	}
	kinds := m.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, "|")
}
