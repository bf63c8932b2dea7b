package env

import (
	"strings"

	"github.com/google/uuid"
)

// ComponentFlags are capability flags of an entity component.
type ComponentFlags uint8

const (
	// FlagHideFromInspector keeps the component out of the entity inspector.
	FlagHideFromInspector ComponentFlags = 1 << iota
	// FlagSingleton allows at most one instance per entity.
	FlagSingleton
)

// Has reports whether all bits of f are set.
func (c ComponentFlags) Has(f ComponentFlags) bool {
	return c&f == f
}

func (c ComponentFlags) String() string {
	var parts []string
	if c.Has(FlagHideFromInspector) {
		parts = append(parts, "HideFromInspector")
	}
	if c.Has(FlagSingleton) {
		parts = append(parts, "Singleton")
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}

// ComponentDesc describes an entity component type.
type ComponentDesc struct {
	id       uuid.UUID
	typeName string
	label    string
	category string
	flags    ComponentFlags
}

func (d *ComponentDesc) GUID() uuid.UUID   { return d.id }
func (d *ComponentDesc) Name() string      { return d.typeName }
func (d *ComponentDesc) Kind() ElementKind { return KindComponent }

func (d *ComponentDesc) Label() string          { return d.label }
func (d *ComponentDesc) EditorCategory() string { return d.category }
func (d *ComponentDesc) Flags() ComponentFlags  { return d.flags }

func (d *ComponentDesc) SetGUID(id uuid.UUID)               { d.id = id }
func (d *ComponentDesc) SetName(name string)                { d.typeName = name }
func (d *ComponentDesc) SetLabel(label string)              { d.label = label }
func (d *ComponentDesc) SetEditorCategory(category string)  { d.category = category }
func (d *ComponentDesc) SetComponentFlags(f ComponentFlags) { d.flags = f }

// NewComponentDesc builds a standalone descriptor, for statically known components.
func NewComponentDesc(id uuid.UUID, name, label, category string, flags ComponentFlags) *ComponentDesc {
	return &ComponentDesc{id: id, typeName: name, label: label, category: category, flags: flags}
}

// DescFactory caches component descriptors by identifier.
type DescFactory struct {
	descs map[uuid.UUID]*ComponentDesc
}

// NewDescFactory creates an empty descriptor cache.
func NewDescFactory() *DescFactory {
	return &DescFactory{descs: make(map[uuid.UUID]*ComponentDesc)}
}

// GetOrCreate returns the cached descriptor for id, creating an empty one on
// first use.
func (f *DescFactory) GetOrCreate(id uuid.UUID) *ComponentDesc {
	if d, ok := f.descs[id]; ok {
		return d
	}
	d := &ComponentDesc{id: id}
	f.descs[id] = d
	return d
}

// Lookup returns the cached descriptor for id without creating one.
func (f *DescFactory) Lookup(id uuid.UUID) (*ComponentDesc, bool) {
	d, ok := f.descs[id]
	return d, ok
}

// Reset drops every cached descriptor.
func (f *DescFactory) Reset() {
	f.descs = make(map[uuid.UUID]*ComponentDesc)
}

// Len returns the number of cached descriptors.
func (f *DescFactory) Len() int {
	return len(f.descs)
}
