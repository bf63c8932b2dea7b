package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/env"
)

// Component is a statically known entity component type. Components are
// registered from init functions and published in the EntityComponents
// package.
type Component struct {
	GUID     uuid.UUID
	Name     string
	Label    string
	Category string
	Flags    env.ComponentFlags
	// Members registers the component's functions and signals, if any.
	Members func(p *Plugin, scope *env.Scope)
}

var (
	componentsMu sync.Mutex
	components   = make(map[uuid.UUID]Component)
)

// RegisterComponent adds c to the static component list. It panics on a
// missing GUID or name or when the GUID or name is already taken.
func RegisterComponent(c Component) {
	componentsMu.Lock()
	defer componentsMu.Unlock()

	if c.GUID == uuid.Nil || c.Name == "" {
		panic(fmt.Sprintf("component registration requires a GUID and a name, got %q/%s", c.Name, c.GUID))
	}
	if existing, ok := components[c.GUID]; ok {
		panic(fmt.Sprintf("component GUID %s of %q is already registered by %q", c.GUID, c.Name, existing.Name))
	}
	for _, existing := range components {
		if existing.Name == c.Name {
			panic(fmt.Sprintf("component %q is already registered", c.Name))
		}
	}
	components[c.GUID] = c
}

// Components returns the registered components ordered by name.
func Components() []Component {
	componentsMu.Lock()
	defer componentsMu.Unlock()

	out := make([]Component, 0, len(components))
	for _, c := range components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
