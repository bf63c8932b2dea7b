// Package gameevent defines the closed set of game occurrences that scripts
// and components can send or receive, together with their payload records.
package gameevent

import (
	"fmt"
	"strings"
)

// Kind identifies one game occurrence. Values are single flags so that a set
// of kinds can be exchanged as a bitmask with the scripting environment.
type Kind uint32

const (
	None Kind = 0

	// KillEntity is sent to the specific entity that should handle its death
	// (health reached zero or a forced kill).
	KillEntity Kind = 1 << 0

	// EntityKilled is broadcast after an entity was destroyed.
	EntityKilled Kind = 1 << 1

	// LeftArena is sent to the entity that left the arena trigger bounds.
	LeftArena Kind = 1 << 2

	// SpawnPlayer signals the player spawn point to spawn the player entity.
	SpawnPlayer Kind = 1 << 3

	// DisableWeapons tells the receiving entity's weapons to stop firing.
	DisableWeapons Kind = 1 << 4

	// EnableWeapons tells the receiving entity's weapons to start firing.
	EnableWeapons Kind = 1 << 5

	// StartSimulation is broadcast when gameplay starts or resumes.
	StartSimulation Kind = 1 << 6

	// StopSimulation is broadcast when gameplay stops or pauses.
	StopSimulation Kind = 1 << 7

	// ResetGame is broadcast when gameplay elements should be reset.
	ResetGame Kind = 1 << 8

	// CustomEvent carries a user defined string and is not interpreted by the game.
	CustomEvent Kind = 1 << 30
)

// All lists every defined kind in declaration order.
var All = []Kind{
	KillEntity,
	EntityKilled,
	LeftArena,
	SpawnPlayer,
	DisableWeapons,
	EnableWeapons,
	StartSimulation,
	StopSimulation,
	ResetGame,
	CustomEvent,
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	_, ok := kindInfo[k]
	return ok
}

// String returns the constant name of the kind, e.g. "EntityKilled".
func (k Kind) String() string {
	if k == None {
		return "None"
	}
	if info, ok := kindInfo[k]; ok {
		return info.Name
	}
	return fmt.Sprintf("Kind(%#x)", uint32(k))
}

// Label returns the human readable label shown in the script editor.
func (k Kind) Label() string {
	if info, ok := kindInfo[k]; ok {
		return info.Label
	}
	return k.String()
}

// ParseKind resolves a constant name ("SpawnPlayer") or label ("Spawn Player")
// to its kind. Matching ignores case.
func ParseKind(name string) (Kind, error) {
	trimmed := strings.TrimSpace(name)
	for _, k := range All {
		info := kindInfo[k]
		if strings.EqualFold(trimmed, info.Name) || strings.EqualFold(trimmed, info.Label) {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown game event %q", name)
}
