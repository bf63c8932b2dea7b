package gameevent

// EntityID identifies an entity in the game world. NoEntity is never assigned
// to a live entity.
type EntityID uint64

const NoEntity EntityID = 0

// Vec3 is a world-space vector.
type Vec3 struct {
	X float32 `cty:"x"`
	Y float32 `cty:"y"`
	Z float32 `cty:"z"`
}

// Signal is a single occurrence delivered synchronously to listeners.
type Signal interface {
	Kind() Kind
}

type SpawnPlayerSignal struct{}

func (SpawnPlayerSignal) Kind() Kind { return SpawnPlayer }

type KillEntitySignal struct{}

func (KillEntitySignal) Kind() Kind { return KillEntity }

// EntityKilledSignal names the entity that was destroyed and its class.
type EntityKilledSignal struct {
	Entity    EntityID `cty:"EntityId"`
	ClassName string   `cty:"EntityClassname"`
}

func (EntityKilledSignal) Kind() Kind { return EntityKilled }

// LeftArenaSignal carries the normal of the arena edge that was crossed,
// useful for computing a reflection vector.
type LeftArenaSignal struct {
	EdgeNormal Vec3 `cty:"EdgeNormal"`
}

func (LeftArenaSignal) Kind() Kind { return LeftArena }

type DisableWeaponsSignal struct{}

func (DisableWeaponsSignal) Kind() Kind { return DisableWeapons }

type EnableWeaponsSignal struct{}

func (EnableWeaponsSignal) Kind() Kind { return EnableWeapons }

type StartSimulationSignal struct{}

func (StartSimulationSignal) Kind() Kind { return StartSimulation }

type StopSimulationSignal struct{}

func (StopSimulationSignal) Kind() Kind { return StopSimulation }

type ResetGameSignal struct{}

func (ResetGameSignal) Kind() Kind { return ResetGame }

// CustomSignal carries a user defined name or payload string.
type CustomSignal struct {
	Data string `cty:"Data"`
}

func (CustomSignal) Kind() Kind { return CustomEvent }

// NewSignal returns the zero-value payload record for k, or nil when k is not
// a defined kind.
func NewSignal(k Kind) Signal {
	switch k {
	case SpawnPlayer:
		return SpawnPlayerSignal{}
	case KillEntity:
		return KillEntitySignal{}
	case EntityKilled:
		return EntityKilledSignal{}
	case LeftArena:
		return LeftArenaSignal{}
	case DisableWeapons:
		return DisableWeaponsSignal{}
	case EnableWeapons:
		return EnableWeaponsSignal{}
	case StartSimulation:
		return StartSimulationSignal{}
	case StopSimulation:
		return StopSimulationSignal{}
	case ResetGame:
		return ResetGameSignal{}
	case CustomEvent:
		return CustomSignal{}
	}
	return nil
}
