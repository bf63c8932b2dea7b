package gameevent

import (
	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"
)

// EnumGUID identifies the game event enumeration type in the scripting environment.
var EnumGUID = uuid.MustParse("AF695110-1D50-4D61-A0A5-791C2CB7D2DC")

// Vec3Type is the cty shape used to expose Vec3 members to scripts.
var Vec3Type = cty.Object(map[string]cty.Type{
	"x": cty.Number,
	"y": cty.Number,
	"z": cty.Number,
})

// Member describes one payload field of a signal as scripts see it.
type Member struct {
	Name        string
	Label       string
	Description string
	Type        cty.Type
	Default     cty.Value
}

// Info is the reflection data exposed for a kind.
type Info struct {
	Kind        Kind
	Name        string
	Label       string
	SignalGUID  uuid.UUID
	SignalLabel string
	Members     []Member
}

var kindInfo = map[Kind]Info{
	KillEntity: {
		Kind: KillEntity, Name: "KillEntity", Label: "Kill Entity",
		SignalGUID:  uuid.MustParse("94D34E00-5D97-457C-A8E6-0DD1C96A43A2"),
		SignalLabel: "OnKillEntity",
	},
	EntityKilled: {
		Kind: EntityKilled, Name: "EntityKilled", Label: "Entity Killed",
		SignalGUID:  uuid.MustParse("AC823D62-9BC7-4718-AA4F-3DC3F0D8D439"),
		SignalLabel: "OnEntityKilled",
		Members: []Member{
			{
				Name: "EntityId", Label: "Entity Id",
				Description: "The unique identifier for the entity that was killed",
				Type:        cty.Number, Default: cty.NumberUIntVal(uint64(NoEntity)),
			},
			{
				Name: "EntityClassname", Label: "Entity Classname",
				Description: "The name of the class this entity belongs to",
				Type:        cty.String, Default: cty.StringVal(""),
			},
		},
	},
	LeftArena: {
		Kind: LeftArena, Name: "LeftArena", Label: "Left Arena",
		SignalGUID:  uuid.MustParse("FDB5B99C-FD56-495C-B9E4-F7AA1CBF6A65"),
		SignalLabel: "OnLeftArena",
		Members: []Member{
			{
				Name: "EdgeNormal", Label: "Edge Normal",
				Description: "Exit edge normal, useful for calculating a reflection vector",
				Type:        Vec3Type, Default: Vec3Value(Vec3{}),
			},
		},
	},
	SpawnPlayer: {
		Kind: SpawnPlayer, Name: "SpawnPlayer", Label: "Spawn Player",
		SignalGUID:  uuid.MustParse("1EE837C0-24BA-400C-A27F-1DD186F84927"),
		SignalLabel: "OnSpawnPlayer",
	},
	DisableWeapons: {
		Kind: DisableWeapons, Name: "DisableWeapons", Label: "Disable Weapons",
		SignalGUID:  uuid.MustParse("7F268A54-B294-4E6B-91A6-B3BD0BFA4A93"),
		SignalLabel: "OnDisableWeapons",
	},
	EnableWeapons: {
		Kind: EnableWeapons, Name: "EnableWeapons", Label: "Enable Weapons",
		SignalGUID:  uuid.MustParse("6018882A-C66C-42C4-8C39-84F0E1375DDD"),
		SignalLabel: "OnEnableWeapons",
	},
	StartSimulation: {
		Kind: StartSimulation, Name: "StartSimulation", Label: "Start Simulation",
		SignalGUID:  uuid.MustParse("0AACE79E-26E0-4846-BDA1-E1C30E66C469"),
		SignalLabel: "OnStartSimulation",
	},
	StopSimulation: {
		Kind: StopSimulation, Name: "StopSimulation", Label: "Stop Simulation",
		SignalGUID:  uuid.MustParse("6FECBA1C-B9FC-4F61-8CF0-AF6A4179475A"),
		SignalLabel: "OnStopSimulation",
	},
	ResetGame: {
		Kind: ResetGame, Name: "ResetGame", Label: "Reset Game",
		SignalGUID:  uuid.MustParse("E467F3BD-C5AC-4946-823A-F3A972E358DC"),
		SignalLabel: "OnResetGame",
	},
	CustomEvent: {
		Kind: CustomEvent, Name: "CustomEvent", Label: "Custom Event",
		SignalGUID:  uuid.MustParse("90089387-1786-4932-AAA0-55D6ABC7937E"),
		SignalLabel: "OnCustomEvent",
		Members: []Member{
			{
				Name: "Data", Label: "Data",
				Description: "The custom data/signal name for this custom event",
				Type:        cty.String, Default: cty.StringVal(""),
			},
		},
	},
}

// Describe returns the reflection data for k.
func Describe(k Kind) (Info, bool) {
	info, ok := kindInfo[k]
	return info, ok
}

// Vec3Value converts v into its script representation.
func Vec3Value(v Vec3) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"x": cty.NumberFloatVal(float64(v.X)),
		"y": cty.NumberFloatVal(float64(v.Y)),
		"z": cty.NumberFloatVal(float64(v.Z)),
	})
}
