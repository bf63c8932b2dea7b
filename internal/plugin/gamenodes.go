package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/specialistvlad/arenaplug/internal/env"
	"github.com/specialistvlad/arenaplug/internal/gameevent"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// GameModuleName is the script module holding the game nodes.
const GameModuleName = "Game"

// GameNodeID returns the identifier of a node of the GameNodes package.
func GameNodeID(name string) uuid.UUID {
	return uuid.NewSHA1(GameNodesGUID, []byte(name))
}

func (p *Plugin) registerGameNodes(ctx context.Context, root *env.Scope) {
	mod := root.Register(&env.Module{ID: GameNodeID(GameModuleName), ModuleName: GameModuleName})

	enum := &env.EnumType{
		ID:          gameevent.EnumGUID,
		TypeName:    "GameEvent",
		Label:       "Game Event",
		Description: "Kinds of game events",
	}
	for _, k := range gameevent.All {
		enum.Constants = append(enum.Constants, env.EnumConstant{Value: uint64(k), Name: k.String(), Label: k.Label()})
	}
	mod.Register(enum)

	for _, k := range gameevent.All {
		info, ok := gameevent.Describe(k)
		if !ok {
			continue
		}
		members := make([]env.Member, 0, len(info.Members))
		for _, m := range info.Members {
			members = append(members, env.Member{Name: m.Name, Label: m.Label, Description: m.Description, Default: m.Default})
		}
		mod.Register(&env.Signal{
			ID:         info.SignalGUID,
			SignalName: info.Name,
			Label:      info.SignalLabel,
			Members:    members,
		})
	}

	mod.Register(&env.Function{
		ID:          GameNodeID("SendEvent"),
		FuncName:    "SendEvent",
		Description: "Broadcasts a game event",
		Inputs: []env.Param{
			{Name: "event", Type: cty.String},
			payloadParam,
		},
		Outputs: []env.Param{{Name: "deliveries", Type: cty.Number}},
		Invoke: func(ctx context.Context, args []cty.Value) ([]cty.Value, error) {
			sig, err := signalFromValue(args[0], args[1])
			if err != nil {
				return nil, err
			}
			return []cty.Value{cty.NumberIntVal(int64(p.SendEvent(ctx, sig)))}, nil
		},
	})
	mod.Register(&env.Function{
		ID:          GameNodeID("SendEventToEntity"),
		FuncName:    "SendEventToEntity",
		Description: "Sends a game event to the listeners of one entity",
		Inputs: []env.Param{
			{Name: "entity", Type: cty.Number},
			{Name: "event", Type: cty.String},
			payloadParam,
		},
		Outputs: []env.Param{{Name: "deliveries", Type: cty.Number}},
		Invoke: func(ctx context.Context, args []cty.Value) ([]cty.Value, error) {
			entity, err := entityFromValue(args[0])
			if err != nil {
				return nil, err
			}
			sig, err := signalFromValue(args[1], args[2])
			if err != nil {
				return nil, err
			}
			return []cty.Value{cty.NumberIntVal(int64(p.SendEventToEntity(ctx, entity, sig)))}, nil
		},
	})
	mod.Register(&env.Function{
		ID:          GameNodeID("SendCustomEvent"),
		FuncName:    "SendCustomEvent",
		Description: "Broadcasts a custom event carrying data",
		Inputs:      []env.Param{{Name: "data", Type: cty.String}},
		Outputs:     []env.Param{{Name: "deliveries", Type: cty.Number}},
		Invoke: func(ctx context.Context, args []cty.Value) ([]cty.Value, error) {
			var data string
			if err := gocty.FromCtyValue(args[0], &data); err != nil {
				return nil, fmt.Errorf("invalid custom event data: %w", err)
			}
			return []cty.Value{cty.NumberIntVal(int64(p.SendEvent(ctx, gameevent.CustomSignal{Data: data})))}, nil
		},
	})

	ctxlog.FromContext(ctx).Debug("Game nodes registered.", "elements", mod.Count())
}

// payloadParam carries the members of the sent event. Left out, the event is
// sent with its default payload.
var payloadParam = env.Param{Name: "payload", Type: cty.DynamicPseudoType, Optional: true}

func signalFromValue(name, payload cty.Value) (gameevent.Signal, error) {
	var kindName string
	if err := gocty.FromCtyValue(name, &kindName); err != nil {
		return nil, fmt.Errorf("invalid event name: %w", err)
	}
	k, err := gameevent.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	return gameevent.DecodePayload(k, payload)
}

func entityFromValue(v cty.Value) (gameevent.EntityID, error) {
	var id uint64
	if err := gocty.FromCtyValue(v, &id); err != nil {
		return gameevent.NoEntity, fmt.Errorf("invalid entity id: %w", err)
	}
	return gameevent.EntityID(id), nil
}

// parseEventList parses "KillEntity|ResetGame" style kind lists.
func parseEventList(v cty.Value) (gameevent.Mask, error) {
	var list string
	if err := gocty.FromCtyValue(v, &list); err != nil {
		return gameevent.Mask{}, fmt.Errorf("invalid event list: %w", err)
	}
	var names []string
	for _, part := range strings.Split(list, "|") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return gameevent.ParseMask(names)
}
