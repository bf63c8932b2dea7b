package plugin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/env"
	"github.com/specialistvlad/arenaplug/internal/gameevent"
	"github.com/specialistvlad/arenaplug/internal/listener"
	"github.com/specialistvlad/arenaplug/internal/typeid"
	"github.com/specialistvlad/arenaplug/internal/uimodule"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// GameEventSubscriberGUID identifies the component that lets entities listen
// to game events and UI element events from scripts.
var GameEventSubscriberGUID = uuid.MustParse("6E0F2C1B-4A7D-4B39-8E52-3D9A1C7F0B64")

func init() {
	RegisterComponent(Component{
		GUID:     GameEventSubscriberGUID,
		Name:     "GameEventSubscriber",
		Label:    "Game Event Subscriber",
		Category: "Game",
		Flags:    env.FlagSingleton,
		Members:  registerSubscriberMembers,
	})
}

func subscriberMemberID(name string) uuid.UUID {
	return uuid.NewSHA1(GameEventSubscriberGUID, []byte(name))
}

func registerSubscriberMembers(p *Plugin, scope *env.Scope) {
	entityAndEvents := []env.Param{
		{Name: "entity", Type: cty.Number},
		{Name: "events", Type: cty.String},
	}
	entityAndElement := []env.Param{
		{Name: "entity", Type: cty.Number},
		{Name: "element", Type: cty.String},
	}

	scope.Register(&env.Function{
		ID:          subscriberMemberID("Subscribe"),
		FuncName:    "Subscribe",
		Description: "Starts delivering the listed game events to the entity",
		Inputs:      entityAndEvents,
		Invoke: func(_ context.Context, args []cty.Value) ([]cty.Value, error) {
			entity, mask, err := subscriptionArgs(args)
			if err != nil {
				return nil, err
			}
			p.Subscribe(entity, mask)
			return nil, nil
		},
	})
	scope.Register(&env.Function{
		ID:          subscriberMemberID("Unsubscribe"),
		FuncName:    "Unsubscribe",
		Description: "Stops delivering the listed game events to the entity",
		Inputs:      entityAndEvents,
		Invoke: func(_ context.Context, args []cty.Value) ([]cty.Value, error) {
			entity, mask, err := subscriptionArgs(args)
			if err != nil {
				return nil, err
			}
			p.Unsubscribe(entity, mask)
			return nil, nil
		},
	})
	scope.Register(&env.Function{
		ID:          subscriberMemberID("SubscribeElement"),
		FuncName:    "SubscribeElement",
		Description: "Starts delivering the events of a UI element to the entity",
		Inputs:      entityAndElement,
		Invoke: func(_ context.Context, args []cty.Value) ([]cty.Value, error) {
			entity, name, err := elementArgs(args)
			if err != nil {
				return nil, err
			}
			return nil, p.SubscribeElement(entity, name)
		},
	})
	scope.Register(&env.Function{
		ID:          subscriberMemberID("UnsubscribeElement"),
		FuncName:    "UnsubscribeElement",
		Description: "Stops delivering the events of a UI element to the entity",
		Inputs:      entityAndElement,
		Invoke: func(_ context.Context, args []cty.Value) ([]cty.Value, error) {
			entity, name, err := elementArgs(args)
			if err != nil {
				return nil, err
			}
			p.UnsubscribeElement(entity, name)
			return nil, nil
		},
	})
	scope.Register(&env.Function{
		ID:          subscriberMemberID("TakeEvents"),
		FuncName:    "TakeEvents",
		Description: "Returns and clears the events delivered to the entity, oldest first",
		Inputs:      []env.Param{{Name: "entity", Type: cty.Number}},
		Outputs:     []env.Param{{Name: "events", Type: cty.DynamicPseudoType}},
		Invoke: func(_ context.Context, args []cty.Value) ([]cty.Value, error) {
			entity, err := entityFromValue(args[0])
			if err != nil {
				return nil, err
			}
			return []cty.Value{cty.TupleVal(p.TakeEvents(entity))}, nil
		},
	})
}

func subscriptionArgs(args []cty.Value) (gameevent.EntityID, gameevent.Mask, error) {
	entity, err := entityFromValue(args[0])
	if err != nil {
		return gameevent.NoEntity, gameevent.Mask{}, err
	}
	mask, err := parseEventList(args[1])
	if err != nil {
		return gameevent.NoEntity, gameevent.Mask{}, err
	}
	return entity, mask, nil
}

func elementArgs(args []cty.Value) (gameevent.EntityID, string, error) {
	entity, err := entityFromValue(args[0])
	if err != nil {
		return gameevent.NoEntity, "", err
	}
	var name string
	if err := gocty.FromCtyValue(args[1], &name); err != nil {
		return gameevent.NoEntity, "", fmt.Errorf("invalid element name: %w", err)
	}
	return entity, name, nil
}

// Subscribe routes the kinds in mask to the entity's mailbox.
func (p *Plugin) Subscribe(entity gameevent.EntityID, mask gameevent.Mask) {
	sub, ok := p.subscribers[entity]
	if !ok {
		sub = listener.NewSubscriber(entity, func(sig gameevent.Signal) {
			p.deliver(entity, signalValue(sig))
		})
		p.subscribers[entity] = sub
	}
	p.events.Subscribe(sub, mask)
}

// Unsubscribe stops routing the kinds in mask to the entity's mailbox.
func (p *Plugin) Unsubscribe(entity gameevent.EntityID, mask gameevent.Mask) {
	sub, ok := p.subscribers[entity]
	if !ok {
		return
	}
	p.events.Unsubscribe(sub, mask)
	if _, still := p.events.Mask(sub); !still {
		delete(p.subscribers, entity)
	}
}

// elementSubscriber relays the events of bound UI elements to one entity.
type elementSubscriber struct {
	plugin *Plugin
	entity gameevent.EntityID
}

func (s *elementSubscriber) OnElementEvent(ev uimodule.ElementEvent) {
	s.plugin.deliver(s.entity, elementEventValue(ev))
}

// SubscribeElement routes the events of the registered UI element called
// name to the entity's mailbox. The binding outlives reloads for as long as
// an element of that name is registered again.
func (p *Plugin) SubscribeElement(entity gameevent.EntityID, name string) error {
	id := typeid.Derive(name)
	if _, ok := p.ui.Elements().Lookup(id); !ok {
		return fmt.Errorf("no UI element %q is registered", name)
	}
	sub, ok := p.elementSubs[entity]
	if !ok {
		sub = &elementSubscriber{plugin: p, entity: entity}
		p.elementSubs[entity] = sub
	}
	p.ui.BindElementEvents(id, sub)
	return nil
}

// UnsubscribeElement stops routing the events of the element called name to
// the entity's mailbox.
func (p *Plugin) UnsubscribeElement(entity gameevent.EntityID, name string) {
	if sub, ok := p.elementSubs[entity]; ok {
		p.ui.UnbindElementEvents(typeid.Derive(name), sub)
	}
}

func (p *Plugin) deliver(entity gameevent.EntityID, v cty.Value) {
	p.mailboxes[entity] = append(p.mailboxes[entity], v)
}

// TakeEvents returns and clears the events delivered to the entity. Each
// event is an object with an "event" name, the "signal" identifier and a
// "payload" object; element events also carry the "element" name.
func (p *Plugin) TakeEvents(entity gameevent.EntityID) []cty.Value {
	events := p.mailboxes[entity]
	delete(p.mailboxes, entity)
	return events
}

func signalValue(sig gameevent.Signal) cty.Value {
	payload, err := gameevent.EncodePayload(sig)
	if err != nil {
		payload = cty.EmptyObjectVal
	}
	info, _ := gameevent.Describe(sig.Kind())
	return cty.ObjectVal(map[string]cty.Value{
		"event":   cty.StringVal(sig.Kind().String()),
		"signal":  cty.StringVal(info.SignalGUID.String()),
		"payload": payload,
	})
}

func elementEventValue(ev uimodule.ElementEvent) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"event":   cty.StringVal(ev.Event),
		"signal":  cty.StringVal(ev.Signal.String()),
		"element": cty.StringVal(ev.Element),
		"payload": cty.ObjectVal(ev.Args),
	})
}
