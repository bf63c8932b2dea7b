package uimodule

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/registrar"
	"github.com/specialistvlad/arenaplug/internal/uielement"
	"github.com/zclconf/go-cty/cty"
)

// ElementEvent is an event fired by the element behind a generated component.
type ElementEvent struct {
	// Component is the identifier of the generated component.
	Component uuid.UUID
	// Signal is the identifier of the signal registered for the event.
	Signal  uuid.UUID
	Element string
	Event   string
	Args    map[string]cty.Value
}

// ElementEventListener receives the events of the components it is bound to.
// Implementations should be pointers; listeners are kept by identity.
type ElementEventListener interface {
	OnElementEvent(ev ElementEvent)
}

// BindElementEvents delivers the events of the component identified by
// component to l. Bindings survive reloads: the handle registered by each
// epoch relays to the same listeners. It reports false for a nil or
// non-comparable listener and for a listener that is already bound.
func (m *Module) BindElementEvents(component uuid.UUID, l ElementEventListener) bool {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return false
	}
	for _, existing := range m.bindings[component] {
		if existing == l {
			return false
		}
	}
	m.bindings[component] = append(m.bindings[component], l)
	return true
}

// UnbindElementEvents stops delivering the component's events to l.
func (m *Module) UnbindElementEvents(component uuid.UUID, l ElementEventListener) {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return
	}
	list := m.bindings[component]
	for i, existing := range list {
		if existing != l {
			continue
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(m.bindings, component)
		} else {
			m.bindings[component] = list
		}
		return
	}
}

// watchElement subscribes to a freshly registered element and relays what it
// fires to the listeners bound to its component. The element store detaches
// the subscription when the entry is replaced or reset.
func (m *Module) watchElement(id uuid.UUID, el *uielement.Element) func() {
	return el.Subscribe(func(event string, args map[string]cty.Value) {
		m.relayElementEvent(ElementEvent{
			Component: id,
			Signal:    registrar.ElementEventID(id, event),
			Element:   el.Name(),
			Event:     event,
			Args:      args,
		})
	})
}

// relayElementEvent walks a snapshot of the bindings, so listeners that bind
// or unbind while handling an event only affect later events.
func (m *Module) relayElementEvent(ev ElementEvent) {
	targets := append([]ElementEventListener(nil), m.bindings[ev.Component]...)
	for _, l := range targets {
		l.OnElementEvent(ev)
	}
}
