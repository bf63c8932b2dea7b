// Package uielement describes the UI elements the game ships with and loads
// them from HCL manifests.
//
// An element is described by a manifest and backed by a movie file. Elements
// whose movie cannot be found are still listed but report themselves invalid,
// so that callers can skip them with a diagnostic instead of failing the
// whole load.
package uielement

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Param is a named, typed argument of an element function or event.
type Param struct {
	Name        string
	Description string
	Type        cty.Type
}

// Function is a callback exposed by an element's movie.
type Function struct {
	Name        string
	Description string
	Params      []Param
}

// Event is a notification raised by an element's movie.
type Event struct {
	Name        string
	Description string
	Params      []Param
}

// Call records one invocation of an element function.
type Call struct {
	Function string
	Args     []cty.Value
}

// EventHandler receives events fired by an element.
type EventHandler func(event string, args map[string]cty.Value)

// Element is a live UI element handle.
type Element struct {
	ElementName string
	Description string
	Movie       string
	Manifest    string
	Functions   []Function
	Events      []Event

	// Problem explains why the element is invalid; empty when valid.
	Problem string

	visible  bool
	unloaded bool
	calls    []Call
	handlers map[int]EventHandler
	nextID   int
}

// Name returns the element's name.
func (e *Element) Name() string {
	return e.ElementName
}

// Valid reports whether the element was described and its movie resolved.
func (e *Element) Valid() bool {
	return e.Problem == ""
}

// SetVisible shows or hides the element. Unloaded elements stay hidden.
func (e *Element) SetVisible(visible bool) {
	if e.unloaded {
		return
	}
	e.visible = visible
}

// Visible reports whether the element is shown.
func (e *Element) Visible() bool {
	return e.visible
}

// Unload hides the element and releases its movie until the next reload.
func (e *Element) Unload() {
	e.visible = false
	e.unloaded = true
}

// Loaded reports whether the element's movie is loaded.
func (e *Element) Loaded() bool {
	return !e.unloaded
}

// Function returns the declared function called name.
func (e *Element) Function(name string) (Function, bool) {
	for _, f := range e.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return Function{}, false
}

// Event returns the declared event called name.
func (e *Element) Event(name string) (Event, bool) {
	for _, ev := range e.Events {
		if ev.Name == name {
			return ev, true
		}
	}
	return Event{}, false
}

// Call invokes a declared function, converting args to the declared
// parameter types. The converted call is recorded for the movie backend.
func (e *Element) Call(name string, args []cty.Value) error {
	fn, ok := e.Function(name)
	if !ok {
		return fmt.Errorf("element %q has no function %q", e.ElementName, name)
	}
	if len(args) != len(fn.Params) {
		return fmt.Errorf("element %q function %q expects %d arguments, got %d", e.ElementName, name, len(fn.Params), len(args))
	}
	converted := make([]cty.Value, len(args))
	for i, p := range fn.Params {
		v, err := convert.Convert(args[i], p.Type)
		if err != nil {
			return fmt.Errorf("element %q function %q argument %q: %w", e.ElementName, name, p.Name, err)
		}
		converted[i] = v
	}
	e.calls = append(e.calls, Call{Function: name, Args: converted})
	return nil
}

// Calls returns the recorded function invocations.
func (e *Element) Calls() []Call {
	return e.calls
}

// Subscribe registers a handler for events fired by the element. The
// returned function removes it.
func (e *Element) Subscribe(h EventHandler) func() {
	if e.handlers == nil {
		e.handlers = make(map[int]EventHandler)
	}
	id := e.nextID
	e.nextID++
	e.handlers[id] = h
	return func() { delete(e.handlers, id) }
}

// Subscribers returns the number of attached event handlers.
func (e *Element) Subscribers() int {
	return len(e.handlers)
}

// Fire raises a declared event. Missing arguments are passed as nulls of the
// declared type; unknown arguments are an error.
func (e *Element) Fire(name string, args map[string]cty.Value) error {
	ev, ok := e.Event(name)
	if !ok {
		return fmt.Errorf("element %q has no event %q", e.ElementName, name)
	}
	out := make(map[string]cty.Value, len(ev.Params))
	for _, p := range ev.Params {
		v, present := args[p.Name]
		if !present {
			out[p.Name] = cty.NullVal(p.Type)
			continue
		}
		cv, err := convert.Convert(v, p.Type)
		if err != nil {
			return fmt.Errorf("element %q event %q argument %q: %w", e.ElementName, name, p.Name, err)
		}
		out[p.Name] = cv
	}
	for k := range args {
		if _, ok := out[k]; !ok {
			return fmt.Errorf("element %q event %q has no argument %q", e.ElementName, name, k)
		}
	}
	for _, h := range e.handlers {
		h(name, out)
	}
	return nil
}
