package registrar

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/env"
	"github.com/specialistvlad/arenaplug/internal/typeid"
	"github.com/specialistvlad/arenaplug/internal/uielement"
	"github.com/zclconf/go-cty/cty"
)

// Member identifiers are namespaced by pass so that an element function
// named like a dynamic function gets its own identifier.
const (
	dynamicPrefix  = "dynamic:"
	functionPrefix = "function:"
	eventPrefix    = "event:"
)

// DynamicFunctionID returns the identifier of a built-in function of the
// component identified by owner.
func DynamicFunctionID(owner uuid.UUID, name string) uuid.UUID {
	return typeid.DeriveMember(owner, dynamicPrefix+name)
}

// ElementFunctionID returns the identifier of the element function name.
func ElementFunctionID(owner uuid.UUID, name string) uuid.UUID {
	return typeid.DeriveMember(owner, functionPrefix+name)
}

// ElementEventID returns the identifier of the signal for element event name.
func ElementEventID(owner uuid.UUID, name string) uuid.UUID {
	return typeid.DeriveMember(owner, eventPrefix+name)
}

// resolve returns an invoker that looks the element up at call time, so that
// functions keep working on the handle registered by the latest epoch.
func (r *Registrar) resolve(id uuid.UUID, fn func(ctx context.Context, el *uielement.Element, args []cty.Value) ([]cty.Value, error)) env.Invoker {
	return func(ctx context.Context, args []cty.Value) ([]cty.Value, error) {
		el, ok := r.elements.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("no UI element registered for %s", id)
		}
		return fn(ctx, el, args)
	}
}

func (r *Registrar) registerDynamicFunctions(scope *env.Scope, id uuid.UUID) {
	scope.Register(&env.Function{
		ID:          DynamicFunctionID(id, "SetVisible"),
		FuncName:    "SetVisible",
		Description: "Shows or hides the element",
		Inputs:      []env.Param{{Name: "visible", Type: cty.Bool}},
		Invoke: r.resolve(id, func(_ context.Context, el *uielement.Element, args []cty.Value) ([]cty.Value, error) {
			if args[0].IsNull() || !args[0].Type().Equals(cty.Bool) {
				return nil, fmt.Errorf("SetVisible expects a non-null bool, got %s", args[0].GoString())
			}
			el.SetVisible(args[0].True())
			return nil, nil
		}),
	})
	scope.Register(&env.Function{
		ID:          DynamicFunctionID(id, "IsVisible"),
		FuncName:    "IsVisible",
		Description: "Reports whether the element is shown",
		Outputs:     []env.Param{{Name: "visible", Type: cty.Bool}},
		Invoke: r.resolve(id, func(_ context.Context, el *uielement.Element, _ []cty.Value) ([]cty.Value, error) {
			return []cty.Value{cty.BoolVal(el.Visible())}, nil
		}),
	})
	scope.Register(&env.Function{
		ID:          DynamicFunctionID(id, "Unload"),
		FuncName:    "Unload",
		Description: "Unloads the element's movie",
		Invoke: r.resolve(id, func(_ context.Context, el *uielement.Element, _ []cty.Value) ([]cty.Value, error) {
			el.Unload()
			return nil, nil
		}),
	})
}

func (r *Registrar) registerElementFunctions(scope *env.Scope, id uuid.UUID, element *uielement.Element) {
	for _, fn := range element.Functions {
		name := fn.Name
		scope.Register(&env.Function{
			ID:          ElementFunctionID(id, name),
			FuncName:    name,
			Description: fn.Description,
			Inputs:      toEnvParams(fn.Params),
			Invoke: r.resolve(id, func(_ context.Context, el *uielement.Element, args []cty.Value) ([]cty.Value, error) {
				return nil, el.Call(name, args)
			}),
		})
	}
}

func (r *Registrar) registerElementEvents(scope *env.Scope, id uuid.UUID, element *uielement.Element) {
	for _, ev := range element.Events {
		members := make([]env.Member, 0, len(ev.Params))
		for _, p := range ev.Params {
			members = append(members, env.Member{
				Name:        p.Name,
				Label:       p.Name,
				Description: p.Description,
				Default:     cty.NullVal(p.Type),
			})
		}
		scope.Register(&env.Signal{
			ID:         ElementEventID(id, ev.Name),
			SignalName: ev.Name,
			Label:      ev.Name,
			Members:    members,
		})
	}
}

func toEnvParams(params []uielement.Param) []env.Param {
	out := make([]env.Param, 0, len(params))
	for _, p := range params {
		out = append(out, env.Param{Name: p.Name, Type: p.Type})
	}
	return out
}
