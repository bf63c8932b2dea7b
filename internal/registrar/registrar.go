// Package registrar turns the UI elements known to the host into entity
// component types of the scripting environment.
//
// One call to RegisterDynamicComponents is one registration epoch. The
// registrar keeps no state between epochs; callers reset the element
// registry and the descriptor cache before running it again.
package registrar

import (
	"context"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/specialistvlad/arenaplug/internal/env"
	"github.com/specialistvlad/arenaplug/internal/typeid"
	"github.com/specialistvlad/arenaplug/internal/uielement"
)

const (
	// LabelPrefix prefixes the display label of every generated component.
	LabelPrefix = "FlashElement:"
	// EditorCategory groups generated components in the editor.
	EditorCategory = "FlashUI"
	// ComponentFlags are set on every generated component.
	ComponentFlags = env.FlagHideFromInspector | env.FlagSingleton
)

// DescriptorRegistry hands out component descriptors by identifier.
type DescriptorRegistry interface {
	GetOrCreate(id uuid.UUID) *env.ComponentDesc
}

// ElementRegistry records which element handle belongs to which identifier.
type ElementRegistry interface {
	RegisterElement(id uuid.UUID, element *uielement.Element)
	Lookup(id uuid.UUID) (*uielement.Element, bool)
}

// Result summarises one registration epoch.
type Result struct {
	// Registered holds the identifiers of the generated components in
	// enumeration order.
	Registered []uuid.UUID
	// Skipped holds the names of invalid elements.
	Skipped []string
}

// Registrar registers one component per valid UI element.
type Registrar struct {
	descs    DescriptorRegistry
	elements ElementRegistry
	release  bool
}

// New creates a registrar. In release mode invalid elements are skipped
// without a warning.
func New(descs DescriptorRegistry, elements ElementRegistry, release bool) *Registrar {
	return &Registrar{descs: descs, elements: elements, release: release}
}

// RegisterDynamicComponents registers every valid element of source under
// scope. Each generated component gets its own child scope holding the
// dynamic functions, the element's functions and the element's events.
func (r *Registrar) RegisterDynamicComponents(ctx context.Context, source uielement.Source, scope *env.Scope) Result {
	logger := ctxlog.FromContext(ctx)
	var res Result

	count := source.Count()
	logger.Debug("Registering dynamic UI components.", "elements", count)

	for i := 0; i < count; i++ {
		element := source.ElementAt(i)
		if element == nil || !element.Valid() {
			name, problem := "", "missing handle"
			if element != nil {
				name, problem = element.Name(), element.Problem
			}
			if !r.release {
				logger.Warn("Skipping invalid UI element.", "index", i, "name", name, "problem", problem)
			}
			res.Skipped = append(res.Skipped, name)
			continue
		}

		name := element.Name()
		id := typeid.Derive(name)

		desc := r.descs.GetOrCreate(id)
		desc.SetGUID(id)
		desc.SetName(typeid.TypeString(name))
		desc.SetLabel(LabelPrefix + name)
		desc.SetEditorCategory(EditorCategory)
		desc.SetComponentFlags(ComponentFlags)

		componentScope := scope.Register(desc)
		r.elements.RegisterElement(id, element)

		r.registerDynamicFunctions(componentScope, id)
		r.registerElementFunctions(componentScope, id, element)
		r.registerElementEvents(componentScope, id, element)

		logger.Debug("Registered UI element component.", "name", name, "guid", id.String(),
			"functions", len(element.Functions), "events", len(element.Events))
		res.Registered = append(res.Registered, id)
	}

	logger.Info("Dynamic UI components registered.", "registered", len(res.Registered), "skipped", len(res.Skipped))
	return res
}
