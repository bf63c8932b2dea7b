package env

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/ctxlog"
)

// ErrDuplicateGUID is reported when two registered elements share an identifier.
var ErrDuplicateGUID = errors.New("duplicate element identifier")

// CompileReport summarises one compilation of the environment.
type CompileReport struct {
	Generation int
	Packages   int
	Elements   map[ElementKind]int
}

// Total returns the number of compiled elements.
func (r *CompileReport) Total() int {
	n := 0
	for _, c := range r.Elements {
		n += c
	}
	return n
}

// Compiler validates the registered environment. Every call to CompileAll
// starts a new generation.
type Compiler struct {
	registry   *Registry
	generation int
	last       *CompileReport
}

// NewCompiler creates a compiler over registry.
func NewCompiler(registry *Registry) *Compiler {
	return &Compiler{registry: registry}
}

// CompileAll walks every package and fails if identifiers collide.
func (c *Compiler) CompileAll(ctx context.Context) (*CompileReport, error) {
	logger := ctxlog.FromContext(ctx)
	c.generation++

	report := &CompileReport{
		Generation: c.generation,
		Elements:   make(map[ElementKind]int),
	}

	type origin struct {
		pkg  string
		name string
	}
	seen := make(map[uuid.UUID]origin)
	var errs []error

	for _, pkg := range c.registry.Packages() {
		report.Packages++
		root, _ := c.registry.Root(pkg.GUID)
		root.Walk(func(_ int, s *Scope) {
			e := s.Element()
			report.Elements[e.Kind()]++
			if prev, dup := seen[e.GUID()]; dup {
				errs = append(errs, fmt.Errorf("%w: %s registered as %s/%s and %s/%s",
					ErrDuplicateGUID, e.GUID(), prev.pkg, prev.name, pkg.Name, e.Name()))
				return
			}
			seen[e.GUID()] = origin{pkg: pkg.Name, name: e.Name()}
		})
	}

	if len(errs) > 0 {
		logger.Error("Environment compilation failed.", "generation", c.generation, "errors", len(errs))
		return report, fmt.Errorf("compile generation %d: %w", c.generation, errors.Join(errs...))
	}

	c.last = report
	logger.Info("Environment compiled.", "generation", c.generation, "packages", report.Packages, "elements", report.Total())
	return report, nil
}

// Generation returns the number of CompileAll calls so far.
func (c *Compiler) Generation() int {
	return c.generation
}

// LastReport returns the report of the last successful compilation, or nil.
func (c *Compiler) LastReport() *CompileReport {
	return c.last
}
