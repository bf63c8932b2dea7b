package env

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/ctxlog"
)

// Package is a unit of registration. Register populates the package's root
// scope and is called every time the package is (re)registered.
type Package struct {
	GUID        uuid.UUID
	Name        string
	Author      string
	Description string
	Register    func(ctx context.Context, root *Scope)
}

type registeredPackage struct {
	pkg  *Package
	root *Scope
}

// Registry holds the registered packages in registration order.
type Registry struct {
	packages map[uuid.UUID]*registeredPackage
	order    []uuid.UUID
}

// NewRegistry creates an empty environment registry.
func NewRegistry() *Registry {
	return &Registry{
		packages: make(map[uuid.UUID]*registeredPackage),
	}
}

// RegisterPackage runs the package's registration callback against a fresh
// root scope and stores the result. Registering a GUID that is already
// present replaces the previous registration.
func (r *Registry) RegisterPackage(ctx context.Context, pkg *Package) error {
	if pkg == nil {
		return errors.New("package is nil")
	}
	if pkg.GUID == uuid.Nil {
		return fmt.Errorf("package %q has no GUID", pkg.Name)
	}
	if pkg.Register == nil {
		return fmt.Errorf("package %q has no registration callback", pkg.Name)
	}

	logger := ctxlog.FromContext(ctx).With("package", pkg.Name, "guid", pkg.GUID.String())
	root := NewRootScope()
	pkg.Register(ctx, root)

	if existing, ok := r.packages[pkg.GUID]; ok {
		logger.Warn("Package already registered, replacing previous registration.", "previous", existing.pkg.Name)
		existing.pkg = pkg
		existing.root = root
		return nil
	}

	r.packages[pkg.GUID] = &registeredPackage{pkg: pkg, root: root}
	r.order = append(r.order, pkg.GUID)
	logger.Debug("Package registered.", "elements", root.Count())
	return nil
}

// DeregisterPackage removes the package with the given GUID and reports
// whether it was registered.
func (r *Registry) DeregisterPackage(ctx context.Context, id uuid.UUID) bool {
	entry, ok := r.packages[id]
	if !ok {
		return false
	}
	delete(r.packages, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	ctxlog.FromContext(ctx).Debug("Package deregistered.", "package", entry.pkg.Name, "guid", id.String())
	return true
}

// Root returns the root scope of a registered package.
func (r *Registry) Root(id uuid.UUID) (*Scope, bool) {
	entry, ok := r.packages[id]
	if !ok {
		return nil, false
	}
	return entry.root, true
}

// Packages returns the registered packages in registration order.
func (r *Registry) Packages() []*Package {
	out := make([]*Package, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.packages[id].pkg)
	}
	return out
}

// Len returns the number of registered packages.
func (r *Registry) Len() int {
	return len(r.order)
}
