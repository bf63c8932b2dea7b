// Package uimodule owns the FlashComponents environment package: the
// components generated from UI elements and the rules deciding when they may
// be rebuilt.
//
// A Module is driven from the host's logic thread. It holds the element
// registry and the descriptor cache of the current registration epoch and
// rebuilds both from scratch on every reload.
package uimodule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/specialistvlad/arenaplug/internal/elementstore"
	"github.com/specialistvlad/arenaplug/internal/env"
	"github.com/specialistvlad/arenaplug/internal/registrar"
	"github.com/specialistvlad/arenaplug/internal/uielement"
)

const (
	PackageName = "FlashComponents"
	ModuleName  = "FlashUI"
)

var (
	// PackageGUID identifies the FlashComponents package.
	PackageGUID = uuid.MustParse("58CC50B0-EC1A-4EFD-A5D6-9528ED3CCCF4")
	// ModuleGUID identifies the FlashUI module inside the package.
	ModuleGUID = uuid.NewSHA1(PackageGUID, []byte(ModuleName))
)

// PackageRegistry is the part of the host environment the module registers
// its package with.
type PackageRegistry interface {
	RegisterPackage(ctx context.Context, pkg *env.Package) error
	DeregisterPackage(ctx context.Context, id uuid.UUID) bool
}

// Compiler recompiles the host environment after a reload.
type Compiler interface {
	CompileAll(ctx context.Context) (*env.CompileReport, error)
}

// Config controls the module's reload policy.
type Config struct {
	// Editor is set when running inside the editor. Outside of it reloads
	// are only possible until post-init.
	Editor bool
	// Release suppresses diagnostics for invalid elements.
	Release bool
}

// Module is the lifecycle shim around the dynamic element registrar.
type Module struct {
	cfg       Config
	packages  PackageRegistry
	compiler  Compiler
	source    uielement.Source
	elements  *elementstore.Store
	descs     *env.DescFactory
	registrar *registrar.Registrar

	state        State
	saved        State
	inModeSwitch bool
	locked       bool
	previews     int
	last         registrar.Result

	bindings map[uuid.UUID][]ElementEventListener
}

// New creates a module that registers the elements of source. Reloads start
// out allowed in the editor and blocked elsewhere.
func New(cfg Config, packages PackageRegistry, compiler Compiler, source uielement.Source) *Module {
	m := &Module{
		cfg:      cfg,
		packages: packages,
		compiler: compiler,
		source:   source,
		descs:    env.NewDescFactory(),
		state:    ReloadBlocked,
		bindings: make(map[uuid.UUID][]ElementEventListener),
	}
	m.elements = elementstore.NewWatched(m.watchElement)
	if cfg.Editor {
		m.state = ReloadAllowed
	}
	m.registrar = registrar.New(m.descs, m.elements, cfg.Release)
	return m
}

// Package returns the environment package describing the module's components.
func (m *Module) Package() *env.Package {
	return &env.Package{
		GUID:        PackageGUID,
		Name:        PackageName,
		Author:      "arenaplug",
		Description: "Components generated from UI elements",
		Register:    m.register,
	}
}

func (m *Module) register(ctx context.Context, root *env.Scope) {
	scope := root.Register(&env.Module{ID: ModuleGUID, ModuleName: ModuleName})
	m.last = m.registrar.RegisterDynamicComponents(ctx, m.source, scope)
}

// RegisterEnv registers the package with the host environment.
func (m *Module) RegisterEnv(ctx context.Context) error {
	if err := m.packages.RegisterPackage(ctx, m.Package()); err != nil {
		return fmt.Errorf("failed to register %s package: %w", PackageName, err)
	}
	return nil
}

// UnregisterEnv removes the package from the host environment and reports
// whether it was registered.
func (m *Module) UnregisterEnv(ctx context.Context) bool {
	return m.packages.DeregisterPackage(ctx, PackageGUID)
}

// State returns the current reload state.
func (m *Module) State() State {
	return m.state
}

// ModeSwitchStart blocks reloads until the matching ModeSwitchEnd.
func (m *Module) ModeSwitchStart(ctx context.Context) {
	if m.inModeSwitch {
		return
	}
	m.inModeSwitch = true
	m.saved = m.state
	m.setState(ctx, ReloadBlocked, "mode switch started")
}

// ModeSwitchEnd restores the allowance that was in effect before the switch.
func (m *Module) ModeSwitchEnd(ctx context.Context) {
	if !m.inModeSwitch {
		return
	}
	m.inModeSwitch = false
	if m.locked {
		return
	}
	m.setState(ctx, m.saved, "mode switch ended")
}

// PostInit locks reloads for good when not running inside the editor.
func (m *Module) PostInit(ctx context.Context) {
	if m.cfg.Editor {
		return
	}
	m.locked = true
	m.saved = ReloadBlocked
	m.setState(ctx, ReloadBlocked, "post-init outside the editor")
}

func (m *Module) setState(ctx context.Context, s State, reason string) {
	if m.state == s {
		return
	}
	ctxlog.FromContext(ctx).Debug("UI reload state changed.", "from", m.state, "to", s, "reason", reason)
	m.state = s
}

// PreviewOpened records a preview instance opened by the editor.
func (m *Module) PreviewOpened() {
	m.previews++
}

// PreviewClosed records a closed preview instance. The count never drops
// below zero.
func (m *Module) PreviewClosed(ctx context.Context) {
	if m.previews == 0 {
		ctxlog.FromContext(ctx).Warn("Preview instance closed but none were open.")
		return
	}
	m.previews--
}

// PreviewInstances returns the number of open preview instances.
func (m *Module) PreviewInstances() int {
	return m.previews
}

// AllowReload reports whether a reload may happen now. A refusal is logged
// and is not an error; callers retry later.
func (m *Module) AllowReload(ctx context.Context) bool {
	logger := ctxlog.FromContext(ctx)
	if m.state != ReloadAllowed {
		logger.Warn("UI reload is blocked.", "state", m.state)
		return false
	}
	if m.previews > 0 {
		logger.Warn("Cannot reload UI while preview instances are open.", "previews", m.previews)
		return false
	}
	return true
}

// Reload rebuilds the package from scratch and recompiles the environment.
// It returns false when the reload was refused, in which case nothing was
// touched. Host failures are returned as is and not rolled back.
func (m *Module) Reload(ctx context.Context) (bool, error) {
	if !m.AllowReload(ctx) {
		return false, nil
	}

	logger := ctxlog.FromContext(ctx)
	logger.Info("🔄 Reloading UI components.")

	m.UnregisterEnv(ctx)
	m.elements.Reset()
	m.descs.Reset()

	if err := m.RegisterEnv(ctx); err != nil {
		return true, err
	}
	if _, err := m.compiler.CompileAll(ctx); err != nil {
		return true, fmt.Errorf("failed to compile environment after UI reload: %w", err)
	}

	logger.Info("✅ UI components reloaded.", "registered", len(m.last.Registered), "skipped", len(m.last.Skipped))
	return true, nil
}

// Shutdown deregisters the package, drops the epoch's caches and forgets
// every element event binding.
func (m *Module) Shutdown(ctx context.Context) {
	m.UnregisterEnv(ctx)
	m.elements.Reset()
	m.descs.Reset()
	clear(m.bindings)
	ctxlog.FromContext(ctx).Debug("UI module shut down.")
}

// Elements returns the element registry of the current epoch.
func (m *Module) Elements() *elementstore.Store {
	return m.elements
}

// Descriptors returns the descriptor cache of the current epoch.
func (m *Module) Descriptors() *env.DescFactory {
	return m.descs
}

// LastResult returns the outcome of the latest registration epoch.
func (m *Module) LastResult() registrar.Result {
	return m.last
}
