// Package plugin is the game plugin entry point. It listens to host
// lifecycle events, publishes the game's environment packages and gates UI
// reloads through the FlashComponents module.
package plugin

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/specialistvlad/arenaplug/internal/env"
	"github.com/specialistvlad/arenaplug/internal/gameevent"
	"github.com/specialistvlad/arenaplug/internal/listener"
	"github.com/specialistvlad/arenaplug/internal/uielement"
	"github.com/specialistvlad/arenaplug/internal/uimodule"
	"github.com/zclconf/go-cty/cty"
)

const (
	// ListenerName is the name the plugin registers its lifecycle listener under.
	ListenerName = "ArenaPlugin"

	EntityComponentsPackage = "EntityComponents"
	GameNodesPackage        = "GameNodes"
)

var (
	// GUID identifies the plugin and its EntityComponents package.
	GUID = uuid.MustParse("BCC7B624-C27D-4F45-A578-A00BB040B37C")
	// GameNodesGUID identifies the GameNodes package.
	GameNodesGUID = uuid.MustParse("2C5A9A6E-8F4B-4D8E-9B1E-5C0B7E3A1F42")
)

// Config controls the plugin.
type Config struct {
	Editor  bool
	Release bool
	// RegisterOnPostInit also registers the environment packages when
	// GamePostInit arrives.
	RegisterOnPostInit bool
}

// Plugin owns the game event directory and the UI module for one session.
type Plugin struct {
	cfg        Config
	packages   uimodule.PackageRegistry
	ui         *uimodule.Module
	events     *listener.Directory
	dispatcher *Dispatcher

	subscribers map[gameevent.EntityID]*listener.Subscriber
	elementSubs map[gameevent.EntityID]*elementSubscriber
	mailboxes   map[gameevent.EntityID][]cty.Value
}

// New creates a plugin publishing its packages to packages. compiler and
// source are handed to the UI module.
func New(cfg Config, packages uimodule.PackageRegistry, compiler uimodule.Compiler, source uielement.Source) *Plugin {
	return &Plugin{
		cfg:      cfg,
		packages: packages,
		ui: uimodule.New(uimodule.Config{
			Editor:  cfg.Editor,
			Release: cfg.Release,
		}, packages, compiler, source),
		events:      listener.NewDirectory(),
		subscribers: make(map[gameevent.EntityID]*listener.Subscriber),
		elementSubs: make(map[gameevent.EntityID]*elementSubscriber),
		mailboxes:   make(map[gameevent.EntityID][]cty.Value),
	}
}

// Initialize registers the plugin for lifecycle events.
func (p *Plugin) Initialize(ctx context.Context, d *Dispatcher) error {
	if d == nil {
		return errors.New("system event dispatcher is nil")
	}
	if !d.RegisterListener(p, ListenerName) {
		return errors.New("plugin is already registered with the dispatcher")
	}
	p.dispatcher = d
	ctxlog.FromContext(ctx).Debug("Plugin initialized.", "guid", GUID.String())
	return nil
}

// Close removes the lifecycle listener and the EntityComponents package.
func (p *Plugin) Close(ctx context.Context) {
	if p.dispatcher != nil {
		p.dispatcher.RemoveListener(p)
		p.dispatcher = nil
	}
	p.packages.DeregisterPackage(ctx, GUID)
	ctxlog.FromContext(ctx).Debug("Plugin closed.")
}

// OnSystemEvent implements SystemEventListener.
func (p *Plugin) OnSystemEvent(ctx context.Context, event SystemEvent) {
	logger := ctxlog.FromContext(ctx)
	switch event {
	case GamePostInit:
		p.ui.PostInit(ctx)
		if p.cfg.RegisterOnPostInit {
			p.registerEnvLogged(ctx)
		}
	case RegisterEnv:
		p.registerEnvLogged(ctx)
	case ModeSwitchStart:
		p.ui.ModeSwitchStart(ctx)
	case ModeSwitchEnd:
		p.ui.ModeSwitchEnd(ctx)
	default:
		logger.Debug("Ignoring system event.", "event", event)
	}
}

func (p *Plugin) registerEnvLogged(ctx context.Context) {
	if err := p.RegisterEnv(ctx); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to register environment packages.", "error", err)
	}
}

// RegisterEnv publishes the EntityComponents, GameNodes and FlashComponents
// packages. Registering again replaces the previous registration.
func (p *Plugin) RegisterEnv(ctx context.Context) error {
	var errs []error
	errs = append(errs, p.packages.RegisterPackage(ctx, &env.Package{
		GUID:        GUID,
		Name:        EntityComponentsPackage,
		Author:      "arenaplug",
		Description: "Components",
		Register:    p.registerComponents,
	}))
	errs = append(errs, p.packages.RegisterPackage(ctx, &env.Package{
		GUID:        GameNodesGUID,
		Name:        GameNodesPackage,
		Author:      "arenaplug",
		Description: "Game",
		Register:    p.registerGameNodes,
	}))
	errs = append(errs, p.ui.RegisterEnv(ctx))
	return errors.Join(errs...)
}

func (p *Plugin) registerComponents(ctx context.Context, root *env.Scope) {
	for _, c := range Components() {
		scope := root.Register(env.NewComponentDesc(c.GUID, c.Name, c.Label, c.Category, c.Flags))
		if c.Members != nil {
			c.Members(p, scope)
		}
	}
	ctxlog.FromContext(ctx).Debug("Static components registered.", "components", len(root.Children()))
}

// UI returns the FlashComponents module.
func (p *Plugin) UI() *uimodule.Module {
	return p.ui
}

// Events returns the game event directory.
func (p *Plugin) Events() *listener.Directory {
	return p.events
}

// SendEvent broadcasts sig to every interested listener.
func (p *Plugin) SendEvent(ctx context.Context, sig gameevent.Signal) int {
	return p.events.DispatchLogged(ctx, gameevent.NoEntity, sig)
}

// SendEventToEntity delivers sig to the listeners bound to entity, or to
// everyone when entity is NoEntity.
func (p *Plugin) SendEventToEntity(ctx context.Context, entity gameevent.EntityID, sig gameevent.Signal) int {
	return p.events.DispatchLogged(ctx, entity, sig)
}
