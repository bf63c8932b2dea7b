package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/specialistvlad/arenaplug/internal/editorlink"
	"github.com/specialistvlad/arenaplug/internal/env"
	"github.com/specialistvlad/arenaplug/internal/plugin"
	"github.com/specialistvlad/arenaplug/internal/uielement"
)

// App encapsulates the session's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	ctx    context.Context
	logger *slog.Logger
	config *Config

	loader     *uielement.Loader
	registry   *env.Registry
	compiler   *env.Compiler
	dispatcher *plugin.Dispatcher
	plugin     *plugin.Plugin
	link       *editorlink.Link

	status atomic.Pointer[Status]
}

// NewApp builds a fully initialized App with its own logger. It panics when
// the UI manifests cannot be loaded; the entrypoint recovers and reports it.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	loader := uielement.NewLoader(cfg.UIPath)
	if err := loader.Load(ctx); err != nil {
		panic(fmt.Errorf("failed to load UI elements: %w", err))
	}

	registry := env.NewRegistry()
	compiler := env.NewCompiler(registry)
	dispatcher := plugin.NewDispatcher()

	p := plugin.New(plugin.Config{
		Editor:             cfg.Editor,
		Release:            cfg.Release,
		RegisterOnPostInit: cfg.RegisterOnPostInit,
	}, registry, compiler, loader)
	if err := p.Initialize(ctx, dispatcher); err != nil {
		panic(fmt.Errorf("failed to initialize plugin: %w", err))
	}
	logger.Debug("Plugin initialized.", "elements", loader.Count())

	a := &App{
		outW:       outW,
		ctx:        ctx,
		logger:     logger,
		config:     cfg,
		loader:     loader,
		registry:   registry,
		compiler:   compiler,
		dispatcher: dispatcher,
		plugin:     p,
	}
	a.publishStatus()
	return a
}

// Registry returns the environment registry. This is primarily for testing.
func (a *App) Registry() *env.Registry {
	return a.registry
}

// Plugin returns the session's plugin. This is primarily for testing.
func (a *App) Plugin() *plugin.Plugin {
	return a.plugin
}

// Close tears the session down in reverse start-up order.
func (a *App) Close() {
	a.logger.Debug("Closing app.")
	if a.link != nil {
		a.link.Close()
	}
	a.plugin.UI().Shutdown(a.ctx)
	a.plugin.Close(a.ctx)
}
