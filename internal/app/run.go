package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/specialistvlad/arenaplug/internal/editorlink"
	"github.com/specialistvlad/arenaplug/internal/plugin"
	"golang.org/x/sync/errgroup"
)

// Run drives the plugin through start-up, compiles the environment and
// prints it. With an editor URL it then serves editor requests until ctx is
// done.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.dispatcher.Dispatch(ctx, plugin.RegisterEnv)
	a.dispatcher.Dispatch(ctx, plugin.GamePostInit)

	if _, err := a.compiler.CompileAll(ctx); err != nil {
		return fmt.Errorf("failed to compile environment: %w", err)
	}
	a.publishStatus()

	res := a.plugin.UI().LastResult()
	a.logger.Info("🚀 Environment ready.", "packages", a.registry.Len(),
		"ui_components", len(res.Registered), "skipped", len(res.Skipped), "reload", a.plugin.UI().State())

	if err := a.registry.Dump(a.outW); err != nil {
		return fmt.Errorf("failed to print environment: %w", err)
	}

	if a.config.EditorURL == "" {
		a.logger.Debug("App.Run method finished.")
		return nil
	}

	a.link = editorlink.New(a)
	if err := a.link.Connect(ctx, editorlink.Config{
		URL:       a.config.EditorURL,
		Namespace: a.config.EditorNamespace,
	}); err != nil {
		return fmt.Errorf("failed to connect to editor: %w", err)
	}

	a.logger.Info("👂 Serving editor requests.")
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.link.Run(ctx)
	})
	eg.Go(func() error {
		return a.serveHealthCheck(ctx)
	})
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("editor session failed: %w", err)
	}
	a.logger.Info("🏁 Editor session finished.")
	return nil
}
