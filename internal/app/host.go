package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/arenaplug/internal/ctxlog"
)

// PreviewOpened implements editorlink.Host.
func (a *App) PreviewOpened() {
	a.plugin.UI().PreviewOpened()
	a.publishStatus()
}

// PreviewClosed implements editorlink.Host.
func (a *App) PreviewClosed(ctx context.Context) {
	a.plugin.UI().PreviewClosed(ctx)
	a.publishStatus()
}

// Reload re-reads the UI manifests and rebuilds the FlashComponents package.
// When the module refuses the reload the manifests are not touched. A
// manifest error keeps the previous elements and registrations.
func (a *App) Reload(ctx context.Context) (bool, error) {
	ui := a.plugin.UI()
	if !ui.AllowReload(ctx) {
		return false, nil
	}
	if err := a.loader.Load(ctx); err != nil {
		ctxlog.FromContext(ctx).Error("UI manifests could not be reloaded, keeping previous elements.", "error", err)
		return false, fmt.Errorf("failed to reload UI elements: %w", err)
	}
	reloaded, err := ui.Reload(ctx)
	a.publishStatus()
	return reloaded, err
}
