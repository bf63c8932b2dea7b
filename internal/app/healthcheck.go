package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/arenaplug/internal/ctxlog"
)

// Status is the session summary served by the health check endpoint.
type Status struct {
	Reload           string `json:"reload"`
	PreviewInstances int    `json:"preview_instances"`
	Elements         int    `json:"elements"`
	Generation       int    `json:"generation"`
}

// publishStatus snapshots the session state. Handlers run on server
// goroutines and only ever read the snapshot.
func (a *App) publishStatus() {
	ui := a.plugin.UI()
	a.status.Store(&Status{
		Reload:           ui.State().String(),
		PreviewInstances: ui.PreviewInstances(),
		Elements:         ui.Elements().Len(),
		Generation:       a.compiler.Generation(),
	})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(a.status.Load()); err != nil {
		logger.Error("Failed to write health check response.", "error", err)
	}
}

// serveHealthCheck serves the health check endpoint until ctx is done. It
// returns immediately when no port is configured.
func (a *App) serveHealthCheck(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if a.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)

	addr := fmt.Sprintf(":%d", a.config.HealthcheckPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("health check server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down health check server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	return nil
}
