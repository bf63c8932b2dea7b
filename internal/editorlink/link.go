// Package editorlink connects the plugin to a running editor over socket.io.
//
// The editor reports opened and closed preview instances and asks for UI
// reloads. Socket callbacks run on the client's goroutines, so they only
// queue requests; Run applies them in arrival order on the caller's
// goroutine, which keeps the UI module single-threaded. Preview notifications
// are never dropped. A reload request that arrives while another one is still
// queued is merged into it.
package editorlink

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Events exchanged with the editor.
const (
	EventPreviewOpened = "preview_opened"
	EventPreviewClosed = "preview_closed"
	EventReloadUI      = "reload_ui"
	EventReloadResult  = "reload_result"
)

const defaultConnectTimeout = 15 * time.Second

// Host is what the editor drives.
type Host interface {
	PreviewOpened()
	PreviewClosed(ctx context.Context)
	Reload(ctx context.Context) (bool, error)
}

// Config describes the editor endpoint.
type Config struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// ReloadResult is sent back after every reload request.
type ReloadResult struct {
	Reloaded bool   `json:"reloaded"`
	Error    string `json:"error,omitempty"`
}

// Link relays editor requests to a Host.
type Link struct {
	host   Host
	send   func(event string, payload any)
	io     *socket.Socket
	logger *slog.Logger

	mu           sync.Mutex
	pending      []string
	reloadQueued bool
	wake         chan struct{}
}

// New creates an unconnected link for host.
func New(host Host) *Link {
	return &Link{
		host:   host,
		send:   func(string, any) {},
		logger: slog.Default(),
		wake:   make(chan struct{}, 1),
	}
}

// Connect dials the editor and waits for the namespace connection.
func (l *Link) Connect(ctx context.Context, cfg Config) error {
	logger := ctxlog.FromContext(ctx).With("component", "editorlink", "url", cfg.URL)
	l.logger = logger

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to parse editor URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("editor URL %q must include a scheme and a host", cfg.URL)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("🔌 Connected to editor.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})
	io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Warn("Disconnected from editor.", "reason", reason)
	})
	for _, event := range []string{EventPreviewOpened, EventPreviewClosed, EventReloadUI} {
		io.On(types.EventName(event), func(...any) {
			l.enqueue(event)
		})
	}

	logger.Debug("Connecting to editor.")
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return fmt.Errorf("editor connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return fmt.Errorf("context cancelled while connecting to editor: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return fmt.Errorf("timed out after %v connecting to editor", timeout)
	}

	l.io = io
	l.send = func(event string, payload any) {
		io.Emit(event, payload)
	}
	return nil
}

func (l *Link) enqueue(event string) {
	l.mu.Lock()
	if event == EventReloadUI {
		if l.reloadQueued {
			l.mu.Unlock()
			l.logger.Debug("Reload already queued, merging request.")
			return
		}
		l.reloadQueued = true
	}
	l.pending = append(l.pending, event)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// take removes and returns every queued request.
func (l *Link) take() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := l.pending
	l.pending = nil
	l.reloadQueued = false
	return events
}

// Pending returns the number of queued requests.
func (l *Link) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Run applies queued editor requests until ctx is done. A batch that was
// taken off the queue is always applied in full.
func (l *Link) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
			for _, event := range l.take() {
				l.handle(ctx, event)
			}
		}
	}
}

func (l *Link) handle(ctx context.Context, event string) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Handling editor request.", "event", event)

	switch event {
	case EventPreviewOpened:
		l.host.PreviewOpened()
	case EventPreviewClosed:
		l.host.PreviewClosed(ctx)
	case EventReloadUI:
		reloaded, err := l.host.Reload(ctx)
		res := ReloadResult{Reloaded: reloaded}
		if err != nil {
			logger.Error("UI reload failed.", "error", err)
			res.Error = err.Error()
		}
		l.send(EventReloadResult, res)
	default:
		logger.Warn("Ignoring unknown editor request.", "event", event)
	}
}

// Close disconnects from the editor.
func (l *Link) Close() {
	if l.io == nil {
		return
	}
	l.logger.Info("Disconnecting from editor.", "sid", l.io.Id())
	l.io.Disconnect()
	l.io = nil
}
