package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/arenaplug/internal/ctxlog"
)

// SystemEvent is a lifecycle notification sent by the host.
type SystemEvent int

const (
	GamePostInit SystemEvent = iota
	RegisterEnv
	ModeSwitchStart
	ModeSwitchEnd
)

var systemEventNames = map[SystemEvent]string{
	GamePostInit:    "GamePostInit",
	RegisterEnv:     "RegisterEnv",
	ModeSwitchStart: "ModeSwitchStart",
	ModeSwitchEnd:   "ModeSwitchEnd",
}

func (e SystemEvent) String() string {
	if name, ok := systemEventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("SystemEvent(%d)", int(e))
}

// ParseSystemEvent resolves a system event by name, ignoring case.
func ParseSystemEvent(name string) (SystemEvent, error) {
	for e, n := range systemEventNames {
		if strings.EqualFold(n, name) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown system event %q", name)
}

// SystemEventListener reacts to host lifecycle notifications.
type SystemEventListener interface {
	OnSystemEvent(ctx context.Context, event SystemEvent)
}

type namedListener struct {
	name     string
	listener SystemEventListener
}

// Dispatcher delivers system events to registered listeners in
// registration order.
type Dispatcher struct {
	listeners []namedListener
}

// NewDispatcher creates a dispatcher without listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// RegisterListener adds l under name. It returns false if l is already
// registered.
func (d *Dispatcher) RegisterListener(l SystemEventListener, name string) bool {
	for _, existing := range d.listeners {
		if existing.listener == l {
			return false
		}
	}
	d.listeners = append(d.listeners, namedListener{name: name, listener: l})
	return true
}

// RemoveListener removes l and reports whether it was registered.
func (d *Dispatcher) RemoveListener(l SystemEventListener) bool {
	for i, existing := range d.listeners {
		if existing.listener == l {
			d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	return len(d.listeners)
}

// Dispatch sends event to every listener registered when the call started.
func (d *Dispatcher) Dispatch(ctx context.Context, event SystemEvent) {
	logger := ctxlog.FromContext(ctx)
	snapshot := append([]namedListener(nil), d.listeners...)
	for _, l := range snapshot {
		logger.Debug("Dispatching system event.", "event", event, "listener", l.name)
		l.listener.OnSystemEvent(ctx, event)
	}
}
