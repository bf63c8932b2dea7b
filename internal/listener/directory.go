// Package listener relays game events to the components that asked for them.
//
// A Directory maps each listener to the set of event kinds it is interested
// in. It owns only the association, never the listener itself. Like the rest
// of the plugin it is driven from the game's single logic thread and performs
// no locking.
package listener

import (
	"context"
	"reflect"

	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/specialistvlad/arenaplug/internal/gameevent"
)

// Listener receives game events. Entity reports the entity the listener is
// attached to, or gameevent.NoEntity when it is not bound to one.
//
// Listeners are keyed by identity, so implementations should be pointers.
// A listener whose dynamic type is not comparable is refused.
type Listener interface {
	Entity() gameevent.EntityID
	OnEvent(sig gameevent.Signal)
}

// Directory associates listeners with the event kinds they subscribed to.
type Directory struct {
	masks map[Listener]gameevent.Mask
	order []Listener
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		masks: make(map[Listener]gameevent.Mask),
	}
}

// Subscribe merges mask into the listener's interest. Kinds already present
// are left as they are. It reports false when nothing was recorded: a nil or
// non-comparable listener, or an empty mask.
func (d *Directory) Subscribe(l Listener, mask gameevent.Mask) bool {
	if !usable(l) || mask.Empty() {
		return false
	}
	current, ok := d.masks[l]
	if !ok {
		d.order = append(d.order, l)
	}
	d.masks[l] = current.Union(mask)
	return true
}

// usable reports whether l can be used as a map key.
func usable(l Listener) bool {
	return l != nil && reflect.TypeOf(l).Comparable()
}

// Unsubscribe removes mask from the listener's interest. A listener left with
// no kinds is dropped from the directory.
func (d *Directory) Unsubscribe(l Listener, mask gameevent.Mask) {
	if !usable(l) {
		return
	}
	current, ok := d.masks[l]
	if !ok {
		return
	}
	remaining := current.Without(mask)
	if !remaining.Empty() {
		d.masks[l] = remaining
		return
	}
	delete(d.masks, l)
	for i, existing := range d.order {
		if existing == l {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Mask returns the listener's current interest.
func (d *Directory) Mask(l Listener) (gameevent.Mask, bool) {
	if !usable(l) {
		return gameevent.Mask{}, false
	}
	m, ok := d.masks[l]
	return m, ok
}

// Len returns the number of subscribed listeners.
func (d *Directory) Len() int {
	return len(d.masks)
}

// Dispatch delivers sig to every listener subscribed to its kind and returns
// the number of deliveries.
func (d *Directory) Dispatch(sig gameevent.Signal) int {
	return d.deliver(sig, func(Listener) bool { return true })
}

// DispatchToEntity delivers sig only to listeners attached to entity.
// gameevent.NoEntity broadcasts like Dispatch.
func (d *Directory) DispatchToEntity(entity gameevent.EntityID, sig gameevent.Signal) int {
	if entity == gameevent.NoEntity {
		return d.Dispatch(sig)
	}
	return d.deliver(sig, func(l Listener) bool { return l.Entity() == entity })
}

// DispatchLogged wraps Dispatch/DispatchToEntity with a debug record.
func (d *Directory) DispatchLogged(ctx context.Context, entity gameevent.EntityID, sig gameevent.Signal) int {
	n := d.DispatchToEntity(entity, sig)
	ctxlog.FromContext(ctx).Debug("Game event dispatched.", "kind", sig.Kind().String(), "entity", uint64(entity), "deliveries", n)
	return n
}

// deliver walks a snapshot of the subscriptions, so handlers that subscribe
// or unsubscribe only affect later dispatches. A listener removed by an
// earlier handler in the same pass is skipped.
func (d *Directory) deliver(sig gameevent.Signal, match func(Listener) bool) int {
	if sig == nil {
		return 0
	}
	kind := sig.Kind()
	targets := make([]Listener, 0, len(d.order))
	for _, l := range d.order {
		if d.masks[l].Has(kind) && match(l) {
			targets = append(targets, l)
		}
	}

	delivered := 0
	for _, l := range targets {
		if _, still := d.masks[l]; !still {
			continue
		}
		l.OnEvent(sig)
		delivered++
	}
	return delivered
}
