// Package elementstore keeps the association between derived UI element type
// identifiers and the live element handles the host owns.
//
// # Purpose
//
// The registrar records every element it registers here so that dynamic
// functions (SetVisible, Unload, ...) can resolve their target at call time.
// The store does not own element lifetimes; it is a lookup cache that must be
// reset in lockstep with every reload.
//
// A store created with NewWatched hands each recorded element to a Watcher,
// which the UI module uses to relay element events. Replacing or resetting an
// entry detaches whatever the watcher attached.
//
// # Concurrency Model
//
// Registration and lookup normally happen on the host's logic thread. The
// store is backed by sync.Map so that editor callbacks may read it safely
// from other goroutines.
package elementstore
