// Package typeid derives stable identifiers for dynamically generated script
// types from their names. The same name always yields the same identifier,
// across reloads and across processes.
package typeid

import (
	"github.com/google/uuid"
)

// ElementNamespace seeds identifiers of components generated from UI elements.
var ElementNamespace = uuid.MustParse("F1A5B0E1-3D2C-4C9A-9E77-6A2D1B5C0E10")

// TypeString is the fully qualified type name of the component generated for
// the UI element called name.
func TypeString(name string) string {
	return "FlashUI::" + name
}

// Derive returns the identifier of the component generated for the UI
// element called name (name-based SHA-1 UUID in ElementNamespace).
func Derive(name string) uuid.UUID {
	return uuid.NewSHA1(ElementNamespace, []byte(TypeString(name)))
}

// DeriveMember returns the identifier of a function or signal owned by the
// type identified by owner. Members of different owners never collide even
// when they share a name.
func DeriveMember(owner uuid.UUID, member string) uuid.UUID {
	return uuid.NewSHA1(owner, []byte(member))
}
