// Package ident provides the opaque 128-bit identifiers used for graph nodes.
//
// IDs are random UUIDs: they are never reused within a process, comparable,
// and usable as map keys.
package ident

import (
	"github.com/google/uuid"
)

// ID is an opaque 128-bit node identifier.
type ID struct {
	u uuid.UUID
}

// Zero is the all-zero ID. It never identifies a real node.
var Zero ID

// New returns a fresh random ID.
func New() ID {
	return ID{u: uuid.New()}
}

// Parse reads an ID from its canonical string form.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Zero, err
	}
	return ID{u: u}, nil
}

// String returns the canonical UUID representation.
func (id ID) String() string {
	return id.u.String()
}

// IsZero reports whether the ID is the zero value.
func (id ID) IsZero() bool {
	return id.u == uuid.Nil
}

// Bytes returns the raw 16-byte representation, for hashing.
func (id ID) Bytes() [16]byte {
	return id.u
}
