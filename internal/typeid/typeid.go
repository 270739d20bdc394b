// Package typeid defines the opaque type-handle value shared by the
// Type Registry (internal/types) and the Kind System (internal/kinds),
// factored into its own tiny package so the two can reference each
// other's indexed concepts (a dependent kind indexed by a type handle;
// a type variable carrying a kind) without an import cycle.
package typeid

import "strconv"

// Handle is an opaque interned handle, stable for the life of a
// compilation unit. Equal handles denote structurally equal types.
type Handle uint64

// Invalid is the zero Handle; it never denotes an interned term.
const Invalid Handle = 0

func (h Handle) String() string {
	if h == Invalid {
		return "<invalid-handle>"
	}
	return "#" + strconv.FormatUint(uint64(h), 10)
}
