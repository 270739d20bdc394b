package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns a stable content hash of a function's IR text,
// the cache key the Analysis & Optimization Manager keys its results
// on (§4.4/§8: "the content hash of M matches the hash recorded when A
// last ran"). Grounded on the pack's own convention of sha256-over-
// serialized-content cache keys (ailang's internal/manifest.go,
// funxy's internal/ext/cache.go).
func (f *Function) ContentHash() string {
	sum := sha256.Sum256([]byte(f.String()))
	return hex.EncodeToString(sum[:])
}

// ContentHash returns a stable content hash over every function in the
// module, in declaration order.
func (m *Module) ContentHash() string {
	h := sha256.New()
	for _, f := range m.Functions {
		h.Write([]byte(f.ContentHash()))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ControlHash returns a content hash over only a function's control-flow
// skeleton: block labels, predecessor hints, and each block's terminator
// instruction (the only instruction that affects control flow). Two
// functions with identical ControlHash have the same CFG shape even if
// their non-terminator instructions differ, which lets control-flow-only
// analyses (ControlFlow, Reachability, Loop) skip recomputation when an
// edit changes data instructions but not block structure.
func (f *Function) ControlHash() string {
	h := sha256.New()
	for _, b := range f.Blocks {
		h.Write([]byte(b.Label))
		h.Write([]byte{0})
		for _, p := range b.PredecessorHint {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
		if term, ok := b.Terminator(); ok {
			h.Write([]byte(term.String()))
		}
		h.Write([]byte{0xff})
	}
	return hex.EncodeToString(h.Sum(nil))
}
