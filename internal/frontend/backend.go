package frontend

import "github.com/menchan-Rub/SwiftLight-sub003/internal/ir"

// DataLayout describes the target's scalar/pointer sizing, the one
// piece of target knowledge the core's IR carries without owning a
// machine-code encoder itself (that encoder, and everything past it,
// is the Backend's problem per the Non-goals).
type DataLayout struct {
	PointerBits int
	Endian      string // "little" or "big"
}

// Metadata is everything the Analysis & Optimization Manager (C5)
// attaches to a finalized module for the Backend to act on. The core
// never reads native opcodes or registers back out of a Backend — this
// is a one-way handoff, so Metadata is built entirely from this
// package's own analysis results, keyed by the ir.Function/BasicBlock
// labels the Backend already has from the Module itself.
type Metadata struct {
	Layout DataLayout

	// Vectorized lists, per function name, the header labels of loops
	// internal/vectorize rewrote into a guarded vector loop — the
	// "vectorization marks on basic blocks" the upstream contract
	// names.
	Vectorized map[string][]string

	// InlineHints lists, per function name, the callee names the
	// analysis pass suite judged profitable to inline.
	InlineHints map[string][]string

	// HotBlocks lists, per function name, the block labels HotPath
	// flagged as hot-path candidates (internal/analysis's hotPathPass).
	HotBlocks map[string][]string
}

// Backend is the downstream collaborator that consumes a finalized IR
// module plus its analysis Metadata. It is opaque to the core: no
// native opcode set, register allocator, or linker lives on this side
// of the boundary (machine-code encoding and linking are explicit
// Non-goals) — Emit is the entire surface the core drives it through.
type Backend interface {
	Emit(mod *ir.Module, meta Metadata) error
}
