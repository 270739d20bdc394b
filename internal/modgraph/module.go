// Package modgraph implements the Module & Name Resolver (C4): module
// graph construction, the interface (export surface) built once per
// module and frozen, qualified/unqualified symbol lookup, and
// visibility checking, generalizing the teacher's internal/module
// loader/resolver and internal/iface export-table shape to the
// specification's four-level visibility lattice.
package modgraph

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
)

// Visibility is the four-level export lattice: Public is visible to
// every importer, Protected only to modules in the same package-like
// grouping (here: sharing a path prefix up to the last "/"), Internal
// only within the same module tree, Private only within the declaring
// module itself. Generalizes the teacher's public/private pair
// (iface.go's unconditional AddExport) to the spec's four levels.
type Visibility int

const (
	Private Visibility = iota
	Internal
	Protected
	Public
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Internal:
		return "internal"
	default:
		return "private"
	}
}

// Symbol is one declared name in a module's interface.
type Symbol struct {
	Name       string
	Visibility Visibility
}

// Interface is a module's frozen export surface, built once from its
// declarations and never mutated afterward (§3.2 "built into the
// interface once, and frozen thereafter").
type Interface struct {
	ModuleID string
	Symbols  map[string]Symbol
	frozen   bool
}

// NewInterface creates an empty, unfrozen interface for moduleID.
func NewInterface(moduleID string) *Interface {
	return &Interface{ModuleID: moduleID, Symbols: make(map[string]Symbol)}
}

// Declare adds a symbol to the interface. Declaring the same name twice
// is MR008 (duplicate symbol); declaring after Freeze is a programming
// error in the caller (the loader must declare everything before
// freezing) and panics rather than returning a recoverable error, since
// it can only happen from a bug in this package's own loader, not from
// user input.
func (i *Interface) Declare(name string, vis Visibility) error {
	if i.frozen {
		panic(fmt.Sprintf("modgraph: Declare(%q) called on frozen interface %q", name, i.ModuleID))
	}
	if _, exists := i.Symbols[name]; exists {
		return diag.Wrap(diag.New(diag.MR008, diag.Error, "module-resolver",
			fmt.Sprintf("symbol %q declared twice in module %q", name, i.ModuleID)).
			WithData("module", i.ModuleID).WithData("symbol", name))
	}
	i.Symbols[name] = Symbol{Name: name, Visibility: vis}
	return nil
}

// Freeze finalizes the interface; subsequent Declare calls panic.
func (i *Interface) Freeze() { i.frozen = true }

// Lookup finds a symbol by name, regardless of visibility (visibility
// is checked separately by IsVisible since the caller's importing
// context is required to decide it).
func (i *Interface) Lookup(name string) (Symbol, bool) {
	s, ok := i.Symbols[name]
	return s, ok
}

// Import records one import statement: the imported module and the
// set of names it brings in (empty Names means "import everything
// public").
type Import struct {
	FromModule string
	Names      []string
	Alias      string
}

// Module is a loaded compilation unit: its own interface plus the
// imports it declared. The module graph is the set of Modules plus
// their Imports edges.
type Module struct {
	ID        string
	PathPrefix string // not read by IsVisible, which derives the Protected grouping from the module id
	Iface     *Interface
	Imports   []Import
}
