package analysis

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
)

// HashBasis selects which function-level content hash a root analysis
// (one with no declared dependencies) keys its cache entries on.
// Distinguishing "reads every instruction" from "reads only the CFG
// skeleton" is what lets §8 scenario 4's invalidation cascade work:
// inserting a store changes ContentHash but not ControlHash, so
// ControlFlow (and anything depending transitively only on it) survives
// the mutation without recomputing.
type HashBasis int

const (
	HashContent HashBasis = iota
	HashControl
)

// CatalogEntry declares one analysis's dependencies and scheduling
// priority, per §4.5 "Analysis catalog."
type CatalogEntry struct {
	Kind         Kind
	Dependencies []Kind
	Priority     Priority
	// Basis applies only when Dependencies is empty; a dependent kind's
	// cache validity is instead derived from its prerequisites' versions
	// (see cache.go).
	Basis HashBasis
}

// Catalog is the declared analysis dependency graph for a compilation
// unit. Entries are registered once, typically via DefaultCatalog, and
// validated for cycles before any pass runs (AN001 is a configuration
// error, not a runtime one).
type Catalog struct {
	entries map[Kind]CatalogEntry
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[Kind]CatalogEntry)}
}

// Register adds or replaces a catalog entry.
func (c *Catalog) Register(e CatalogEntry) {
	c.entries[e.Kind] = e
}

// Entry looks up a registered kind's declared entry.
func (c *Catalog) Entry(k Kind) (CatalogEntry, bool) {
	e, ok := c.entries[k]
	return e, ok
}

// Kinds returns every registered kind, in no particular order; callers
// needing determinism should sort the result (the scheduler itself does
// not call this: Run walks each kind's declared dependencies directly).
func (c *Catalog) Kinds() []Kind {
	ks := make([]Kind, 0, len(c.entries))
	for k := range c.entries {
		ks = append(ks, k)
	}
	return ks
}

// DefaultCatalog returns the specification's stock analysis catalog:
// every named pass with a dependency set that matches the examples in
// §8 scenario 4 (DataFlow -> Alias -> MemoryDependency, ControlFlow ->
// Reachability independently).
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Register(CatalogEntry{Kind: ControlFlow, Priority: High, Basis: HashControl})
	c.Register(CatalogEntry{Kind: DataFlow, Priority: High, Basis: HashContent})
	c.Register(CatalogEntry{Kind: Alias, Dependencies: []Kind{DataFlow}, Priority: Normal})
	c.Register(CatalogEntry{Kind: MemoryDependency, Dependencies: []Kind{Alias, DataFlow}, Priority: Normal})
	c.Register(CatalogEntry{Kind: SideEffect, Dependencies: []Kind{DataFlow}, Priority: Normal})
	c.Register(CatalogEntry{Kind: Reachability, Dependencies: []Kind{ControlFlow}, Priority: Normal})
	c.Register(CatalogEntry{Kind: Invariant, Dependencies: []Kind{DataFlow, ControlFlow}, Priority: Low})
	c.Register(CatalogEntry{Kind: DeadCode, Dependencies: []Kind{DataFlow, ControlFlow, Reachability}, Priority: Normal})
	c.Register(CatalogEntry{Kind: ConstantPropagation, Dependencies: []Kind{DataFlow}, Priority: Normal})
	c.Register(CatalogEntry{Kind: Loop, Dependencies: []Kind{ControlFlow, Reachability}, Priority: High})
	c.Register(CatalogEntry{Kind: InductionVariable, Dependencies: []Kind{Loop, DataFlow}, Priority: Normal})
	c.Register(CatalogEntry{Kind: RangeAnalysis, Dependencies: []Kind{DataFlow, ConstantPropagation}, Priority: Low})
	c.Register(CatalogEntry{Kind: PointerAnalysis, Dependencies: []Kind{Alias}, Priority: Normal})
	c.Register(CatalogEntry{Kind: EscapeAnalysis, Dependencies: []Kind{PointerAnalysis, DataFlow}, Priority: Low})
	c.Register(CatalogEntry{Kind: TypeAnalysis, Dependencies: []Kind{DataFlow}, Priority: Low})
	c.Register(CatalogEntry{Kind: ConcurrencyAnalysis, Dependencies: []Kind{SideEffect, Alias}, Priority: Low})
	c.Register(CatalogEntry{Kind: MemoryAccessPattern, Dependencies: []Kind{MemoryDependency, Loop}, Priority: Normal})
	c.Register(CatalogEntry{Kind: HotPath, Dependencies: []Kind{ControlFlow}, Priority: Critical})
	return c
}

// OptimizationLevel is the backend-facing knob selecting which
// analyses (and, downstream, which optimizations) run for a
// compilation unit, named per §4.5 "Optimization levels."
type OptimizationLevel int

const (
	LevelNone OptimizationLevel = iota
	LevelLess
	LevelDefault
	LevelAggressive
)

func (l OptimizationLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelLess:
		return "less"
	case LevelDefault:
		return "default"
	case LevelAggressive:
		return "aggressive"
	default:
		return "none"
	}
}

// LevelTable maps an optimization level to the set of analysis kinds
// the manager runs to support it, each level additive over the last,
// exactly as §4.5 enumerates them.
func LevelTable() map[OptimizationLevel][]Kind {
	return map[OptimizationLevel][]Kind{
		LevelNone: {DataFlow, ControlFlow},
		LevelLess: {DataFlow, ControlFlow, Reachability, DeadCode, ConstantPropagation},
		LevelDefault: {
			DataFlow, ControlFlow, Reachability, DeadCode, ConstantPropagation,
			Alias, MemoryDependency, SideEffect, Loop,
		},
		LevelAggressive: {
			DataFlow, ControlFlow, Reachability, DeadCode, ConstantPropagation,
			Alias, MemoryDependency, SideEffect, Loop,
			InductionVariable, RangeAnalysis, PointerAnalysis, EscapeAnalysis,
			TypeAnalysis, HotPath,
		},
	}
}

// DetectCycle validates the catalog's declared dependency graph is
// acyclic, per §4.5 "cycles are a configuration error." Unlike
// modgraph.DetectCycles (which records cycles and keeps going, per the
// specification's relaxed policy for mutually-recursive modules), a
// cycle in the analysis catalog is a hard configuration bug: a pass
// cannot request its own prerequisite's prerequisite, so the first
// cycle found aborts catalog validation rather than being recorded.
func (c *Catalog) DetectCycle() error {
	visited := map[Kind]bool{}
	inPath := map[Kind]bool{}
	var path []Kind

	var dfs func(k Kind) error
	dfs = func(k Kind) error {
		if visited[k] {
			return nil
		}
		if inPath[k] {
			cycle := append(append([]Kind{}, path...), k)
			return diag.Wrap(diag.New(diag.AN001, diag.Fatal, "analysis-manager",
				fmt.Sprintf("analysis dependency cycle: %v", cycle)).WithData("cycle", fmt.Sprint(cycle)))
		}
		entry, ok := c.entries[k]
		if !ok {
			return nil
		}
		inPath[k] = true
		path = append(path, k)
		for _, d := range entry.Dependencies {
			if err := dfs(d); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		inPath[k] = false
		visited[k] = true
		return nil
	}

	for k := range c.entries {
		if err := dfs(k); err != nil {
			return err
		}
	}
	return nil
}
