// Package analysis implements the Analysis & Optimization Manager (C5):
// the pass catalog and its declared dependency graph, a content-hash-
// keyed result cache with cascading invalidation, and the dependency-
// ordered scheduler every pass runs under. The flagship optimization,
// loop vectorization, lives in the sibling internal/vectorize package
// and consumes this package's Loop/Alias/MemoryDependency results.
package analysis

// Kind enumerates the analysis passes the manager knows how to
// schedule, named per the specification's catalog.
type Kind int

const (
	DataFlow Kind = iota
	ControlFlow
	Alias
	MemoryDependency
	SideEffect
	Reachability
	Invariant
	DeadCode
	ConstantPropagation
	Loop
	InductionVariable
	RangeAnalysis
	PointerAnalysis
	EscapeAnalysis
	TypeAnalysis
	ConcurrencyAnalysis
	MemoryAccessPattern
	HotPath
)

var kindNames = map[Kind]string{
	DataFlow:             "DataFlow",
	ControlFlow:          "ControlFlow",
	Alias:                "Alias",
	MemoryDependency:     "MemoryDependency",
	SideEffect:           "SideEffect",
	Reachability:         "Reachability",
	Invariant:            "Invariant",
	DeadCode:             "DeadCode",
	ConstantPropagation:  "ConstantPropagation",
	Loop:                 "Loop",
	InductionVariable:    "InductionVariable",
	RangeAnalysis:        "RangeAnalysis",
	PointerAnalysis:      "PointerAnalysis",
	EscapeAnalysis:       "EscapeAnalysis",
	TypeAnalysis:         "TypeAnalysis",
	ConcurrencyAnalysis:  "ConcurrencyAnalysis",
	MemoryAccessPattern:  "MemoryAccessPattern",
	HotPath:              "HotPath",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "UnknownAnalysis"
}

// Priority is the scheduling priority declared for a catalog entry.
// The current scheduler runs passes in dependency order regardless of
// priority (a topological order already satisfies every prerequisite);
// priority is recorded for a future priority-aware scheduler and for
// diagnostics ordering, matching how the constraint solver's Kind enum
// also carries more structure than today's dispatcher strictly needs.
type Priority int

const (
	Low Priority = iota
	Normal
	High
	Critical
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Normal:
		return "normal"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "normal"
	}
}
