// Package constraints implements the Unified Constraint Solver (C3):
// a single worklist-driven fixed-point loop dispatching equality,
// subtype, refinement, linear-resource, temporal, and quantum
// constraints to their respective checkers, mirroring the shape of
// funvibe-funxy's InferenceContext.SolveConstraints worklist but
// generalized to the constraint kinds this language's type system
// requires (§4.3).
package constraints

import (
	"github.com/menchan-Rub/SwiftLight-sub003/internal/resource"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/types"
)

// ID identifies a constraint within a single solving session, assigned
// in submission order so the solver can name "the oldest unresolved
// constraint" on divergence.
type ID uint64

// Kind tags which checker owns a constraint.
type Kind int

const (
	KindEquality Kind = iota
	KindSubtype
	KindRefinement
	KindLinearUse
	KindLinearBorrow
	KindLinearJoin
	KindTemporal
	KindQuantumGate
	KindQuantumNoClone
)

func (k Kind) String() string {
	switch k {
	case KindEquality:
		return "equality"
	case KindSubtype:
		return "subtype"
	case KindRefinement:
		return "refinement"
	case KindLinearUse:
		return "linear-use"
	case KindLinearBorrow:
		return "linear-borrow"
	case KindLinearJoin:
		return "linear-join"
	case KindTemporal:
		return "temporal"
	case KindQuantumGate:
		return "quantum-gate"
	case KindQuantumNoClone:
		return "quantum-no-clone"
	default:
		return "unknown"
	}
}

// Constraint is a single unit of work submitted to the Solver.
type Constraint struct {
	ID   ID
	Kind Kind

	// Equality / Subtype
	Left, Right types.Handle

	// Refinement
	Base types.Handle
	Pred types.Predicate

	// LinearUse / LinearBorrow
	ResourceID string
	Borrow     resource.BorrowKind

	// LinearJoin
	JoinStates []resource.State

	// Temporal
	Automaton    *TemporalAutomaton
	Forbidden    string
	Invariant    func(state string) bool

	// QuantumGate / QuantumNoClone
	Qubits   []string
	GateSize int
}

// entry pairs a submitted constraint with whether the worklist loop has
// discharged it; an entry a pass leaves unsolved stays in the worklist
// and is attempted again on the next pass.
type entry struct {
	c      Constraint
	solved bool
}
