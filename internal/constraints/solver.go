package constraints

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/config"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/resource"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/smt"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/types"
)

// Solver is the Unified Constraint Solver (C3): a single FIFO worklist
// processed to a fixed point, generalizing funvibe-funxy's
// InferenceContext.SolveConstraints "changed" loop
// (internal/analyzer/inference_solver.go) to dispatch every constraint
// kind the specification's type system needs, sharing one substitution
// and one pass of the hard iteration bound across all of them rather
// than solving each fragment in isolation (§4.3.1).
type Solver struct {
	c      *ctx.CompilationContext
	reg    *types.Registry
	ks     *kinds.System
	res    *resource.Tracker
	oracle *smt.Bridge
	quantum *QuantumRegister

	maxOuterPasses int

	next    ID
	pending []entry
	Subst   Subst
}

// New creates a Solver bound to the given collaborators. oracle may be
// nil: refinement obligations the built-in fragment cannot decide then
// report CS003 instead of querying SMT (§4.3.3 "SMT disabled").
func New(c *ctx.CompilationContext, reg *types.Registry, ks *kinds.System, res *resource.Tracker, oracle *smt.Bridge, cfg *config.Config) *Solver {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Solver{
		c:              c,
		reg:            reg,
		ks:             ks,
		res:            res,
		oracle:         oracle,
		quantum:        NewQuantumRegister(),
		maxOuterPasses: cfg.Solver.MaxOuterPasses,
		Subst:          Subst{},
	}
}

// Submit enqueues a constraint, assigning it the next sequential id.
func (s *Solver) Submit(c Constraint) ID {
	s.next++
	c.ID = s.next
	s.pending = append(s.pending, entry{c: c})
	return c.ID
}

// Solve drains the worklist to a fixed point: each outer pass attempts
// every unsolved constraint in FIFO submission order, and a pass that
// discharges at least one constraint or changes Subst triggers another
// pass so that an equality solved late in a pass can unblock a
// refinement or subtype constraint earlier in the queue. It stops as
// soon as a pass makes no progress, returning every error accumulated
// along the way (a single pass may legitimately fail several
// independent constraints) followed by CS008, since the worklist did not
// drain. Exceeding maxOuterPasses without the worklist draining to empty
// is likewise reported as CS008; both name the oldest still-unsolved
// constraint (§4.3.1 Divergence).
func (s *Solver) Solve() []error {
	var errs []error

	for pass := 0; pass < s.maxOuterPasses; pass++ {
		if s.c != nil && s.c.Cancelled() {
			return append(errs, fmt.Errorf("solving cancelled"))
		}

		progressed := false
		remaining := s.pending[:0]
		passErrs := []error{}

		for _, e := range s.pending {
			if e.solved {
				continue
			}
			ok, err := s.dispatch(e.c)
			if err != nil {
				passErrs = append(passErrs, err)
				e.solved = true
				progressed = true
				continue
			}
			if ok {
				e.solved = true
				progressed = true
				continue
			}
			remaining = append(remaining, e)
		}
		s.pending = remaining
		errs = append(errs, passErrs...)

		if len(s.pending) == 0 {
			return errs
		}
		if !progressed {
			return append(errs, s.divergenceError())
		}
	}
	return append(errs, s.divergenceError())
}

// dispatch attempts to discharge a single constraint. ok=false with a
// nil error would mean the constraint is not yet ready and should be
// retried next pass; every branch here currently decides its constraint
// in one shot and returns ok=true, with or without an error.
func (s *Solver) dispatch(c Constraint) (ok bool, err error) {
	switch c.Kind {
	case KindEquality:
		next, err := Unify(s.reg, s.ks, s.Subst, c.Left, c.Right)
		if err != nil {
			return true, err
		}
		s.Subst = next
		return true, nil
	case KindSubtype:
		next, err := Subtype(s.reg, s.ks, s.oracle, s.Subst, c.Left, c.Right)
		if err != nil {
			return true, err
		}
		s.Subst = next
		return true, nil
	case KindRefinement:
		env := types.TLEnv{}
		if err := Entail(s.reg, s.oracle, env, types.PredBool{Value: true}, c.Pred); err != nil {
			return true, err
		}
		return true, nil
	case KindLinearUse, KindLinearBorrow, KindLinearJoin:
		if s.res == nil {
			return true, fmt.Errorf("linear constraint submitted without a resource tracker")
		}
		if err := checkLinear(s.res, c); err != nil {
			return true, err
		}
		return true, nil
	case KindTemporal:
		if err := checkTemporal(c); err != nil {
			return true, err
		}
		return true, nil
	case KindQuantumGate, KindQuantumNoClone:
		if err := checkQuantum(s.quantum, c); err != nil {
			return true, err
		}
		return true, nil
	default:
		return true, fmt.Errorf("unrecognized constraint kind %v", c.Kind)
	}
}

// divergenceError names the oldest constraint still in the worklist
// when the solver gives up, per CS008's contract.
func (s *Solver) divergenceError() error {
	oldest := s.pending[0].c
	for _, e := range s.pending[1:] {
		if e.c.ID < oldest.ID {
			oldest = e.c
		}
	}
	return diag.Wrap(diag.New(diag.CS008, diag.Fatal, "constraint-solver",
		fmt.Sprintf("constraint solver exceeded %d passes without converging; oldest unresolved constraint is #%d (%s)",
			s.maxOuterPasses, oldest.ID, oldest.Kind)).
		WithData("constraint_id", uint64(oldest.ID)).
		WithData("constraint_kind", oldest.Kind.String()))
}
