package constraints

import (
	"testing"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/resource"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSolver() (*Solver, *types.Registry) {
	c := ctx.New()
	reg := types.NewRegistry(c)
	ks := kinds.NewSystem(c)
	res := resource.NewTracker(c)
	return New(c, reg, ks, res, nil, nil), reg
}

func TestSolveEqualityBindsVariable(t *testing.T) {
	s, reg := newSolver()
	intH := reg.Intern(types.Primitive{Kind: types.IntKind})
	v := reg.FreshVariable(kinds.StarKind)

	s.Submit(Constraint{Kind: KindEquality, Left: v, Right: intH})
	errs := s.Solve()
	require.Empty(t, errs)

	resolved, err := Apply(reg, s.Subst, v)
	require.NoError(t, err)
	assert.Equal(t, intH, resolved)
}

func TestSolveEqualityMismatchReportsCS001(t *testing.T) {
	s, reg := newSolver()
	intH := reg.Intern(types.Primitive{Kind: types.IntKind})
	boolH := reg.Intern(types.Primitive{Kind: types.BoolKind})

	s.Submit(Constraint{Kind: KindEquality, Left: intH, Right: boolH})
	errs := s.Solve()
	require.Len(t, errs, 1)
	rep, ok := diag.AsReport(errs[0])
	require.True(t, ok)
	assert.Equal(t, diag.CS001, rep.Code)
}

func TestSolveLinearDoubleUseReportsCS004(t *testing.T) {
	s, reg := newSolver()
	_ = reg
	d := s.res.Allocate(resource.Linear)

	s.Submit(Constraint{Kind: KindLinearUse, ResourceID: d.ID})
	s.Submit(Constraint{Kind: KindLinearUse, ResourceID: d.ID})
	errs := s.Solve()
	require.Len(t, errs, 1)
	rep, ok := diag.AsReport(errs[0])
	require.True(t, ok)
	assert.Equal(t, diag.CS004, rep.Code)
}

func TestSolveQuantumGateArityMismatchReportsCS014(t *testing.T) {
	s, _ := newSolver()
	s.Submit(Constraint{Kind: KindQuantumGate, Qubits: []string{"q0"}, GateSize: 2})
	errs := s.Solve()
	require.Len(t, errs, 1)
	rep, ok := diag.AsReport(errs[0])
	require.True(t, ok)
	assert.Equal(t, diag.CS014, rep.Code)
}

func TestSolveQuantumNoCloningViolationReportsCS015(t *testing.T) {
	s, _ := newSolver()
	s.Submit(Constraint{Kind: KindQuantumGate, Qubits: []string{"q0", "q1"}, GateSize: 2})
	s.Submit(Constraint{Kind: KindQuantumGate, Qubits: []string{"q0", "q2"}, GateSize: 2})
	errs := s.Solve()
	require.Len(t, errs, 1)
	rep, ok := diag.AsReport(errs[0])
	require.True(t, ok)
	assert.Equal(t, diag.CS015, rep.Code)
}

func TestSolveTemporalForbiddenStateReachableReportsCS012(t *testing.T) {
	s, _ := newSolver()
	automaton := &TemporalAutomaton{
		Start: "idle",
		Transitions: map[string][]string{
			"idle":  {"running"},
			"running": {"crashed"},
		},
	}
	s.Submit(Constraint{Kind: KindTemporal, Automaton: automaton, Forbidden: "crashed"})
	errs := s.Solve()
	require.Len(t, errs, 1)
	rep, ok := diag.AsReport(errs[0])
	require.True(t, ok)
	assert.Equal(t, diag.CS012, rep.Code)
}

func TestSolveRefinementBuiltinFragmentDecidesClosedAtoms(t *testing.T) {
	s, _ := newSolver()
	// 2 >= 1 holds, so this refinement is provable by the built-in
	// fragment without any SMT oracle configured.
	s.Submit(Constraint{Kind: KindRefinement, Pred: types.PredCompare{
		Op:    types.CmpGe,
		Left:  types.TLLitInt{Value: 2},
		Right: types.TLLitInt{Value: 1},
	}})
	errs := s.Solve()
	assert.Empty(t, errs)
}

func TestSolveRefinementWithoutOracleReportsCS003WhenUndecidable(t *testing.T) {
	s, _ := newSolver()
	// A free variable makes this undecidable by the closed-literal
	// built-in fragment, and no SMT oracle is configured.
	s.Submit(Constraint{Kind: KindRefinement, Pred: types.PredCompare{
		Op:    types.CmpGe,
		Left:  types.TLVar{Name: "n"},
		Right: types.TLLitInt{Value: 0},
	}})
	errs := s.Solve()
	require.Len(t, errs, 1)
	rep, ok := diag.AsReport(errs[0])
	require.True(t, ok)
	assert.Equal(t, diag.CS003, rep.Code)
}
