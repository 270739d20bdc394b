package constraints

import (
	"testing"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubtypeFixture() (*types.Registry, *kinds.System) {
	c := ctx.New()
	return types.NewRegistry(c), kinds.NewSystem(c)
}

// TestSubtypeOfTwoRefinementsEntailsPredicate is the flagship §8
// scenario: a value known to equal 5 satisfies a parameter refined to
// be non-negative, because x=5 entails x>=0 via the built-in
// entailment fragment with no SMT oracle configured.
func TestSubtypeOfTwoRefinementsEntailsPredicate(t *testing.T) {
	reg, ks := newSubtypeFixture()
	intH := reg.Intern(types.Primitive{Kind: types.IntKind})

	arg := reg.Intern(types.Refinement{
		BoundName: "x",
		Base:      intH,
		Predicate: types.PredCompare{Op: types.CmpEq, Left: types.TLVar{Name: "x"}, Right: types.TLLitInt{Value: 5}},
	})
	param := reg.Intern(types.Refinement{
		BoundName: "x",
		Base:      intH,
		Predicate: types.PredCompare{Op: types.CmpGe, Left: types.TLVar{Name: "x"}, Right: types.TLLitInt{Value: 0}},
	})

	_, err := Subtype(reg, ks, nil, Subst{}, arg, param)
	require.NoError(t, err)
}

// TestSubtypeOfTwoRefinementsUnifiesDifferingBoundNames checks the same
// scenario when the two refinements don't happen to share a bound name.
func TestSubtypeOfTwoRefinementsUnifiesDifferingBoundNames(t *testing.T) {
	reg, ks := newSubtypeFixture()
	intH := reg.Intern(types.Primitive{Kind: types.IntKind})

	arg := reg.Intern(types.Refinement{
		BoundName: "x",
		Base:      intH,
		Predicate: types.PredCompare{Op: types.CmpEq, Left: types.TLVar{Name: "x"}, Right: types.TLLitInt{Value: 5}},
	})
	param := reg.Intern(types.Refinement{
		BoundName: "n",
		Base:      intH,
		Predicate: types.PredCompare{Op: types.CmpGe, Left: types.TLVar{Name: "n"}, Right: types.TLLitInt{Value: 0}},
	})

	_, err := Subtype(reg, ks, nil, Subst{}, arg, param)
	require.NoError(t, err)
}

func TestSubtypeOfTwoRefinementsFailsWhenPredicateDoesNotEntail(t *testing.T) {
	reg, ks := newSubtypeFixture()
	intH := reg.Intern(types.Primitive{Kind: types.IntKind})

	arg := reg.Intern(types.Refinement{
		BoundName: "x",
		Base:      intH,
		Predicate: types.PredCompare{Op: types.CmpEq, Left: types.TLVar{Name: "x"}, Right: types.TLLitInt{Value: -1}},
	})
	param := reg.Intern(types.Refinement{
		BoundName: "x",
		Base:      intH,
		Predicate: types.PredCompare{Op: types.CmpGe, Left: types.TLVar{Name: "x"}, Right: types.TLLitInt{Value: 0}},
	})

	_, err := Subtype(reg, ks, nil, Subst{}, arg, param)
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.CS003, rep.Code)
}

func TestSubtypeOfTwoRefinementsRequiresBaseSubtype(t *testing.T) {
	reg, ks := newSubtypeFixture()
	intH := reg.Intern(types.Primitive{Kind: types.IntKind})
	boolH := reg.Intern(types.Primitive{Kind: types.BoolKind})

	arg := reg.Intern(types.Refinement{
		BoundName: "x",
		Base:      intH,
		Predicate: types.PredCompare{Op: types.CmpEq, Left: types.TLVar{Name: "x"}, Right: types.TLLitInt{Value: 5}},
	})
	param := reg.Intern(types.Refinement{
		BoundName: "x",
		Base:      boolH,
		Predicate: types.PredCompare{Op: types.CmpGe, Left: types.TLVar{Name: "x"}, Right: types.TLLitInt{Value: 0}},
	})

	_, err := Subtype(reg, ks, nil, Subst{}, arg, param)
	require.Error(t, err)
}

// TestSubtypeOfRefinementAgainstPlainBaseUsesErasure checks the
// fallback path still works when the right side is not itself a
// refinement: a refinement erases to its base type.
func TestSubtypeOfRefinementAgainstPlainBaseUsesErasure(t *testing.T) {
	reg, ks := newSubtypeFixture()
	intH := reg.Intern(types.Primitive{Kind: types.IntKind})

	arg := reg.Intern(types.Refinement{
		BoundName: "x",
		Base:      intH,
		Predicate: types.PredCompare{Op: types.CmpGe, Left: types.TLVar{Name: "x"}, Right: types.TLLitInt{Value: 0}},
	})

	_, err := Subtype(reg, ks, nil, Subst{}, arg, intH)
	require.NoError(t, err)
}
