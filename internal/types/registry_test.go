package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReg() *Registry {
	return NewRegistry(ctx.New())
}

func TestInternIsIdempotent(t *testing.T) {
	r := newReg()
	h1 := r.Intern(Primitive{Kind: IntKind})
	h2 := r.Intern(Primitive{Kind: IntKind})
	assert.Equal(t, h1, h2)

	h3 := r.Intern(Primitive{Kind: BoolKind})
	assert.NotEqual(t, h1, h3)
}

func TestResolveRoundTrip(t *testing.T) {
	r := newReg()
	term := Func{
		Params: []Handle{r.Intern(Primitive{Kind: IntKind})},
		Return: r.Intern(Primitive{Kind: BoolKind}),
	}
	h := r.Intern(term)
	got, err := r.Resolve(h)
	require.NoError(t, err)
	if diff := cmp.Diff(term, got); diff != "" {
		t.Errorf("resolve(intern(t)) != t (-want +got):\n%s", diff)
	}
}

func TestResolveUnknownHandleIsFatal(t *testing.T) {
	r := newReg()
	_, err := r.Resolve(Handle(999))
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, "TR001", rep.Code)
}

func TestIsStructurallyEqualMatchesEqualResolvedTerms(t *testing.T) {
	r := newReg()
	i1 := r.Intern(Primitive{Kind: IntKind})
	i2 := r.Intern(Primitive{Kind: IntKind})
	assert.True(t, r.IsStructurallyEqual(i1, i2))

	b := r.Intern(Primitive{Kind: BoolKind})
	assert.False(t, r.IsStructurallyEqual(i1, b))
}

func TestQuantifierAlphaEquivalence(t *testing.T) {
	r := newReg()
	intH := r.Intern(Primitive{Kind: IntKind})

	predX := Refinement{BoundName: "y", Base: intH, Predicate: PredCompare{Op: CmpGe, Left: TLVar{Name: "y"}, Right: TLVar{Name: "x"}}}
	predZ := Refinement{BoundName: "y", Base: intH, Predicate: PredCompare{Op: CmpGe, Left: TLVar{Name: "y"}, Right: TLVar{Name: "z"}}}

	q1 := Quantifier{BoundName: "x", BoundKind: kinds.StarKind, Body: r.Intern(predX)}
	q2 := Quantifier{BoundName: "z", BoundKind: kinds.StarKind, Body: r.Intern(predZ)}

	h1 := r.Intern(q1)
	h2 := r.Intern(q2)
	assert.True(t, r.IsStructurallyEqual(h1, h2), "forall x. ... and forall z. ... must be alpha-equivalent")
}

func TestSubstituteVariableForItselfIsIdentity(t *testing.T) {
	r := newReg()
	intH := r.Intern(Primitive{Kind: IntKind})
	arr := Array{Element: intH, Length: TLVar{Name: "n"}}
	h := r.Intern(arr)

	out, err := r.Substitute(h, "n", TLVar{Name: "n"})
	require.NoError(t, err)
	assert.Equal(t, h, out)
}

func TestSubstituteReplacesFreeOccurrence(t *testing.T) {
	r := newReg()
	intH := r.Intern(Primitive{Kind: IntKind})
	arr := Array{Element: intH, Length: TLVar{Name: "n"}}
	h := r.Intern(arr)

	out, err := r.Substitute(h, "n", TLLitInt{Value: 8})
	require.NoError(t, err)

	resolved, err := r.Resolve(out)
	require.NoError(t, err)
	gotArr, ok := resolved.(Array)
	require.True(t, ok)
	lit, ok := gotArr.Length.(TLLitInt)
	require.True(t, ok)
	assert.Equal(t, int64(8), lit.Value)
}

func TestSubstituteIsMemoized(t *testing.T) {
	r := newReg()
	intH := r.Intern(Primitive{Kind: IntKind})
	h := r.Intern(Array{Element: intH, Length: TLVar{Name: "n"}})

	out1, err := r.Substitute(h, "n", TLLitInt{Value: 3})
	require.NoError(t, err)
	out2, err := r.Substitute(h, "n", TLLitInt{Value: 3})
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestSubstituteAvoidsCaptureInQuantifier(t *testing.T) {
	r := newReg()
	// forall n:*. Int, substitute y with n: the quantifier's own n must
	// be renamed before substitution so the incoming n isn't captured.
	intH := r.Intern(Primitive{Kind: IntKind})
	q := Quantifier{BoundName: "n", BoundKind: kinds.StarKind, Body: intH}
	h := r.Intern(q)

	out, err := r.Substitute(h, "y", TLVar{Name: "n"})
	require.NoError(t, err)

	resolved, err := r.Resolve(out)
	require.NoError(t, err)
	got, ok := resolved.(Quantifier)
	require.True(t, ok)
	assert.NotEqual(t, "n", got.BoundName, "bound name must be renamed to avoid capturing the substituted n")
}

func TestSubstituteAvoidsCaptureInDependentFunc(t *testing.T) {
	r := newReg()
	intH := r.Intern(Primitive{Kind: IntKind})
	arrH := r.Intern(Array{Element: intH, Length: TLVar{Name: "y"}})
	df := DependentFunc{BoundName: "n", Param: intH, Return: arrH}
	h := r.Intern(df)

	out, err := r.Substitute(h, "y", TLVar{Name: "n"})
	require.NoError(t, err)

	resolved, err := r.Resolve(out)
	require.NoError(t, err)
	got, ok := resolved.(DependentFunc)
	require.True(t, ok)
	assert.NotEqual(t, "n", got.BoundName, "bound name must be renamed to avoid capturing the substituted n")
}

func TestSubstituteAvoidsCaptureInRefinement(t *testing.T) {
	r := newReg()
	intH := r.Intern(Primitive{Kind: IntKind})
	ref := Refinement{
		BoundName: "n",
		Base:      intH,
		Predicate: PredCompare{Op: CmpGe, Left: TLVar{Name: "n"}, Right: TLVar{Name: "y"}},
	}
	h := r.Intern(ref)

	out, err := r.Substitute(h, "y", TLVar{Name: "n"})
	require.NoError(t, err)

	resolved, err := r.Resolve(out)
	require.NoError(t, err)
	got, ok := resolved.(Refinement)
	require.True(t, ok)
	assert.NotEqual(t, "n", got.BoundName, "bound name must be renamed to avoid capturing the substituted n")

	cmp, ok := got.Predicate.(PredCompare)
	require.True(t, ok)
	left, ok := cmp.Left.(TLVar)
	require.True(t, ok)
	assert.Equal(t, got.BoundName, left.Name, "the renamed binder's own references must track the rename")
	right, ok := cmp.Right.(TLVar)
	require.True(t, ok)
	assert.Equal(t, "n", right.Name, "the substituted expression must still appear unrenamed")
}

func TestSubstituteAvoidsCaptureInLambda(t *testing.T) {
	r := newReg()
	// \x. y, substitute y with x inside a context where x is the
	// lambda's own parameter: x must be renamed before substitution so
	// the incoming x isn't captured.
	lam := TLLambda{Param: "x", ParamKind: kinds.StarKind, Body: TLVar{Name: "y"}}
	r2 := newReg()
	out, err := r2.substituteTLExpr(lam, "y", TLVar{Name: "x"})
	require.NoError(t, err)
	l, ok := out.(TLLambda)
	require.True(t, ok)
	assert.NotEqual(t, "x", l.Param, "bound parameter must be renamed to avoid capturing the substituted x")
}

