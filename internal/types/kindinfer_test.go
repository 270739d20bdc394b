package types

import (
	"testing"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferKindOfPrimitiveIsStar(t *testing.T) {
	r := newReg()
	ks := kinds.NewSystem(ctx.New())
	h := r.Intern(Primitive{Kind: IntKind})

	k, err := InferKind(r, ks, h)
	require.NoError(t, err)
	assert.Equal(t, kinds.StarKind, k)
}

func TestInferKindOfFuncIsStar(t *testing.T) {
	r := newReg()
	ks := kinds.NewSystem(ctx.New())
	intH := r.Intern(Primitive{Kind: IntKind})
	h := r.Intern(Func{Params: []Handle{intH}, Return: intH})

	k, err := InferKind(r, ks, h)
	require.NoError(t, err)
	assert.Equal(t, kinds.StarKind, k)
}

func TestInferKindOfTVarReturnsItsOwnKind(t *testing.T) {
	r := newReg()
	ks := kinds.NewSystem(ctx.New())
	h := r.Intern(TVar{ID: 1, Kind: kinds.EffectKind})

	k, err := InferKind(r, ks, h)
	require.NoError(t, err)
	assert.Equal(t, kinds.EffectKind, k)
}

func TestInferKindOfQuantifierIsBodyKind(t *testing.T) {
	r := newReg()
	ks := kinds.NewSystem(ctx.New())
	intH := r.Intern(Primitive{Kind: IntKind})
	h := r.Intern(Quantifier{BoundName: "a", BoundKind: kinds.StarKind, Body: intH})

	k, err := InferKind(r, ks, h)
	require.NoError(t, err)
	assert.Equal(t, kinds.StarKind, k)
}

func TestInferKindAppliesDeclaredConstructorArity(t *testing.T) {
	r := newReg()
	ks := kinds.NewSystem(ctx.New())
	// List : * -> *
	ks.Declare("List", kinds.Arrow{From: kinds.StarKind, To: kinds.StarKind})
	intH := r.Intern(Primitive{Kind: IntKind})
	h := r.Intern(Named{Name: "List", Args: []Handle{intH}})

	k, err := InferKind(r, ks, h)
	require.NoError(t, err)
	assert.Equal(t, kinds.StarKind, k)
}

func TestInferKindOfUndeclaredGenericConstructorReportsKD005(t *testing.T) {
	r := newReg()
	ks := kinds.NewSystem(ctx.New())
	intH := r.Intern(Primitive{Kind: IntKind})
	h := r.Intern(Named{Name: "Mystery", Args: []Handle{intH}})

	_, err := InferKind(r, ks, h)
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.KD005, rep.Code)
}

func TestInferKindOfBareUndeclaredNameDefaultsToStar(t *testing.T) {
	r := newReg()
	ks := kinds.NewSystem(ctx.New())
	h := r.Intern(Named{Name: "Widget"})

	k, err := InferKind(r, ks, h)
	require.NoError(t, err)
	assert.Equal(t, kinds.StarKind, k)
}

func TestInferKindOfHigherKindedApplicationWalksConstructorTerm(t *testing.T) {
	r := newReg()
	ks := kinds.NewSystem(ctx.New())
	ks.Declare("List", kinds.Arrow{From: kinds.StarKind, To: kinds.StarKind})
	listH := r.Intern(Named{Name: "List"})
	intH := r.Intern(Primitive{Kind: IntKind})
	h := r.Intern(HKApp{Ctor: listH, Args: []Handle{intH}})

	k, err := InferKind(r, ks, h)
	require.NoError(t, err)
	assert.Equal(t, kinds.StarKind, k)
}
