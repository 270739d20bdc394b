package kinds

import (
	"testing"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyGroundKinds(t *testing.T) {
	s := NewSystem(ctx.New())
	require.NoError(t, s.Unify(StarKind, StarKind))
	assert.Error(t, s.Unify(StarKind, EffectKind))
}

func TestUnifyVariableBinds(t *testing.T) {
	s := NewSystem(ctx.New())
	v := s.Fresh()
	require.NoError(t, s.Unify(v, StarKind))
	assert.True(t, s.Apply(v).Equals(StarKind))
}

func TestUnifyOccursCheck(t *testing.T) {
	s := NewSystem(ctx.New())
	v := s.Fresh()
	err := s.Unify(v, Arrow{From: v, To: StarKind})
	assert.Error(t, err)
}

func TestUnifyArrowPairwise(t *testing.T) {
	s := NewSystem(ctx.New())
	a1, a2 := s.Fresh(), s.Fresh()
	err := s.Unify(Arrow{From: a1, To: StarKind}, Arrow{From: StarKind, To: a2})
	require.NoError(t, err)
	assert.True(t, s.Apply(a1).Equals(StarKind))
	assert.True(t, s.Apply(a2).Equals(StarKind))
}

func TestUnifyDependentRequiresEqualIndex(t *testing.T) {
	s := NewSystem(ctx.New())
	require.NoError(t, s.Unify(Dependent{Index: 1}, Dependent{Index: 1}))
	assert.Error(t, s.Unify(Dependent{Index: 1}, Dependent{Index: 2}))
}

func TestApplyConstructorArityMismatch(t *testing.T) {
	s := NewSystem(ctx.New())
	functorKind := Arrow{From: StarKind, To: StarKind}
	_, err := s.ApplyConstructor(functorKind, []Kind{StarKind, StarKind})
	assert.Error(t, err)

	_, err = s.ApplyConstructor(functorKind, nil)
	assert.Error(t, err)

	result, err := s.ApplyConstructor(functorKind, []Kind{StarKind})
	require.NoError(t, err)
	assert.True(t, result.Equals(StarKind))
}

func TestSubkindArrowVariance(t *testing.T) {
	s := NewSystem(ctx.New())
	// (Star -> Star) <: (Star -> Star) trivially.
	assert.True(t, s.Subkind(Arrow{From: StarKind, To: StarKind}, Arrow{From: StarKind, To: StarKind}))
	// Dependent kinds are invariant: different indices never subkind.
	assert.False(t, s.Subkind(Dependent{Index: 1}, Dependent{Index: 2}))
}
