package resource

import (
	"testing"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker() *Tracker {
	return NewTracker(ctx.New())
}

func TestUseTransitionsToMoved(t *testing.T) {
	tr := newTracker()
	tr.PushScope()
	d := tr.Allocate(Linear)
	require.NoError(t, tr.Use(d.ID))
	got, _ := tr.Get(d.ID)
	assert.Equal(t, Moved, got.State)
}

func TestDoubleUseIsCS004(t *testing.T) {
	tr := newTracker()
	tr.PushScope()
	d := tr.Allocate(Linear)
	require.NoError(t, tr.Use(d.ID))
	err := tr.Use(d.ID)
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.CS004, rep.Code)
}

func TestLinearNotConsumedAtScopeExitIsCS005(t *testing.T) {
	tr := newTracker()
	tr.PushScope()
	tr.Allocate(Linear)
	errs := tr.PopScope()
	require.Len(t, errs, 1)
	rep, ok := diag.AsReport(errs[0])
	require.True(t, ok)
	assert.Equal(t, diag.CS005, rep.Code)
}

func TestAffineMayBeUnusedAtScopeExit(t *testing.T) {
	tr := newTracker()
	tr.PushScope()
	tr.Allocate(Affine)
	errs := tr.PopScope()
	assert.Empty(t, errs)
}

func TestExclusiveBorrowConflictsWithSecondBorrow(t *testing.T) {
	tr := newTracker()
	tr.PushScope()
	owner := tr.Allocate(Linear)
	_, err := tr.Borrow(owner.ID, Exclusive)
	require.NoError(t, err)
	_, err = tr.Borrow(owner.ID, Shared)
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.CS006, rep.Code)
}

func TestSharedBorrowsCanCoexist(t *testing.T) {
	tr := newTracker()
	tr.PushScope()
	owner := tr.Allocate(Linear)
	_, err := tr.Borrow(owner.ID, Shared)
	require.NoError(t, err)
	_, err = tr.Borrow(owner.ID, Shared)
	require.NoError(t, err)
}

func TestJoinStatesRequiresAgreement(t *testing.T) {
	_, err := JoinStates([]State{Moved, Moved})
	require.NoError(t, err)

	_, err = JoinStates([]State{Moved, Unused})
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.CS007, rep.Code)
}
