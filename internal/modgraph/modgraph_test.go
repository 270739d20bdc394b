package modgraph

import (
	"testing"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGraphWithModules(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph(ctx.New())

	mathIface := NewInterface("app/math")
	require.NoError(t, mathIface.Declare("add", Public))
	require.NoError(t, mathIface.Declare("internalHelper", Private))
	mathIface.Freeze()
	require.NoError(t, g.LoadModule(&Module{ID: "app/math", Iface: mathIface}))

	mainIface := NewInterface("app/main")
	mainIface.Freeze()
	require.NoError(t, g.LoadModule(&Module{
		ID:    "app/main",
		Iface: mainIface,
		Imports: []Import{{FromModule: "app/math"}},
	}))
	return g
}

func TestResolveSymbolFindsPublicImport(t *testing.T) {
	g := newGraphWithModules(t)
	mod, sym, err := g.ResolveSymbol("app/main", "add")
	require.NoError(t, err)
	assert.Equal(t, "app/math", mod.ID)
	assert.Equal(t, Public, sym.Visibility)
}

func TestResolveSymbolUndefinedIsMR007(t *testing.T) {
	g := newGraphWithModules(t)
	_, _, err := g.ResolveSymbol("app/main", "doesNotExist")
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.MR007, rep.Code)
}

func TestResolveSymbolPrivateNotVisibleAcrossModules(t *testing.T) {
	g := newGraphWithModules(t)
	_, _, err := g.ResolveSymbol("app/main", "internalHelper")
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.MR006, rep.Code)
}

func TestDuplicateModuleLoadIsMR003(t *testing.T) {
	g := newGraphWithModules(t)
	err := g.LoadModule(&Module{ID: "app/math", Iface: NewInterface("app/math")})
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.MR003, rep.Code)
}

func TestDuplicateSymbolDeclarationIsMR008(t *testing.T) {
	iface := NewInterface("m")
	require.NoError(t, iface.Declare("x", Public))
	err := iface.Declare("x", Public)
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.MR008, rep.Code)
}

func TestDetectCyclesRecordsNonBlockingCycle(t *testing.T) {
	g := NewGraph(ctx.New())
	aIface := NewInterface("a")
	aIface.Freeze()
	bIface := NewInterface("b")
	bIface.Freeze()
	require.NoError(t, g.LoadModule(&Module{ID: "a", Iface: aIface, Imports: []Import{{FromModule: "b"}}}))
	require.NoError(t, g.LoadModule(&Module{ID: "b", Iface: bIface, Imports: []Import{{FromModule: "a"}}}))

	reports := g.DetectCycles()
	require.NotEmpty(t, reports)
	assert.Equal(t, diag.MR002, reports[0].Code)
	// Both modules remain individually resolvable: recording a cycle
	// must not have removed either module from the graph.
	_, err := g.Module("a")
	assert.NoError(t, err)
	_, err = g.Module("b")
	assert.NoError(t, err)
}

func TestIsVisiblePrivateOnlyFromDefiningModule(t *testing.T) {
	assert.True(t, IsVisible("app/math", "app/math", Private))
	assert.False(t, IsVisible("app/math", "app/main", Private))
}

func TestIsVisibleInternalSharesRootSegment(t *testing.T) {
	assert.True(t, IsVisible("app/math", "app/geometry", Internal))
	assert.False(t, IsVisible("app/math", "other/geometry", Internal))
}
