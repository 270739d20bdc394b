package analysis

import (
	"testing"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/config"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFunction() *ir.Function {
	return &ir.Function{
		Name:       "sum",
		Params:     []ir.Param{{Name: "a", Type: "i64"}, {Name: "b", Type: "i64"}},
		ReturnType: "i64",
		Blocks: []*ir.BasicBlock{
			{
				Label: "entry",
				Instructions: []ir.Instruction{
					{Result: "1", Op: ir.OpAdd, Operands: []ir.Operand{
						{Kind: ir.OperandRegister, Text: "a"},
						{Kind: ir.OperandRegister, Text: "b"},
					}, Type: "i64"},
					{Op: ir.OpRet, Operands: []ir.Operand{{Kind: ir.OperandRegister, Text: "1"}}},
				},
			},
		},
	}
}

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(ctx.New(), config.Default().Analysis, DefaultCatalog())
	require.NoError(t, err)
	RegisterDefaultPasses(m)
	return m
}

func TestDetectCycleFlagsConfigurationError(t *testing.T) {
	c := NewCatalog()
	c.Register(CatalogEntry{Kind: DataFlow, Dependencies: []Kind{Alias}})
	c.Register(CatalogEntry{Kind: Alias, Dependencies: []Kind{DataFlow}})
	err := c.DetectCycle()
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.AN001, rep.Code)
}

func TestRunDataFlowCountsInstructions(t *testing.T) {
	m := newManager(t)
	fn := sampleFunction()
	r, err := m.Run(DataFlow, fn)
	require.NoError(t, err)
	assert.Equal(t, Completed, r.Stats.State)
	assert.Equal(t, 2, r.Stats.Instructions)
}

func TestRunResolvesDependenciesTransitively(t *testing.T) {
	m := newManager(t)
	fn := sampleFunction()
	r, err := m.Run(MemoryDependency, fn)
	require.NoError(t, err)
	assert.Equal(t, Completed, r.Stats.State)
	// MemoryDependency depends on Alias and DataFlow; both must have run.
	_, ok := m.cache.get(Alias, fn.Name)
	assert.True(t, ok)
	_, ok = m.cache.get(DataFlow, fn.Name)
	assert.True(t, ok)
}

func TestPassRequestingUndeclaredDependencyIsAN005(t *testing.T) {
	m := newManager(t)
	m.RegisterPass(HotPath, func(pc *PassContext, fn *ir.Function) (*Result, error) {
		return nil, firstErr(pc.Result(DataFlow)) // HotPath only declares ControlFlow
	})
	fn := sampleFunction()
	_, err := m.Run(HotPath, fn)
	require.Error(t, err)
	rep, ok := diag.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, diag.AN005, rep.Code)
}

func firstErr(_ *Result, err error) error { return err }

// TestInvalidationCascade mirrors §8 scenario 4: starting from
// DataFlow/Alias/MemoryDependency all Completed, mutating the IR (an
// inserted instruction that leaves the terminator untouched) forces
// DataFlow, Alias, and MemoryDependency to recompute, while Reachability
// (depending only on ControlFlow, whose ControlHash is insensitive to
// the mutation) remains valid.
func TestInvalidationCascade(t *testing.T) {
	m := newManager(t)
	fn := sampleFunction()

	_, err := m.Run(MemoryDependency, fn)
	require.NoError(t, err)
	_, err = m.Run(Reachability, fn)
	require.NoError(t, err)

	dfVersionBefore := m.cache.version(DataFlow, fn.Name)
	aliasVersionBefore := m.cache.version(Alias, fn.Name)
	mdVersionBefore := m.cache.version(MemoryDependency, fn.Name)
	cfVersionBefore := m.cache.version(ControlFlow, fn.Name)
	reachVersionBefore := m.cache.version(Reachability, fn.Name)

	// Insert a new instruction before the terminator; block labels and
	// the terminator text are unchanged, so ControlHash is unaffected.
	entry := fn.Blocks[0]
	mutated := make([]ir.Instruction, 0, len(entry.Instructions)+1)
	mutated = append(mutated, entry.Instructions[:len(entry.Instructions)-1]...)
	mutated = append(mutated, ir.Instruction{
		Result: "2", Op: ir.OpMul,
		Operands: []ir.Operand{
			{Kind: ir.OperandRegister, Text: "1"},
			{Kind: ir.OperandRegister, Text: "1"},
		},
		Type: "i64",
	})
	mutated = append(mutated, entry.Instructions[len(entry.Instructions)-1])
	entry.Instructions = mutated

	_, err = m.Run(MemoryDependency, fn)
	require.NoError(t, err)
	_, err = m.Run(Reachability, fn)
	require.NoError(t, err)

	assert.Greater(t, m.cache.version(DataFlow, fn.Name), dfVersionBefore)
	assert.Greater(t, m.cache.version(Alias, fn.Name), aliasVersionBefore)
	assert.Greater(t, m.cache.version(MemoryDependency, fn.Name), mdVersionBefore)
	assert.Equal(t, cfVersionBefore, m.cache.version(ControlFlow, fn.Name))
	assert.Equal(t, reachVersionBefore, m.cache.version(Reachability, fn.Name))
}

func TestLevelTableIsAdditive(t *testing.T) {
	table := LevelTable()
	assert.Len(t, table[LevelNone], 2)
	assert.Contains(t, table[LevelAggressive], Loop)
	assert.Contains(t, table[LevelAggressive], DataFlow)
}

func TestRunForLevelPopulatesCache(t *testing.T) {
	m := newManager(t)
	fn := sampleFunction()
	results, err := m.RunForLevel(LevelDefault, fn)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	r, ok := m.GetResult(Loop, fn)
	require.True(t, ok)
	assert.Equal(t, Completed, r.Stats.State)
}

func TestGetResultMissesBeforeRun(t *testing.T) {
	m := newManager(t)
	fn := sampleFunction()
	_, ok := m.GetResult(DataFlow, fn)
	assert.False(t, ok)
}
