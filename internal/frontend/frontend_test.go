package frontend

import (
	"context"
	"fmt"
	"testing"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleSpanReachesEveryItem(t *testing.T) {
	pos := Span{Start: Position{File: "a.sl", Line: 1, Column: 1}, End: Position{File: "a.sl", Line: 1, Column: 10}}
	fn := &FuncItem{Name: "main", Pos: pos}
	mod := &Module{ModulePath: "app/main", SourceFile: "a.sl", Items: []Item{fn}, Pos: pos}

	assert.Equal(t, pos, mod.Span())
	assert.Equal(t, pos, mod.Items[0].Span())
	assert.Equal(t, "main", mod.Items[0].(*FuncItem).Name)
}

func TestExprAndTypeExprVariantsSatisfyTheirInterfaces(t *testing.T) {
	var _ Expr = (*Ident)(nil)
	var _ Expr = (*Literal)(nil)
	var _ Expr = (*Call)(nil)
	var _ Expr = (*BinaryExpr)(nil)
	var _ Expr = (*UnaryExpr)(nil)
	var _ Expr = (*LetExpr)(nil)
	var _ Expr = (*IfExpr)(nil)
	var _ Expr = (*LambdaExpr)(nil)
	var _ Expr = (*BlockExpr)(nil)

	var _ TypeExpr = (*NamedTypeExpr)(nil)
	var _ TypeExpr = (*FuncTypeExpr)(nil)
	var _ TypeExpr = (*TupleTypeExpr)(nil)
	var _ TypeExpr = (*VarTypeExpr)(nil)

	var _ Pattern = (*NamePattern)(nil)
	var _ Pattern = (*WildcardPattern)(nil)
	var _ Pattern = (*LiteralPattern)(nil)
	var _ Pattern = (*ConstructorPattern)(nil)

	var _ Item = (*FuncItem)(nil)
	var _ Item = (*TypeItem)(nil)
	var _ Item = (*ConstItem)(nil)
	var _ Item = (*ModuleItem)(nil)
}

func TestPositionStringIncludesFileLineColumn(t *testing.T) {
	p := Position{File: "a.sl", Line: 3, Column: 7}
	assert.Equal(t, "a.sl:3:7", p.String())
}

// fakeLoader is a minimal in-memory FileLoader standing in for a real
// filesystem-backed implementation, used only to confirm the interface
// shape is satisfiable with the signatures a real loader would need.
type fakeLoader struct {
	files   map[string]string
	modules map[string][]string
}

func (f *fakeLoader) ReadFile(path string) (string, error) {
	src, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("no such file: %s", path)
	}
	return src, nil
}

func (f *fakeLoader) ListModules(dir string) ([]string, error) {
	return f.modules[dir], nil
}

func (f *fakeLoader) ResolveModulePath(moduleID, base string) (string, error) {
	if base != "" {
		return base + "/" + moduleID + ".sl", nil
	}
	return moduleID + ".sl", nil
}

func TestFileLoaderInterfaceIsSatisfiableByAMinimalImplementation(t *testing.T) {
	var loader FileLoader = &fakeLoader{
		files:   map[string]string{"app/main.sl": "module app/main"},
		modules: map[string][]string{"app": {"app/main"}},
	}

	src, err := loader.ReadFile("app/main.sl")
	require.NoError(t, err)
	assert.Equal(t, "module app/main", src)

	mods, err := loader.ListModules("app")
	require.NoError(t, err)
	assert.Equal(t, []string{"app/main"}, mods)

	path, err := loader.ResolveModulePath("std/list", "app")
	require.NoError(t, err)
	assert.Equal(t, "app/std/list.sl", path)
}

// fakeParser and fakeBackend likewise confirm the Parser/Backend
// interfaces are satisfiable by the kind of adapter an embedder would
// wire in, without this package implementing any lexing, parsing, or
// code generation itself.
type fakeParser struct{}

func (fakeParser) Parse(_ context.Context, moduleID, sourceFile, _ string) (*Module, error) {
	return &Module{ModulePath: moduleID, SourceFile: sourceFile}, nil
}

func TestParserInterfaceIsSatisfiableByAMinimalImplementation(t *testing.T) {
	var p Parser = fakeParser{}
	mod, err := p.Parse(context.Background(), "app/main", "app/main.sl", "")
	require.NoError(t, err)
	assert.Equal(t, "app/main", mod.ModulePath)
}

type fakeBackend struct {
	lastMeta Metadata
}

func (b *fakeBackend) Emit(_ *ir.Module, meta Metadata) error {
	b.lastMeta = meta
	return nil
}

func TestBackendInterfaceReceivesVectorizationMetadata(t *testing.T) {
	b := &fakeBackend{}
	var backend Backend = b

	meta := Metadata{
		Layout:      DataLayout{PointerBits: 64, Endian: "little"},
		Vectorized:  map[string][]string{"sum_array": {"loop.header"}},
		InlineHints: map[string][]string{"sum_array": {"helper"}},
		HotBlocks:   map[string][]string{"sum_array": {"loop.header"}},
	}
	require.NoError(t, backend.Emit(&ir.Module{Name: "app"}, meta))
	assert.Equal(t, []string{"loop.header"}, b.lastMeta.Vectorized["sum_array"])
	assert.Equal(t, 64, b.lastMeta.Layout.PointerBits)
}
