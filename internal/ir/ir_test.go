package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFunction() *Function {
	entry := &BasicBlock{
		Label: "entry",
		Instructions: []Instruction{
			{Result: "1", Op: OpAdd, Operands: []Operand{
				{Kind: OperandRegister, Text: "a"}, {Kind: OperandRegister, Text: "b"},
			}, Type: "i64"},
			{Op: OpRet, Operands: []Operand{{Kind: OperandRegister, Text: "1"}}},
		},
	}
	return &Function{
		Name:       "add",
		Params:     []Param{{Name: "a", Type: "i64"}, {Name: "b", Type: "i64"}},
		ReturnType: "i64",
		Blocks:     []*BasicBlock{entry},
	}
}

func TestInstructionStringFormatsResultAndType(t *testing.T) {
	ins := Instruction{Result: "1", Op: OpAdd, Operands: []Operand{
		{Kind: OperandRegister, Text: "a"}, {Kind: OperandRegister, Text: "b"},
	}, Type: "i64"}
	assert.Equal(t, "%1 = add %a, %b : i64", ins.String())
}

func TestTerminatorStringHasNoResultOrType(t *testing.T) {
	ins := Instruction{Op: OpRet, Operands: []Operand{{Kind: OperandRegister, Text: "1"}}}
	assert.Equal(t, "ret %1", ins.String())
}

func TestVerifyPassesOnWellFormedFunction(t *testing.T) {
	f := sampleFunction()
	errs := Verify(f)
	assert.Empty(t, errs)
}

func TestVerifyFlagsMissingTerminator(t *testing.T) {
	f := sampleFunction()
	f.Blocks[0].Instructions = f.Blocks[0].Instructions[:1]
	errs := Verify(f)
	require.NotEmpty(t, errs)
}

func TestVerifyFlagsDuplicateSSAName(t *testing.T) {
	f := sampleFunction()
	f.Blocks[0].Instructions = append([]Instruction{
		{Result: "1", Op: OpSub, Operands: []Operand{{Kind: OperandRegister, Text: "a"}, {Kind: OperandRegister, Text: "b"}}, Type: "i64"},
	}, f.Blocks[0].Instructions...)
	errs := Verify(f)
	require.NotEmpty(t, errs)
}

func TestVerifyFlagsUnknownBlockLabel(t *testing.T) {
	f := sampleFunction()
	f.Blocks[0].Instructions[1] = Instruction{Op: OpBr, Operands: []Operand{{Kind: OperandBlockLabel, Text: "nowhere"}}}
	errs := Verify(f)
	require.NotEmpty(t, errs)
}

func TestEmptyFunctionIsAN004(t *testing.T) {
	f := &Function{Name: "empty"}
	err := NewFunctionOrEmptyError(f)
	require.Error(t, err)
}

func TestContentHashIsStableAndSensitiveToChange(t *testing.T) {
	f1 := sampleFunction()
	f2 := sampleFunction()
	assert.Equal(t, f1.ContentHash(), f2.ContentHash())

	f2.Blocks[0].Instructions[0].Op = OpSub
	assert.NotEqual(t, f1.ContentHash(), f2.ContentHash())
}
