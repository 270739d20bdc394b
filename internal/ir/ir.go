// Package ir implements the IR data model and the human-readable SSA
// text writer described in §6: Module/Function/BasicBlock/Instruction,
// an opcode set covering arithmetic/bitwise/memory/control-flow plus
// the vector variants the loop vectorizer introduces, and a String()
// writer (not a parser — the core never re-reads its own IR text).
package ir

import (
	"fmt"
	"strings"
)

// Opcode enumerates the instruction set named in §6, grouped the way
// the spec lists them.
type Opcode int

const (
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpUDiv
	OpURem

	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr

	OpCmp

	OpLoad
	OpStore
	OpGetElementPtr
	OpAlloca
	OpBitcast
	OpPtrToInt
	OpIntToPtr

	OpCall
	OpPhi

	OpRet
	OpBr
	OpCondBr
	OpSwitch

	OpVLoad
	OpVStore
	OpScalarToVector
	OpVBinOp
	OpVUnOp
)

var opcodeNames = map[Opcode]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "sdiv", OpRem: "srem",
	OpUDiv: "udiv", OpURem: "urem",
	OpAnd:  "and", OpOr: "or", OpXor: "xor", OpShl: "shl", OpShr: "shr",
	OpCmp:  "cmp",
	OpLoad: "load", OpStore: "store", OpGetElementPtr: "getelementptr",
	OpAlloca: "alloca", OpBitcast: "bitcast", OpPtrToInt: "ptrtoint", OpIntToPtr: "inttoptr",
	OpCall: "call", OpPhi: "phi",
	OpRet: "ret", OpBr: "br", OpCondBr: "condbr", OpSwitch: "switch",
	OpVLoad: "vload", OpVStore: "vstore", OpScalarToVector: "stov",
	OpVBinOp: "vbinop", OpVUnOp: "vunop",
}

func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}
	return "?op"
}

// IsTerminator reports whether o ends a basic block.
func (o Opcode) IsTerminator() bool {
	switch o {
	case OpRet, OpBr, OpCondBr, OpSwitch:
		return true
	default:
		return false
	}
}

// OperandKind tags what an Operand refers to.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandConstant
	OperandBlockLabel
	OperandFuncRef
)

// Operand is one operand of an Instruction.
type Operand struct {
	Kind  OperandKind
	Text  string // register/block/func name, or the constant's literal text
	Type  string
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandRegister:
		return "%" + o.Text
	case OperandBlockLabel:
		return "label " + o.Text
	case OperandFuncRef:
		return "@" + o.Text
	default:
		return o.Text
	}
}

// Instruction is a single IR instruction. Result is empty for void/
// terminator instructions. Variant qualifies an opcode that covers a
// family of operations rather than one (e.g. OpCmp's "eq"/"slt", or the
// vectorizer's OpVBinOp's "add"/"mul"); it is rendered as "<op>.<variant>"
// to match §6's textual grammar (e.g. "vbinop.add").
type Instruction struct {
	Result   string
	Op       Opcode
	Variant  string
	Operands []Operand
	Type     string
}

func (i Instruction) String() string {
	ops := make([]string, len(i.Operands))
	for idx, o := range i.Operands {
		ops[idx] = o.String()
	}
	opText := i.Op.String()
	if i.Variant != "" {
		opText = opText + "." + i.Variant
	}
	body := fmt.Sprintf("%s %s", opText, strings.Join(ops, ", "))
	if i.Op.IsTerminator() || i.Result == "" {
		return body
	}
	return fmt.Sprintf("%%%s = %s : %s", i.Result, body, i.Type)
}

// BasicBlock is a label plus an ordered instruction list, the last of
// which must be a terminator once the block is finalized.
type BasicBlock struct {
	Label         string
	PredecessorHint []string
	Instructions  []Instruction
}

// Terminator returns the block's terminating instruction, or false if
// the block has not been finalized yet.
func (b *BasicBlock) Terminator() (Instruction, bool) {
	if len(b.Instructions) == 0 {
		return Instruction{}, false
	}
	last := b.Instructions[len(b.Instructions)-1]
	return last, last.Op.IsTerminator()
}

func (b *BasicBlock) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:", b.Label)
	if len(b.PredecessorHint) > 0 {
		fmt.Fprintf(&sb, " ; preds = %s", strings.Join(b.PredecessorHint, ", "))
	}
	sb.WriteByte('\n')
	for _, ins := range b.Instructions {
		fmt.Fprintf(&sb, "  %s\n", ins.String())
	}
	return sb.String()
}

// Param is a function parameter: a type and a register name.
type Param struct {
	Name string
	Type string
}

// Function is a named list of basic blocks forming one SSA function.
type Function struct {
	Name       string
	Params     []Param
	ReturnType string
	Attrs      []string
	Blocks     []*BasicBlock
}

func (f *Function) String() string {
	var sb strings.Builder
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%%%s: %s", p.Name, p.Type)
	}
	attrs := ""
	if len(f.Attrs) > 0 {
		attrs = " " + strings.Join(f.Attrs, " ")
	}
	fmt.Fprintf(&sb, "func @%s(%s) -> %s%s {\n", f.Name, strings.Join(params, ", "), f.ReturnType, attrs)
	for _, b := range f.Blocks {
		sb.WriteString(b.String())
	}
	sb.WriteString("}\n")
	return sb.String()
}

// BlockByLabel finds a block by its label.
func (f *Function) BlockByLabel(label string) (*BasicBlock, bool) {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b, true
		}
	}
	return nil, false
}

// Module is a collection of functions, the unit the Analysis &
// Optimization Manager runs passes over.
type Module struct {
	Name      string
	Functions []*Function
}

func (m *Module) String() string {
	var sb strings.Builder
	for _, f := range m.Functions {
		sb.WriteString(f.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FunctionByName looks up a function by name.
func (m *Module) FunctionByName(name string) (*Function, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
