package vectorize

import "github.com/menchan-Rub/SwiftLight-sub003/internal/ir"

// SequenceRun is a maximal run of consecutive element-wise instructions
// inside one block of a Candidate's body, all operating on values of
// the candidate's element type — the unit phase 3 ("Sequence
// identification", §4.5) hands to width selection and transform.
type SequenceRun struct {
	Block        string
	Instructions []ir.Instruction
}

// elementwiseTypeOf returns the type an instruction operates on, for
// the opcodes the vectorizer knows how to widen.
func elementwiseTypeOf(inst ir.Instruction) (string, bool) {
	switch inst.Op {
	case ir.OpLoad:
		return inst.Type, true
	case ir.OpStore:
		if len(inst.Operands) > 0 {
			return inst.Operands[0].Type, true
		}
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpRem, ir.OpUDiv, ir.OpURem,
		ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpShl, ir.OpShr:
		return inst.Type, true
	}
	return "", false
}

// IdentifySequences scans a candidate's body blocks for maximal runs of
// consecutive instructions operating on the candidate's element type,
// dropping any run shorter than minLen (§4.5 phase 3; minLen comes from
// VectorizerConfig.MinSequenceLength — a loop whose element-wise body is
// too short to amortize the guard/epilogue overhead is left scalar).
func IdentifySequences(c Candidate, fn *ir.Function, minLen int) []SequenceRun {
	var runs []SequenceRun
	for _, label := range c.Body {
		blk, ok := fn.BlockByLabel(label)
		if !ok {
			continue
		}
		var cur []ir.Instruction
		flush := func() {
			if len(cur) >= minLen {
				runs = append(runs, SequenceRun{Block: label, Instructions: cur})
			}
			cur = nil
		}
		for _, inst := range blk.Instructions {
			t, ok := elementwiseTypeOf(inst)
			if ok && t == c.ElementType {
				cur = append(cur, inst)
				continue
			}
			flush()
		}
		flush()
	}
	return runs
}
