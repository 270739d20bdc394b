package vectorize

import (
	"fmt"
	"strconv"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ir"
)

// Transform runs phases 5 and 6 (§4.5 "Transform" and "SSA fix-up") for
// one candidate: it splits the loop into a guard, a vector loop
// processing lanes elements per iteration, a horizontal reduce, and a
// scalar epilogue (the renamed original loop) that mops up the
// remainder and handles the case where the trip count never reaches
// one full vector width. It returns nil, nil (no error, no effect) for
// any loop shape it does not recognize rather than guessing — reduction
// loops (Candidate.Accumulator != "") are the only shape this phase
// currently lowers, per the vectorizer's own scope decision (DESIGN.md).
func Transform(fn *ir.Function, c Candidate, lanes int) (map[string][]string, error) {
	if c.Accumulator == "" {
		return nil, nil
	}

	headerBlock, ok := fn.BlockByLabel(c.Header)
	if !ok {
		return nil, nil
	}
	bodySet := make(map[string]bool, len(c.Body))
	for _, l := range c.Body {
		bodySet[l] = true
	}

	var preheaders []*ir.BasicBlock
	for _, b := range fn.Blocks {
		if bodySet[b.Label] {
			continue
		}
		term, ok := b.Terminator()
		if !ok {
			continue
		}
		for _, op := range term.Operands {
			if op.Kind == ir.OperandBlockLabel && op.Text == c.Header {
				preheaders = append(preheaders, b)
			}
		}
	}
	if len(preheaders) != 1 {
		return nil, nil
	}
	preheader := preheaders[0]

	origPreds := append([]string(nil), headerBlock.PredecessorHint...)
	preIdx := -1
	for i, p := range origPreds {
		if p == preheader.Label {
			preIdx = i
			break
		}
	}
	if preIdx == -1 {
		return nil, nil
	}

	var indPhi, accPhi *ir.Instruction
	for i := range headerBlock.Instructions {
		inst := &headerBlock.Instructions[i]
		if inst.Op != ir.OpPhi {
			continue
		}
		switch inst.Result {
		case c.Induction:
			indPhi = inst
		case c.Accumulator:
			accPhi = inst
		}
	}
	if indPhi == nil || accPhi == nil || preIdx >= len(accPhi.Operands) {
		return nil, nil
	}
	accInitOperand := accPhi.Operands[preIdx]

	scalarHeaderLabel := c.Header + ".scalar"
	relabel := map[string]string{c.Header: scalarHeaderLabel}
	for _, l := range c.Body {
		if l == c.Header {
			continue
		}
		relabel[l] = l + ".scalar"
	}

	guardLabel := c.Header + ".guard"
	vecHeaderLabel := c.Header + ".vec.header"
	vecBodyLabel := c.Header + ".vec.body"
	vecReduceLabel := c.Header + ".vec.reduce"

	// Redirect every block-label operand that targets the old loop:
	// external predecessors of the header now target the guard, and
	// internal edges (including the back edge) move to the renamed
	// scalar blocks. Header's own PredecessorHint is rebuilt separately
	// below since a single preheader edge becomes two.
	for _, b := range fn.Blocks {
		isBody := bodySet[b.Label]
		for i := range b.Instructions {
			inst := &b.Instructions[i]
			for j := range inst.Operands {
				op := &inst.Operands[j]
				if op.Kind != ir.OperandBlockLabel {
					continue
				}
				if op.Text == c.Header && !isBody {
					op.Text = guardLabel
					continue
				}
				if nl, ok := relabel[op.Text]; ok {
					op.Text = nl
				}
			}
		}
	}
	for _, b := range fn.Blocks {
		if b == headerBlock {
			continue
		}
		for i, p := range b.PredecessorHint {
			if nl, ok := relabel[p]; ok {
				b.PredecessorHint[i] = nl
			}
		}
	}
	for _, l := range c.Body {
		blk, ok := fn.BlockByLabel(l)
		if !ok {
			continue
		}
		blk.Label = relabel[l]
	}

	vecIdxReg := c.Header + ".vec.idx"
	vecIdxNextReg := c.Header + ".vec.idx.next"
	vecAccInitReg := c.Header + ".vec.acc.init"
	vecAccReg := c.Header + ".vec.acc"
	vecAccNextReg := c.Header + ".vec.acc.next"
	vecLoadReg := c.Header + ".vec.load"
	vecCmpReg := c.Header + ".guard.cmp"
	vecCondReg := c.Header + ".vec.cond"
	vecBoundReg := c.Header + ".vec.bound"
	vecAccScalarReg := c.Header + ".vec.acc.scalar"
	vecRemainingReg := c.Header + ".vec.remaining"
	vecType := fmt.Sprintf("v%d%s", lanes, c.ElementType)
	laneConst := ir.Operand{Kind: ir.OperandConstant, Text: strconv.Itoa(lanes), Type: "i64"}

	guardBlock := &ir.BasicBlock{
		Label:           guardLabel,
		PredecessorHint: []string{preheader.Label},
		Instructions: []ir.Instruction{
			{Result: vecAccInitReg, Op: ir.OpScalarToVector, Operands: []ir.Operand{accInitOperand}, Type: vecType},
			{Result: vecCmpReg, Op: ir.OpCmp, Variant: "sge", Operands: []ir.Operand{c.TripCount, laneConst}, Type: "i1"},
			{Op: ir.OpCondBr, Operands: []ir.Operand{
				{Kind: ir.OperandRegister, Text: vecCmpReg},
				{Kind: ir.OperandBlockLabel, Text: vecHeaderLabel},
				{Kind: ir.OperandBlockLabel, Text: scalarHeaderLabel},
			}},
		},
	}

	vecHeaderBlock := &ir.BasicBlock{
		Label:           vecHeaderLabel,
		PredecessorHint: []string{guardLabel, vecBodyLabel},
		Instructions: []ir.Instruction{
			{Result: vecIdxReg, Op: ir.OpPhi, Type: "i64", Operands: []ir.Operand{
				{Kind: ir.OperandConstant, Text: "0", Type: "i64"},
				{Kind: ir.OperandRegister, Text: vecIdxNextReg, Type: "i64"},
			}},
			{Result: vecAccReg, Op: ir.OpPhi, Type: vecType, Operands: []ir.Operand{
				{Kind: ir.OperandRegister, Text: vecAccInitReg, Type: vecType},
				{Kind: ir.OperandRegister, Text: vecAccNextReg, Type: vecType},
			}},
			{Result: vecBoundReg, Op: ir.OpAdd, Type: "i64", Operands: []ir.Operand{
				{Kind: ir.OperandRegister, Text: vecIdxReg, Type: "i64"}, laneConst,
			}},
			{Result: vecCondReg, Op: ir.OpCmp, Variant: "sle", Type: "i1", Operands: []ir.Operand{
				{Kind: ir.OperandRegister, Text: vecBoundReg, Type: "i64"}, c.TripCount,
			}},
			{Op: ir.OpCondBr, Operands: []ir.Operand{
				{Kind: ir.OperandRegister, Text: vecCondReg},
				{Kind: ir.OperandBlockLabel, Text: vecBodyLabel},
				{Kind: ir.OperandBlockLabel, Text: vecReduceLabel},
			}},
		},
	}

	vecBodyInsts := []ir.Instruction{
		{Result: vecLoadReg, Op: ir.OpVLoad, Type: vecType, Operands: []ir.Operand{
			{Kind: ir.OperandRegister, Text: c.ArrayBase},
			{Kind: ir.OperandRegister, Text: vecIdxReg, Type: "i64"},
		}},
		{Result: vecAccNextReg, Op: ir.OpVBinOp, Variant: "add", Type: vecType, Operands: []ir.Operand{
			{Kind: ir.OperandRegister, Text: vecAccReg, Type: vecType},
			{Kind: ir.OperandRegister, Text: vecLoadReg, Type: vecType},
		}},
	}
	if c.OutputBase != "" {
		// The scalar loop writes its running sum back element by
		// element (a prefix-sum shape); the vector body widens that
		// store the same way it widened the load.
		vecBodyInsts = append(vecBodyInsts, ir.Instruction{
			Op: ir.OpVStore, Operands: []ir.Operand{
				{Kind: ir.OperandRegister, Text: vecAccNextReg, Type: vecType},
				{Kind: ir.OperandRegister, Text: c.OutputBase},
				{Kind: ir.OperandRegister, Text: vecIdxReg, Type: "i64"},
			},
		})
	}
	vecBodyInsts = append(vecBodyInsts,
		ir.Instruction{Result: vecIdxNextReg, Op: ir.OpAdd, Type: "i64", Operands: []ir.Operand{
			{Kind: ir.OperandRegister, Text: vecIdxReg, Type: "i64"}, laneConst,
		}},
		ir.Instruction{Op: ir.OpBr, Operands: []ir.Operand{{Kind: ir.OperandBlockLabel, Text: vecHeaderLabel}}},
	)
	vecBodyBlock := &ir.BasicBlock{
		Label:           vecBodyLabel,
		PredecessorHint: []string{vecHeaderLabel},
		Instructions:    vecBodyInsts,
	}

	vecReduceBlock := &ir.BasicBlock{
		Label:           vecReduceLabel,
		PredecessorHint: []string{vecHeaderLabel},
		Instructions: []ir.Instruction{
			{Result: vecAccScalarReg, Op: ir.OpVUnOp, Variant: "reduce.add", Type: c.ElementType, Operands: []ir.Operand{
				{Kind: ir.OperandRegister, Text: vecAccReg, Type: vecType},
			}},
			{Result: vecRemainingReg, Op: ir.OpSub, Type: "i64", Operands: []ir.Operand{
				c.TripCount, {Kind: ir.OperandRegister, Text: vecIdxReg, Type: "i64"},
			}},
			{Op: ir.OpBr, Operands: []ir.Operand{{Kind: ir.OperandBlockLabel, Text: scalarHeaderLabel}}},
		},
	}

	idx := -1
	for i, b := range fn.Blocks {
		if b == headerBlock {
			idx = i
			break
		}
	}
	inserted := make([]*ir.BasicBlock, 0, len(fn.Blocks)+4)
	inserted = append(inserted, fn.Blocks[:idx]...)
	inserted = append(inserted, guardBlock, vecHeaderBlock, vecBodyBlock, vecReduceBlock)
	inserted = append(inserted, fn.Blocks[idx:]...)
	fn.Blocks = inserted

	newPreds := make([]string, 0, len(origPreds)+1)
	for i, p := range origPreds {
		if i == preIdx {
			newPreds = append(newPreds, guardLabel, vecReduceLabel)
			continue
		}
		if nl, ok := relabel[p]; ok {
			newPreds = append(newPreds, nl)
		} else {
			newPreds = append(newPreds, p)
		}
	}
	headerBlock.PredecessorHint = newPreds

	spliceReduceEdge(indPhi, preIdx, ir.Operand{Kind: ir.OperandRegister, Text: vecIdxReg, Type: "i64"})
	spliceReduceEdge(accPhi, preIdx, ir.Operand{Kind: ir.OperandRegister, Text: vecAccScalarReg, Type: c.ElementType})

	return map[string][]string{
		c.Header:      {guardLabel, vecHeaderLabel, vecBodyLabel, vecReduceLabel, scalarHeaderLabel},
		c.Induction:   {vecIdxReg, vecIdxNextReg},
		c.Accumulator: {vecAccInitReg, vecAccReg, vecAccNextReg, vecAccScalarReg},
	}, nil
}

// spliceReduceEdge inserts a new incoming value for the vec.reduce
// predecessor immediately after the original preheader-edge operand,
// mirroring the predecessor-list edit made to the owning block.
func spliceReduceEdge(phi *ir.Instruction, preIdx int, reduceValue ir.Operand) {
	newOps := make([]ir.Operand, 0, len(phi.Operands)+1)
	for i, op := range phi.Operands {
		if i == preIdx {
			newOps = append(newOps, op, reduceValue)
			continue
		}
		newOps = append(newOps, op)
	}
	phi.Operands = newOps
}
