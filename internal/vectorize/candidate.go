package vectorize

import (
	"strconv"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/analysis"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/ir"
)

// Candidate is a loop that passed phase 1 (§4.5 "Candidate detection"):
// a single exit and a linear induction variable of stride ±1, plus the
// extra facts later phases need (the array base and element type the
// loop walks, and an accumulator phi if the loop is a reduction).
type Candidate struct {
	Header      string
	Body        []string
	Exit        string
	Induction   string
	Recurrence  string // SSA register holding Induction + Step each iteration
	Step        int64
	TripCount   ir.Operand
	ArrayBase   string
	OutputBase  string // "" if the loop never writes through an induction-indexed address
	ElementType string
	Accumulator string // "" if the loop is not a reduction
}

// DetectCandidates runs phase 1: every Loop analysis result with a
// declared induction variable, a single loop exit, and a ±1 stride is
// accepted; everything else (multi-exit loops, non-linear or
// non-unit-stride induction variables) is rejected here rather than
// later, per §4.5 phase 1.
func DetectCandidates(m *analysis.Manager, fn *ir.Function) ([]Candidate, error) {
	loopRes, err := m.Run(analysis.Loop, fn)
	if err != nil {
		return nil, err
	}
	indRes, err := m.Run(analysis.InductionVariable, fn)
	if err != nil {
		return nil, err
	}
	loops, _ := loopRes.Data["loops"].([]analysis.LoopSummary)
	inductionVars, _ := indRes.Data["inductionVars"].(map[string]string)

	var out []Candidate
	for _, lp := range loops {
		induction, ok := inductionVars[lp.Header]
		if !ok {
			continue
		}
		recurrence, step, ok := findStep(fn, lp.Body, induction)
		if !ok || (step != 1 && step != -1) {
			continue
		}
		exit, ok := singleExit(fn, lp.Body)
		if !ok {
			continue
		}
		tripCount, ok := findTripCount(fn, lp.Header, induction, recurrence)
		if !ok {
			continue
		}
		readBase, writeBase, elemType, ok := findMemoryAccess(fn, lp.Body, induction, recurrence)
		if !ok {
			continue
		}
		accumulator := findAccumulator(fn, lp.Header, lp.Body, induction)

		out = append(out, Candidate{
			Header:      lp.Header,
			Body:        lp.Body,
			Exit:        exit,
			Induction:   induction,
			Recurrence:  recurrence,
			Step:        step,
			TripCount:   tripCount,
			ArrayBase:   readBase,
			OutputBase:  writeBase,
			ElementType: elemType,
			Accumulator: accumulator,
		})
	}
	return out, nil
}

// findStep locates the add instruction computing induction's
// recurrence (induction + literal step) inside the loop body.
func findStep(fn *ir.Function, body []string, induction string) (string, int64, bool) {
	for _, label := range body {
		blk, ok := fn.BlockByLabel(label)
		if !ok {
			continue
		}
		for _, inst := range blk.Instructions {
			if inst.Op != ir.OpAdd || inst.Result == "" {
				continue
			}
			hasInduction := false
			var step int64
			haveConst := false
			for _, op := range inst.Operands {
				if op.Kind == ir.OperandRegister && op.Text == induction {
					hasInduction = true
				}
				if op.Kind == ir.OperandConstant {
					if v, err := strconv.ParseInt(op.Text, 10, 64); err == nil {
						step = v
						haveConst = true
					}
				}
			}
			if hasInduction && haveConst {
				return inst.Result, step, true
			}
		}
	}
	return "", 0, false
}

// singleExit requires every terminator in body to target either
// another body block or exactly one common block outside body.
func singleExit(fn *ir.Function, body []string) (string, bool) {
	bodySet := make(map[string]bool, len(body))
	for _, l := range body {
		bodySet[l] = true
	}
	external := map[string]bool{}
	for _, label := range body {
		blk, ok := fn.BlockByLabel(label)
		if !ok {
			continue
		}
		term, ok := blk.Terminator()
		if !ok {
			continue
		}
		for _, op := range term.Operands {
			if op.Kind == ir.OperandBlockLabel && !bodySet[op.Text] {
				external[op.Text] = true
			}
		}
	}
	if len(external) != 1 {
		return "", false
	}
	for e := range external {
		return e, true
	}
	return "", false
}

// findTripCount locates the comparison in the loop header that tests
// the induction variable (or its recurrence) against a bound, and
// returns the bound operand.
func findTripCount(fn *ir.Function, header, induction, recurrence string) (ir.Operand, bool) {
	blk, ok := fn.BlockByLabel(header)
	if !ok {
		return ir.Operand{}, false
	}
	for _, inst := range blk.Instructions {
		if inst.Op != ir.OpCmp || len(inst.Operands) != 2 {
			continue
		}
		for i, op := range inst.Operands {
			if op.Kind == ir.OperandRegister && (op.Text == induction || op.Text == recurrence) {
				return inst.Operands[1-i], true
			}
		}
	}
	return ir.Operand{}, false
}

// findMemoryAccess scans the loop body for getelementptr instructions
// indexed by the induction variable (directly or via its recurrence
// register) and classifies each by how its result is used: as a load
// address (the loop's read base) or a store address (the loop's write
// base, e.g. a running result written back element by element, as in a
// prefix-sum loop). readBase is required; writeBase is "" when the
// loop never writes through an induction-indexed address.
func findMemoryAccess(fn *ir.Function, body []string, induction, recurrence string) (readBase, writeBase, elemType string, ok bool) {
	for _, label := range body {
		blk, ok := fn.BlockByLabel(label)
		if !ok {
			continue
		}
		for _, inst := range blk.Instructions {
			if inst.Op != ir.OpGetElementPtr || len(inst.Operands) < 2 || inst.Result == "" {
				continue
			}
			indexed := false
			for _, op := range inst.Operands[1:] {
				if op.Kind == ir.OperandRegister && (op.Text == induction || op.Text == recurrence) {
					indexed = true
				}
			}
			if !indexed {
				continue
			}
			base := inst.Operands[0].Text
			if t, use, found := accessKindFor(fn, body, inst.Result); found {
				switch use {
				case "load":
					if readBase == "" {
						readBase = base
						elemType = t
					}
				case "store":
					if writeBase == "" {
						writeBase = base
						if elemType == "" {
							elemType = t
						}
					}
				}
			}
		}
	}
	return readBase, writeBase, elemType, readBase != ""
}

func accessKindFor(fn *ir.Function, body []string, gepResult string) (elemType, use string, ok bool) {
	for _, label := range body {
		blk, ok := fn.BlockByLabel(label)
		if !ok {
			continue
		}
		for _, inst := range blk.Instructions {
			switch inst.Op {
			case ir.OpLoad:
				if len(inst.Operands) > 0 && inst.Operands[0].Text == gepResult {
					return inst.Type, "load", true
				}
			case ir.OpStore:
				if len(inst.Operands) > 1 && inst.Operands[1].Text == gepResult {
					return inst.Operands[0].Type, "store", true
				}
			}
		}
	}
	return "", "", false
}

// findAccumulator looks for a header phi other than induction whose
// recurrence combines itself with a value loaded in the body — the
// classic sum-reduction shape (§8 scenario 3).
func findAccumulator(fn *ir.Function, header string, body []string, induction string) string {
	blk, ok := fn.BlockByLabel(header)
	if !ok {
		return ""
	}
	loadResults := map[string]bool{}
	for _, label := range body {
		b, ok := fn.BlockByLabel(label)
		if !ok {
			continue
		}
		for _, inst := range b.Instructions {
			if inst.Op == ir.OpLoad && inst.Result != "" {
				loadResults[inst.Result] = true
			}
		}
	}
	for _, inst := range blk.Instructions {
		if inst.Op != ir.OpPhi || inst.Result == "" || inst.Result == induction {
			continue
		}
		for _, label := range body {
			b, ok := fn.BlockByLabel(label)
			if !ok {
				continue
			}
			for _, add := range b.Instructions {
				if add.Op != ir.OpAdd || add.Result == "" {
					continue
				}
				hasPhi, hasLoad := false, false
				for _, op := range add.Operands {
					if op.Kind == ir.OperandRegister && op.Text == inst.Result {
						hasPhi = true
					}
					if op.Kind == ir.OperandRegister && loadResults[op.Text] {
						hasLoad = true
					}
				}
				if hasPhi && hasLoad {
					return inst.Result
				}
			}
		}
	}
	return ""
}
