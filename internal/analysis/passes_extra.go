package analysis

import "github.com/menchan-Rub/SwiftLight-sub003/internal/ir"

// RegisterExtraPasses installs the remaining catalog entries not
// central to the vectorization pipeline (§8 scenario 3/4), kept in a
// separate file since they are smaller, more heuristic passes than the
// control-flow/dataflow/alias/memory-dependence/loop core.
func RegisterExtraPasses(m *Manager) {
	m.RegisterPass(PointerAnalysis, pointerAnalysisPass)
	m.RegisterPass(EscapeAnalysis, escapeAnalysisPass)
	m.RegisterPass(TypeAnalysis, typeAnalysisPass)
	m.RegisterPass(InductionVariable, inductionVariablePass)
	m.RegisterPass(RangeAnalysis, rangeAnalysisPass)
	m.RegisterPass(Invariant, invariantPass)
	m.RegisterPass(ConcurrencyAnalysis, concurrencyAnalysisPass)
}

// pointerAnalysisPass computes a minimal points-to set: each alloca
// points to itself, and bitcast/getelementptr results inherit their
// base operand's points-to set (pointer arithmetic never changes what
// an allocation a pointer ultimately refers to).
func pointerAnalysisPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	aliasRes, err := pc.Result(Alias)
	if err != nil {
		return nil, err
	}
	allocas, _ := aliasRes.Data["allocas"].([]string)
	pointsTo := make(map[string][]string)
	for _, a := range allocas {
		pointsTo[a] = []string{a}
	}
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Result == "" || len(inst.Operands) == 0 {
				continue
			}
			if inst.Op == ir.OpGetElementPtr || inst.Op == ir.OpBitcast {
				base := inst.Operands[0].Text
				if targets, ok := pointsTo[base]; ok {
					pointsTo[inst.Result] = targets
				}
			}
		}
	}
	return &Result{
		Data: map[string]any{"pointsTo": pointsTo},
	}, nil
}

// escapeAnalysisPass marks an allocation as escaped if any pointer
// pointing to it is ever passed as a call argument or stored through
// another pointer. Everything else is "local" and may, downstream,
// be stack-allocated rather than heap-allocated by the backend.
func escapeAnalysisPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	ptRes, err := pc.Result(PointerAnalysis)
	if err != nil {
		return nil, err
	}
	if _, err := pc.Result(DataFlow); err != nil {
		return nil, err
	}
	pointsTo, _ := ptRes.Data["pointsTo"].(map[string][]string)

	escaped := map[string]bool{}
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Op != ir.OpCall && inst.Op != ir.OpStore {
				continue
			}
			operands := inst.Operands
			if inst.Op == ir.OpStore {
				// Only the stored value escapes, not the address stored through.
				if len(operands) == 0 {
					continue
				}
				operands = operands[:1]
			}
			for _, op := range operands {
				if op.Kind != ir.OperandRegister {
					continue
				}
				for _, target := range pointsTo[op.Text] {
					escaped[target] = true
				}
			}
		}
	}

	var escapedList, localList []string
	for alloc, targets := range pointsTo {
		if len(targets) != 1 || targets[0] != alloc {
			continue // only classify alloca roots, not derived pointers
		}
		if escaped[alloc] {
			escapedList = append(escapedList, alloc)
		} else {
			localList = append(localList, alloc)
		}
	}
	return &Result{
		Data: map[string]any{"escaped": escapedList, "local": localList},
	}, nil
}

// typeAnalysisPass records every SSA result's declared type.
func typeAnalysisPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	df, err := pc.Result(DataFlow)
	if err != nil {
		return nil, err
	}
	defs, _ := df.Data["defs"].(map[string]ir.Instruction)
	types := make(map[string]string, len(defs))
	for name, inst := range defs {
		types[name] = inst.Type
	}
	return &Result{Data: map[string]any{"types": types}}, nil
}

// inductionVariablePass looks, per detected loop, for a phi in the
// loop header whose operands are (initial value, recurrence) where the
// recurrence is an add of the phi's own result and a constant step —
// the textbook basic induction variable shape.
func inductionVariablePass(pc *PassContext, fn *ir.Function) (*Result, error) {
	loopRes, err := pc.Result(Loop)
	if err != nil {
		return nil, err
	}
	if _, err := pc.Result(DataFlow); err != nil {
		return nil, err
	}
	loops, _ := loopRes.Data["loops"].([]LoopSummary)

	inductionVars := make(map[string]string, len(loops))
	for _, lp := range loops {
		header, ok := fn.BlockByLabel(lp.Header)
		if !ok {
			continue
		}
		for _, inst := range header.Instructions {
			if inst.Op != ir.OpPhi || len(inst.Operands) < 2 {
				continue
			}
			for _, operand := range inst.Operands {
				if operand.Kind != ir.OperandRegister {
					continue
				}
				if isRecurrenceOf(fn, operand.Text, inst.Result) {
					inductionVars[lp.Header] = inst.Result
				}
			}
		}
	}
	return &Result{Data: map[string]any{"inductionVars": inductionVars}}, nil
}

// isRecurrenceOf reports whether candidate is defined as phiResult plus
// a literal constant — the "+= step" shape of a basic induction
// variable. An accumulator (phiResult plus another SSA value, e.g. a
// loaded array element) does not qualify, so a reduction loop's sum
// phi is never mistaken for its index phi.
func isRecurrenceOf(fn *ir.Function, candidate, phiResult string) bool {
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Result != candidate || inst.Op != ir.OpAdd || len(inst.Operands) != 2 {
				continue
			}
			hasPhi, hasConst := false, false
			for _, op := range inst.Operands {
				if op.Kind == ir.OperandRegister && op.Text == phiResult {
					hasPhi = true
				}
				if op.Kind == ir.OperandConstant {
					hasConst = true
				}
			}
			if hasPhi && hasConst {
				return true
			}
		}
	}
	return false
}

// rangeAnalysisPass reports a known [v, v] range for every constant
// ConstantPropagation folded; everything else is unranged.
func rangeAnalysisPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	cp, err := pc.Result(ConstantPropagation)
	if err != nil {
		return nil, err
	}
	if _, err := pc.Result(DataFlow); err != nil {
		return nil, err
	}
	constants, _ := cp.Data["constants"].(map[string]string)
	ranges := make(map[string]string, len(constants))
	for name, v := range constants {
		ranges[name] = "[" + v + "," + v + "]"
	}
	return &Result{Data: map[string]any{"ranges": ranges}}, nil
}

// invariantPass flags instructions whose operands are all function
// parameters or constants — values that cannot change across any
// re-execution of the instruction within this function, and are
// therefore candidates for hoisting by a loop-invariant-code-motion
// pass this module does not itself implement (the optimizer driver is
// the backend collaborator's concern once the manager annotates IR).
func invariantPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	if _, err := pc.Result(DataFlow); err != nil {
		return nil, err
	}
	if _, err := pc.Result(ControlFlow); err != nil {
		return nil, err
	}
	params := map[string]bool{}
	for _, p := range fn.Params {
		params[p.Name] = true
	}
	var invariant []string
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Result == "" || len(inst.Operands) == 0 {
				continue
			}
			allInvariant := true
			for _, op := range inst.Operands {
				if op.Kind == ir.OperandRegister && !params[op.Text] {
					allInvariant = false
					break
				}
			}
			if allInvariant {
				invariant = append(invariant, inst.Result)
			}
		}
	}
	return &Result{
		Stats: Stats{Opportunities: len(invariant)},
		Data:  map[string]any{"invariantInstructions": invariant},
	}, nil
}

// concurrencyAnalysisPass reports no concurrency hazards: the opcode
// set (§6) has no atomic, lock, or channel primitives, so there is
// nothing for this pass to flag yet. It still runs (rather than being
// omitted from the catalog) so a future opcode addition has somewhere
// to plug in without a new dependency wiring.
func concurrencyAnalysisPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	if _, err := pc.Result(SideEffect); err != nil {
		return nil, err
	}
	if _, err := pc.Result(Alias); err != nil {
		return nil, err
	}
	return &Result{
		Data: map[string]any{"potentialRaces": []string{}},
	}, nil
}
