package analysis

import (
	"strconv"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ir"
)

// RegisterDefaultPasses installs the built-in implementation for every
// kind DefaultCatalog declares.
func RegisterDefaultPasses(m *Manager) {
	m.RegisterPass(ControlFlow, controlFlowPass)
	m.RegisterPass(DataFlow, dataFlowPass)
	m.RegisterPass(Reachability, reachabilityPass)
	m.RegisterPass(Alias, aliasPass)
	m.RegisterPass(MemoryDependency, memoryDependencyPass)
	m.RegisterPass(SideEffect, sideEffectPass)
	m.RegisterPass(DeadCode, deadCodePass)
	m.RegisterPass(ConstantPropagation, constantPropagationPass)
	m.RegisterPass(Loop, loopPass)
	m.RegisterPass(MemoryAccessPattern, memoryAccessPatternPass)
	m.RegisterPass(HotPath, hotPathPass)
	RegisterExtraPasses(m)
}

// controlFlowPass builds each block's successor set from its
// terminator's block-label operands, and records the entry block
// (the function's first block, by convention).
func controlFlowPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	successors := make(map[string][]string, len(fn.Blocks))
	for _, b := range fn.Blocks {
		term, ok := b.Terminator()
		if !ok {
			continue
		}
		var succs []string
		for _, op := range term.Operands {
			if op.Kind == ir.OperandBlockLabel {
				succs = append(succs, op.Text)
			}
		}
		successors[b.Label] = succs
	}
	entry := ""
	if len(fn.Blocks) > 0 {
		entry = fn.Blocks[0].Label
	}
	return &Result{
		Stats: Stats{Blocks: len(fn.Blocks), Functions: 1},
		Data: map[string]any{
			"successors": successors,
			"entry":      entry,
		},
	}, nil
}

// dataFlowPass builds a flat def/use map: every SSA result and every
// register operand that references it.
func dataFlowPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	defs := make(map[string]ir.Instruction)
	uses := make(map[string][]string)
	instCount := 0
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			instCount++
			if inst.Result != "" {
				defs[inst.Result] = inst
			}
			for _, op := range inst.Operands {
				if op.Kind == ir.OperandRegister {
					label := inst.Result
					if label == "" {
						label = inst.Op.String()
					}
					uses[op.Text] = append(uses[op.Text], label)
				}
			}
		}
	}
	return &Result{
		Stats: Stats{Instructions: instCount, Functions: 1},
		Data: map[string]any{
			"defs": defs,
			"uses": uses,
		},
	}, nil
}

// reachabilityPass runs BFS over ControlFlow's successor graph from the
// entry block.
func reachabilityPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	cf, err := pc.Result(ControlFlow)
	if err != nil {
		return nil, err
	}
	successors, _ := cf.Data["successors"].(map[string][]string)
	entry, _ := cf.Data["entry"].(string)

	reachable := map[string]bool{}
	if entry != "" {
		queue := []string{entry}
		reachable[entry] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, s := range successors[cur] {
				if !reachable[s] {
					reachable[s] = true
					queue = append(queue, s)
				}
			}
		}
	}
	return &Result{
		Stats: Stats{Blocks: len(reachable)},
		Data:  map[string]any{"reachable": reachable},
	}, nil
}

// aliasPass implements the conservative rule every static allocation is
// assumed disjoint from every other: each OpAlloca introduces a
// distinct memory location, so no two distinct alloca results ever
// alias. This is enough to prove the no-loop-carried-dependence case
// the vectorizer needs (§8 scenario 3) without a full points-to solver.
func aliasPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	var allocas []string
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Op == ir.OpAlloca && inst.Result != "" {
				allocas = append(allocas, inst.Result)
			}
		}
	}
	noAlias := make(map[string]bool, len(allocas)*len(allocas))
	for i, a := range allocas {
		for j, b := range allocas {
			if i != j {
				noAlias[a+"|"+b] = true
			}
		}
	}
	return &Result{
		Stats: Stats{Issues: 0},
		Data: map[string]any{
			"allocas": allocas,
			"noAlias": noAlias,
		},
	}, nil
}

// memoryDependencyPass flags a loop-carried dependence whenever a store
// and a load in the function share the same base pointer operand text
// and that base is not known disjoint from itself under Alias's
// noAlias table (which only rules out distinct allocas — a store and a
// load sharing one base must be checked for index-based disjointness,
// which this pass does not attempt; it conservatively assumes a shared
// base is a potential dependence unless the only memory operations on
// that base are loads).
func memoryDependencyPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	if _, err := pc.Result(Alias); err != nil {
		return nil, err
	}
	if _, err := pc.Result(DataFlow); err != nil {
		return nil, err
	}

	storesBase := map[string]bool{}
	loadsBase := map[string]bool{}
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			switch inst.Op {
			case ir.OpStore:
				if len(inst.Operands) > 1 {
					storesBase[baseOf(inst.Operands[1])] = true
				}
			case ir.OpLoad:
				if len(inst.Operands) > 0 {
					loadsBase[baseOf(inst.Operands[0])] = true
				}
			}
		}
	}
	hasDependence := false
	var flagged []string
	for base := range storesBase {
		if loadsBase[base] {
			hasDependence = true
			flagged = append(flagged, base)
		}
	}
	return &Result{
		Stats: Stats{Issues: len(flagged)},
		Data: map[string]any{
			"hasLoopCarriedDependence": hasDependence,
			"flaggedBases":             flagged,
		},
	}, nil
}

func baseOf(op ir.Operand) string {
	return op.Text
}

// sideEffectPass flags a function as effectful if it contains any
// store or call instruction.
func sideEffectPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	if _, err := pc.Result(DataFlow); err != nil {
		return nil, err
	}
	var effectful []string
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Op == ir.OpStore || inst.Op == ir.OpCall {
				label := inst.Result
				if label == "" {
					label = inst.Op.String()
				}
				effectful = append(effectful, label)
			}
		}
	}
	return &Result{
		Data: map[string]any{
			"hasSideEffects":        len(effectful) > 0,
			"effectfulInstructions": effectful,
		},
	}, nil
}

// deadCodePass finds SSA results with no recorded use and blocks that
// Reachability never reached.
func deadCodePass(pc *PassContext, fn *ir.Function) (*Result, error) {
	df, err := pc.Result(DataFlow)
	if err != nil {
		return nil, err
	}
	reach, err := pc.Result(Reachability)
	if err != nil {
		return nil, err
	}
	defs, _ := df.Data["defs"].(map[string]ir.Instruction)
	uses, _ := df.Data["uses"].(map[string][]string)
	reachable, _ := reach.Data["reachable"].(map[string]bool)

	var dead []string
	for name := range defs {
		if len(uses[name]) == 0 {
			dead = append(dead, name)
		}
	}
	var unreachable []string
	for _, b := range fn.Blocks {
		if !reachable[b.Label] {
			unreachable = append(unreachable, b.Label)
		}
	}
	return &Result{
		Stats: Stats{Issues: len(dead) + len(unreachable), Opportunities: len(dead) + len(unreachable)},
		Data: map[string]any{
			"deadInstructions":  dead,
			"unreachableBlocks": unreachable,
		},
	}, nil
}

// constantPropagationPass folds arithmetic instructions whose operands
// are all integer-literal constants.
func constantPropagationPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	if _, err := pc.Result(DataFlow); err != nil {
		return nil, err
	}
	constants := make(map[string]string)
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			if inst.Result == "" || len(inst.Operands) != 2 {
				continue
			}
			a, aok := literalInt(inst.Operands[0])
			bb, bok := literalInt(inst.Operands[1])
			if !aok || !bok {
				continue
			}
			var v int64
			switch inst.Op {
			case ir.OpAdd:
				v = a + bb
			case ir.OpSub:
				v = a - bb
			case ir.OpMul:
				v = a * bb
			default:
				continue
			}
			constants[inst.Result] = strconv.FormatInt(v, 10)
		}
	}
	return &Result{
		Stats:  Stats{Opportunities: len(constants)},
		Data:   map[string]any{"constants": constants},
	}, nil
}

func literalInt(op ir.Operand) (int64, bool) {
	if op.Kind != ir.OperandConstant {
		return 0, false
	}
	v, err := strconv.ParseInt(op.Text, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LoopSummary describes one detected natural loop.
type LoopSummary struct {
	Header       string
	BackEdgeFrom string
	Body         []string
}

// loopPass detects back edges — a terminator whose block-label operand
// targets the current block or one that appears earlier in declaration
// order (whether the target can reach the current block is not checked)
// — the structure every block-ordered IR
// this module ever constructs actually exhibits (blocks are emitted in
// program order, loop headers before their bodies).
func loopPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	cf, err := pc.Result(ControlFlow)
	if err != nil {
		return nil, err
	}
	if _, err := pc.Result(Reachability); err != nil {
		return nil, err
	}
	successors, _ := cf.Data["successors"].(map[string][]string)

	index := make(map[string]int, len(fn.Blocks))
	for i, b := range fn.Blocks {
		index[b.Label] = i
	}

	var loops []LoopSummary
	for _, b := range fn.Blocks {
		for _, s := range successors[b.Label] {
			headerIdx, ok := index[s]
			if !ok || headerIdx > index[b.Label] {
				continue
			}
			// s is a back-edge target; collect the body as every block
			// between the header and the back-edge source, inclusive.
			var body []string
			for i := headerIdx; i <= index[b.Label]; i++ {
				body = append(body, fn.Blocks[i].Label)
			}
			loops = append(loops, LoopSummary{Header: s, BackEdgeFrom: b.Label, Body: body})
		}
	}
	return &Result{
		Stats: Stats{Opportunities: len(loops)},
		Data:  map[string]any{"loops": loops},
	}, nil
}

// memoryAccessPatternPass tags each loop with a stride classification:
// "stride1" when every getelementptr inside the loop body derives its
// offset from one common index register (whatever array base it reads
// or writes), else "unknown". Sharing one index register, rather than
// requiring a single array base, is what lets a loop touching more
// than one array (e.g. reading one and writing a running result to
// another) still classify as unit stride. No other pass in this package
// reads the classification; the vectorizer's dependence check
// (internal/vectorize) rejects any loop not tagged "stride1".
func memoryAccessPatternPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	if _, err := pc.Result(MemoryDependency); err != nil {
		return nil, err
	}
	loopRes, err := pc.Result(Loop)
	if err != nil {
		return nil, err
	}
	loops, _ := loopRes.Data["loops"].([]LoopSummary)

	inBody := func(body []string, label string) bool {
		for _, l := range body {
			if l == label {
				return true
			}
		}
		return false
	}

	patterns := make(map[string]string, len(loops))
	for _, lp := range loops {
		indices := map[string]bool{}
		for _, b := range fn.Blocks {
			if !inBody(lp.Body, b.Label) {
				continue
			}
			for _, inst := range b.Instructions {
				if inst.Op != ir.OpGetElementPtr || len(inst.Operands) < 2 {
					continue
				}
				offset := inst.Operands[len(inst.Operands)-1]
				if offset.Kind == ir.OperandRegister {
					indices[offset.Text] = true
				}
			}
		}
		if len(indices) == 1 {
			patterns[lp.Header] = "stride1"
		} else {
			patterns[lp.Header] = "unknown"
		}
	}
	return &Result{
		Data: map[string]any{"patterns": patterns},
	}, nil
}

// hotPathPass marks join blocks (more than one predecessor hint) as
// candidate hot paths; this module has no profiling collaborator
// (Non-goal), so it is a static structural heuristic rather than a
// sampled-profile consumer.
func hotPathPass(pc *PassContext, fn *ir.Function) (*Result, error) {
	if _, err := pc.Result(ControlFlow); err != nil {
		return nil, err
	}
	var hot []string
	for _, b := range fn.Blocks {
		if len(b.PredecessorHint) > 1 {
			hot = append(hot, b.Label)
		}
	}
	return &Result{
		Data: map[string]any{"hotBlocks": hot},
	}, nil
}
