package constraints

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/smt"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/types"
)

// Entail checks whether hypothesis (the assumed context, possibly
// PredBool{true} for none) entails goal. It first tries the built-in
// fragment: both sides reduced to conjunctions of literal comparisons
// via types.Atoms/types.Eval, decided by direct evaluation once every
// atom is closed (no free type-level variables). Anything the built-in
// fragment cannot decide — free variables, disjunction, quantifiers —
// is handed to the SMT oracle if one is configured; with no oracle
// configured it reports CS003 rather than silently assuming entailment.
func Entail(reg *types.Registry, oracle *smt.Bridge, env types.TLEnv, hypothesis, goal types.Predicate) error {
	if ok, decided := tryBuiltinEntail(env, hypothesis, goal); decided {
		if ok {
			return nil
		}
		return unproven(goal)
	}
	if oracle == nil {
		return diag.Wrap(diag.New(diag.CS003, diag.Warning, "constraint-solver",
			fmt.Sprintf("refinement obligation %s could not be proven without an SMT oracle", goal.String())).
			WithData("goal", goal.String()))
	}
	return entailViaSMT(oracle, hypothesis, goal)
}

// tryBuiltinEntail attempts to decide hypothesis => goal by evaluating
// every atom to a closed boolean under env. decided is false when any
// atom is not purely PredCompare/PredAnd over a closed expression, in
// which case the caller must fall back to the SMT oracle.
func tryBuiltinEntail(env types.TLEnv, hypothesis, goal types.Predicate) (ok bool, decided bool) {
	hypAtoms, hok := types.Atoms(hypothesis)
	goalAtoms, gok := types.Atoms(goal)
	if !hok || !gok {
		return false, false
	}
	env = bindEqualities(env, hypAtoms)
	for _, a := range hypAtoms {
		v, err := evalCompare(env, a)
		if err != nil {
			return false, false
		}
		if !v {
			// A false hypothesis entails anything (ex falso).
			return true, true
		}
	}
	for _, a := range goalAtoms {
		v, err := evalCompare(env, a)
		if err != nil {
			return false, false
		}
		if !v {
			return false, true
		}
	}
	return true, true
}

// bindEqualities extends env with var = literal facts read off hypAtoms
// (an equality atom in either operand order), so a bound name shared
// between a hypothesis and a goal (a refinement's own variable, e.g.
// x=5 entailing x>=0) can be evaluated instead of left as a free
// neutral the built-in fragment can't decide.
func bindEqualities(env types.TLEnv, hypAtoms []types.PredCompare) types.TLEnv {
	extended := make(types.TLEnv, len(env))
	for k, v := range env {
		extended[k] = v
	}
	for _, a := range hypAtoms {
		if a.Op != types.CmpEq {
			continue
		}
		if name, val, ok := equalityBinding(extended, a); ok {
			extended[name] = val
		}
	}
	return extended
}

func equalityBinding(env types.TLEnv, a types.PredCompare) (string, types.TLValue, bool) {
	if lv, ok := a.Left.(types.TLVar); ok {
		if rv, err := types.Eval(a.Right, env); err == nil {
			if _, neutral := rv.(types.TLVNeutral); !neutral {
				return lv.Name, rv, true
			}
		}
	}
	if rv, ok := a.Right.(types.TLVar); ok {
		if lv, err := types.Eval(a.Left, env); err == nil {
			if _, neutral := lv.(types.TLVNeutral); !neutral {
				return rv.Name, lv, true
			}
		}
	}
	return "", nil, false
}

func evalCompare(env types.TLEnv, a types.PredCompare) (bool, error) {
	lv, err := types.Eval(a.Left, env)
	if err != nil {
		return false, err
	}
	rv, err := types.Eval(a.Right, env)
	if err != nil {
		return false, err
	}
	li, lok := lv.(types.TLVInt)
	ri, rok := rv.(types.TLVInt)
	if !lok || !rok {
		return false, fmt.Errorf("non-integer comparison operand")
	}
	switch a.Op {
	case types.CmpEq:
		return li.Value == ri.Value, nil
	case types.CmpNeq:
		return li.Value != ri.Value, nil
	case types.CmpLt:
		return li.Value < ri.Value, nil
	case types.CmpLe:
		return li.Value <= ri.Value, nil
	case types.CmpGt:
		return li.Value > ri.Value, nil
	case types.CmpGe:
		return li.Value >= ri.Value, nil
	default:
		return false, fmt.Errorf("unknown comparison operator %v", a.Op)
	}
}

// entailViaSMT asks the oracle whether hypothesis && !goal is
// unsatisfiable, the standard reduction of entailment to a
// satisfiability query, scoped to a push/pop frame so the obligation
// never leaks assertions into the caller's SMT context.
func entailViaSMT(oracle *smt.Bridge, hypothesis, goal types.Predicate) error {
	if err := oracle.Push(); err != nil {
		return diag.Wrap(diag.New(diag.CS011, diag.Fatal, "constraint-solver", err.Error()))
	}
	defer oracle.Pop()

	if err := oracle.Assert(toSMTFormula(hypothesis)); err != nil {
		return diag.Wrap(diag.New(diag.CS011, diag.Fatal, "constraint-solver", err.Error()))
	}
	if err := oracle.Assert(fmt.Sprintf("(not %s)", toSMTFormula(goal))); err != nil {
		return diag.Wrap(diag.New(diag.CS011, diag.Fatal, "constraint-solver", err.Error()))
	}

	res, err := oracle.CheckSat()
	if err != nil {
		return err
	}
	switch res {
	case smt.Unsat:
		return nil
	case smt.Sat:
		return unproven(goal)
	default:
		return diag.Wrap(diag.New(diag.CS010, diag.Warning, "constraint-solver",
			fmt.Sprintf("SMT oracle returned unknown deciding %s", goal.String())))
	}
}

func toSMTFormula(p types.Predicate) string {
	switch p := p.(type) {
	case types.PredBool:
		if p.Value {
			return "true"
		}
		return "false"
	case types.PredCompare:
		return fmt.Sprintf("(%s %s %s)", p.Op.String(), p.Left.String(), p.Right.String())
	case types.PredAnd:
		return fmt.Sprintf("(and %s %s)", toSMTFormula(p.Left), toSMTFormula(p.Right))
	case types.PredOr:
		return fmt.Sprintf("(or %s %s)", toSMTFormula(p.Left), toSMTFormula(p.Right))
	case types.PredNot:
		return fmt.Sprintf("(not %s)", toSMTFormula(p.Operand))
	case types.PredForall:
		return fmt.Sprintf("(forall ((%s %s)) %s)", p.Var, p.Kind.String(), toSMTFormula(p.Body))
	case types.PredExists:
		return fmt.Sprintf("(exists ((%s %s)) %s)", p.Var, p.Kind.String(), toSMTFormula(p.Body))
	default:
		return "true"
	}
}

func unproven(goal types.Predicate) error {
	return diag.Wrap(diag.New(diag.CS003, diag.Error, "constraint-solver",
		fmt.Sprintf("refinement %s does not hold", goal.String())).
		WithData("goal", goal.String()))
}
