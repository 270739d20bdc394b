package constraints

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/types"
)

// Subst maps type-variable ids to their resolved handle, built up
// incrementally by Unify calls the way funvibe-funxy's InferenceContext
// threads a GlobalSubst through its worklist rather than mutating terms
// in place (internal/analyzer/inference_solver.go).
type Subst map[uint64]types.Handle

// Apply resolves h to weak-head-normal-form under s, substituting every
// bound type variable with its current binding. It recurses through
// every structural Term variant so a substitution made deep inside a
// function parameter or record field is visible at the root.
func Apply(reg *types.Registry, s Subst, h types.Handle) (types.Handle, error) {
	t, err := reg.Resolve(h)
	if err != nil {
		return h, err
	}
	switch t := t.(type) {
	case types.TVar:
		if bound, ok := s[t.ID]; ok && bound != h {
			return Apply(reg, s, bound)
		}
		return h, nil
	case types.Primitive:
		return h, nil
	case types.Named:
		args, err := applyAll(reg, s, t.Args)
		if err != nil {
			return h, err
		}
		return reg.Intern(types.Named{Name: t.Name, Args: args}), nil
	case types.Func:
		params, err := applyAll(reg, s, t.Params)
		if err != nil {
			return h, err
		}
		ret, err := Apply(reg, s, t.Return)
		if err != nil {
			return h, err
		}
		effects, err := applyAll(reg, s, t.Effects)
		if err != nil {
			return h, err
		}
		return reg.Intern(types.Func{Params: params, Return: ret, Effects: effects}), nil
	case types.Tuple:
		elems, err := applyAll(reg, s, t.Elements)
		if err != nil {
			return h, err
		}
		return reg.Intern(types.Tuple{Elements: elems}), nil
	case types.Record:
		fields := make(map[string]types.Handle, len(t.Fields))
		for name, fh := range t.Fields {
			applied, err := Apply(reg, s, fh)
			if err != nil {
				return h, err
			}
			fields[name] = applied
		}
		var row *types.Handle
		if t.Row != nil {
			r, err := Apply(reg, s, *t.Row)
			if err != nil {
				return h, err
			}
			row = &r
		}
		return reg.Intern(types.Record{Fields: fields, Row: row}), nil
	case types.Array:
		elem, err := Apply(reg, s, t.Element)
		if err != nil {
			return h, err
		}
		return reg.Intern(types.Array{Element: elem, Length: t.Length}), nil
	case types.Ref:
		target, err := Apply(reg, s, t.Target)
		if err != nil {
			return h, err
		}
		return reg.Intern(types.Ref{Target: target, Mutable: t.Mutable}), nil
	case types.ResourceWrapped:
		base, err := Apply(reg, s, t.Base)
		if err != nil {
			return h, err
		}
		return reg.Intern(types.ResourceWrapped{Base: base, Linearity: t.Linearity}), nil
	default:
		// Quantifier, DependentFunc, Refinement, HKApp, Meta are left
		// untouched: substitution under a binder for a different variable
		// namespace (type-level expression names, not TVar ids) is the
		// Type Registry's Substitute, not this solver's Subst.
		return h, nil
	}
}

func applyAll(reg *types.Registry, s Subst, hs []types.Handle) ([]types.Handle, error) {
	out := make([]types.Handle, len(hs))
	for i, h := range hs {
		a, err := Apply(reg, s, h)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func occurs(reg *types.Registry, s Subst, id uint64, h types.Handle) bool {
	applied, err := Apply(reg, s, h)
	if err != nil {
		return false
	}
	t, err := reg.Resolve(applied)
	if err != nil {
		return false
	}
	switch t := t.(type) {
	case types.TVar:
		return t.ID == id
	case types.Named:
		return occursAny(reg, s, id, t.Args)
	case types.Func:
		return occursAny(reg, s, id, t.Params) || occurs(reg, s, id, t.Return) || occursAny(reg, s, id, t.Effects)
	case types.Tuple:
		return occursAny(reg, s, id, t.Elements)
	case types.Record:
		for _, fh := range t.Fields {
			if occurs(reg, s, id, fh) {
				return true
			}
		}
		return t.Row != nil && occurs(reg, s, id, *t.Row)
	case types.Array:
		return occurs(reg, s, id, t.Element)
	case types.Ref:
		return occurs(reg, s, id, t.Target)
	case types.ResourceWrapped:
		return occurs(reg, s, id, t.Base)
	default:
		return false
	}
}

func occursAny(reg *types.Registry, s Subst, id uint64, hs []types.Handle) bool {
	for _, h := range hs {
		if occurs(reg, s, id, h) {
			return true
		}
	}
	return false
}

// Unify extends s so that left and right resolve to structurally equal
// terms, or returns CS001. It does not attempt kind checking of bound
// type variables beyond requiring their kinds unify, delegating to
// kinds.System the same way the Kind System is a separate collaborator
// from the Type Registry in the rest of this module.
func Unify(reg *types.Registry, ks *kinds.System, s Subst, left, right types.Handle) (Subst, error) {
	left, err := Apply(reg, s, left)
	if err != nil {
		return s, err
	}
	right, err = Apply(reg, s, right)
	if err != nil {
		return s, err
	}
	if left == right {
		return s, nil
	}

	lt, err := reg.Resolve(left)
	if err != nil {
		return s, err
	}
	rt, err := reg.Resolve(right)
	if err != nil {
		return s, err
	}

	if lv, ok := lt.(types.TVar); ok {
		return bindVar(reg, ks, s, lv, right)
	}
	if rv, ok := rt.(types.TVar); ok {
		return bindVar(reg, ks, s, rv, left)
	}

	switch lt := lt.(type) {
	case types.Primitive:
		rt, ok := rt.(types.Primitive)
		if !ok || lt.Kind != rt.Kind {
			return s, mismatch(left, right)
		}
		return s, nil
	case types.Named:
		rt, ok := rt.(types.Named)
		if !ok || lt.Name != rt.Name || len(lt.Args) != len(rt.Args) {
			return s, mismatch(left, right)
		}
		return unifyPairwise(reg, ks, s, lt.Args, rt.Args)
	case types.Func:
		rt, ok := rt.(types.Func)
		if !ok || len(lt.Params) != len(rt.Params) {
			return s, mismatch(left, right)
		}
		s, err := unifyPairwise(reg, ks, s, lt.Params, rt.Params)
		if err != nil {
			return s, err
		}
		return Unify(reg, ks, s, lt.Return, rt.Return)
	case types.Tuple:
		rt, ok := rt.(types.Tuple)
		if !ok || len(lt.Elements) != len(rt.Elements) {
			return s, mismatch(left, right)
		}
		return unifyPairwise(reg, ks, s, lt.Elements, rt.Elements)
	case types.Ref:
		rt, ok := rt.(types.Ref)
		if !ok || lt.Mutable != rt.Mutable {
			return s, mismatch(left, right)
		}
		return Unify(reg, ks, s, lt.Target, rt.Target)
	case types.ResourceWrapped:
		rt, ok := rt.(types.ResourceWrapped)
		if !ok || lt.Linearity != rt.Linearity {
			return s, mismatch(left, right)
		}
		return Unify(reg, ks, s, lt.Base, rt.Base)
	default:
		if reg.IsStructurallyEqual(left, right) {
			return s, nil
		}
		return s, mismatch(left, right)
	}
}

func bindVar(reg *types.Registry, ks *kinds.System, s Subst, v types.TVar, h types.Handle) (Subst, error) {
	if occurs(reg, s, v.ID, h) {
		return s, diag.Wrap(diag.New(diag.KD003, diag.Error, "constraint-solver",
			fmt.Sprintf("occurs check: ?t%d occurs in %s", v.ID, h.String())))
	}
	if ks != nil && v.Kind != nil {
		hk, err := types.InferKind(reg, ks, h)
		if err != nil {
			return s, err
		}
		if err := ks.Unify(v.Kind, hk); err != nil {
			return s, err
		}
	}
	next := make(Subst, len(s)+1)
	for k, val := range s {
		next[k] = val
	}
	next[v.ID] = h
	return next, nil
}

func unifyPairwise(reg *types.Registry, ks *kinds.System, s Subst, left, right []types.Handle) (Subst, error) {
	for i := range left {
		var err error
		s, err = Unify(reg, ks, s, left[i], right[i])
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

func mismatch(left, right types.Handle) error {
	return diag.Wrap(diag.New(diag.CS001, diag.Error, "constraint-solver",
		fmt.Sprintf("type mismatch: %s is not equal to %s", left.String(), right.String())).
		WithData("left", left.String()).WithData("right", right.String()))
}
