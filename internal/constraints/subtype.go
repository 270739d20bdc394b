package constraints

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/smt"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/types"
)

// Subtype checks left <: right, extending s for any type variables
// encountered along the way. Function types are contravariant in their
// parameters and covariant in their return, matching kinds.System's
// Subkind treatment of Arrow kinds (§4.2) carried down to the term
// level; records use width subtyping, covariant in their fields: left
// must have every field of right. An open left record is rejected
// against a closed right record with a different field count; row
// variables are not unified.
// oracle is passed through to Entail for the Refinement case (§4.3.2);
// it may be nil, in which case only the built-in entailment fragment is
// available.
func Subtype(reg *types.Registry, ks *kinds.System, oracle *smt.Bridge, s Subst, left, right types.Handle) (Subst, error) {
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

	if _, ok := lt.(types.TVar); ok {
		return Unify(reg, ks, s, left, right)
	}
	if _, ok := rt.(types.TVar); ok {
		return Unify(reg, ks, s, left, right)
	}

	switch lt := lt.(type) {
	case types.Func:
		rt, ok := rt.(types.Func)
		if !ok || len(lt.Params) != len(rt.Params) {
			return s, notSubtype(left, right)
		}
		// Contravariant parameters: the right's parameter type must be a
		// subtype of the left's.
		for i := range lt.Params {
			var err error
			s, err = Subtype(reg, ks, oracle, s, rt.Params[i], lt.Params[i])
			if err != nil {
				return s, err
			}
		}
		return Subtype(reg, ks, oracle, s, lt.Return, rt.Return)
	case types.Record:
		rt, ok := rt.(types.Record)
		if !ok {
			return s, notSubtype(left, right)
		}
		for name, rh := range rt.Fields {
			lh, ok := lt.Fields[name]
			if !ok {
				return s, notSubtype(left, right)
			}
			var err error
			s, err = Subtype(reg, ks, oracle, s, lh, rh)
			if err != nil {
				return s, err
			}
		}
		if rt.Row == nil && lt.Row != nil && len(lt.Fields) != len(rt.Fields) {
			return s, notSubtype(left, right)
		}
		return s, nil
	case types.Refinement:
		// {x:B|P} <: {x:B'|Q} iff B<:B' and P entails Q (§4.3.2); a
		// refinement is also a subtype of its own base type by erasure
		// when the right side isn't itself a refinement.
		if rrt, ok := rt.(types.Refinement); ok {
			next, err := Subtype(reg, ks, oracle, s, lt.Base, rrt.Base)
			if err != nil {
				return s, err
			}
			goal := rrt.Predicate
			if rrt.BoundName != lt.BoundName {
				renamed, err := reg.SubstitutePredicateVar(rrt.Predicate, rrt.BoundName, lt.BoundName)
				if err != nil {
					return s, err
				}
				goal = renamed
			}
			if err := Entail(reg, oracle, types.TLEnv{}, lt.Predicate, goal); err != nil {
				return s, err
			}
			return next, nil
		}
		if reg.IsStructurallyEqual(lt.Base, right) {
			return s, nil
		}
		return Subtype(reg, ks, oracle, s, lt.Base, right)
	case types.ResourceWrapped:
		rt, ok := rt.(types.ResourceWrapped)
		if ok && lt.Linearity == rt.Linearity {
			return Subtype(reg, ks, oracle, s, lt.Base, rt.Base)
		}
		// Unrestricted is never implied by a stricter wrapper without an
		// explicit unwrap: left must already be Unrestricted to compare
		// against an unwrapped right.
		if !ok && lt.Linearity == types.Unrestricted {
			return Subtype(reg, ks, oracle, s, lt.Base, right)
		}
		return s, notSubtype(left, right)
	default:
		next, err := Unify(reg, ks, s, left, right)
		if err != nil {
			return s, notSubtype(left, right)
		}
		return next, nil
	}
}

func notSubtype(left, right types.Handle) error {
	return diag.Wrap(diag.New(diag.CS002, diag.Error, "constraint-solver",
		fmt.Sprintf("%s is not a subtype of %s", left.String(), right.String())).
		WithData("left", left.String()).WithData("right", right.String()))
}
