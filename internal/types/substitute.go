package types

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
)

// freeNames collects the free type-level variable names mentioned in
// expr, used to detect whether substituting expr under a binder would
// capture that binder's name.
func freeNames(expr TLExpr) map[string]bool {
	out := map[string]bool{}
	var walk func(TLExpr, map[string]bool)
	walk = func(e TLExpr, bound map[string]bool) {
		switch e := e.(type) {
		case TLVar:
			if !bound[e.Name] {
				out[e.Name] = true
			}
		case TLLitList:
			for _, el := range e.Elements {
				walk(el, bound)
			}
		case TLBinOp:
			walk(e.Left, bound)
			walk(e.Right, bound)
		case TLCond:
			walk(e.Cond, bound)
			walk(e.Then, bound)
			walk(e.Else, bound)
		case TLLet:
			walk(e.Value, bound)
			inner := cloneSet(bound)
			inner[e.Name] = true
			walk(e.Body, inner)
		case TLLambda:
			inner := cloneSet(bound)
			inner[e.Param] = true
			walk(e.Body, inner)
		case TLApp:
			walk(e.Fn, bound)
			walk(e.Arg, bound)
		}
	}
	walk(expr, map[string]bool{})
	return out
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func (r *Registry) freshBoundName(base string) string {
	return fmt.Sprintf("%s$%d", base, r.c.NextID())
}

// substituteTLExpr performs capture-avoiding substitution of `name` by
// `repl` inside e.
func (r *Registry) substituteTLExpr(e TLExpr, name string, repl TLExpr) (TLExpr, error) {
	switch e := e.(type) {
	case TLVar:
		if e.Name == name {
			return repl, nil
		}
		return e, nil
	case TLLitInt, TLLitBool, TLLitString, TLLitType:
		return e, nil
	case TLLitList:
		out := make([]TLExpr, len(e.Elements))
		for i, el := range e.Elements {
			sub, err := r.substituteTLExpr(el, name, repl)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return TLLitList{Elements: out}, nil
	case TLBinOp:
		left, err := r.substituteTLExpr(e.Left, name, repl)
		if err != nil {
			return nil, err
		}
		right, err := r.substituteTLExpr(e.Right, name, repl)
		if err != nil {
			return nil, err
		}
		return TLBinOp{Op: e.Op, Left: left, Right: right}, nil
	case TLCond:
		cond, err := r.substituteTLExpr(e.Cond, name, repl)
		if err != nil {
			return nil, err
		}
		then, err := r.substituteTLExpr(e.Then, name, repl)
		if err != nil {
			return nil, err
		}
		els, err := r.substituteTLExpr(e.Else, name, repl)
		if err != nil {
			return nil, err
		}
		return TLCond{Cond: cond, Then: then, Else: els}, nil
	case TLLet:
		value, err := r.substituteTLExpr(e.Value, name, repl)
		if err != nil {
			return nil, err
		}
		if e.Name == name {
			return TLLet{Name: e.Name, Value: value, Body: e.Body}, nil
		}
		boundName, body, err := r.renameBinderIfCaptured(e.Name, e.Body, repl)
		if err != nil {
			return nil, err
		}
		newBody, err := r.substituteTLExpr(body, name, repl)
		if err != nil {
			return nil, err
		}
		return TLLet{Name: boundName, Value: value, Body: newBody}, nil
	case TLLambda:
		if e.Param == name {
			return e, nil
		}
		boundName, body, err := r.renameBinderIfCaptured(e.Param, e.Body, repl)
		if err != nil {
			return nil, err
		}
		newBody, err := r.substituteTLExpr(body, name, repl)
		if err != nil {
			return nil, err
		}
		return TLLambda{Param: boundName, ParamKind: e.ParamKind, Body: newBody}, nil
	case TLApp:
		fn, err := r.substituteTLExpr(e.Fn, name, repl)
		if err != nil {
			return nil, err
		}
		arg, err := r.substituteTLExpr(e.Arg, name, repl)
		if err != nil {
			return nil, err
		}
		return TLApp{Fn: fn, Arg: arg}, nil
	default:
		return nil, diag.Wrap(diag.New(diag.TR002, diag.Fatal, "type-registry",
			fmt.Sprintf("invalid substitution target: unrecognized expression %T", e)))
	}
}

// renameBinderIfCaptured renames a binder's bound name (and all its
// free occurrences in body) to a fresh name when repl's free variables
// would otherwise be captured by that binder.
func (r *Registry) renameBinderIfCaptured(boundName string, body TLExpr, repl TLExpr) (string, TLExpr, error) {
	if !freeNames(repl)[boundName] {
		return boundName, body, nil
	}
	fresh := r.freshBoundName(boundName)
	renamed, err := r.substituteTLExpr(body, boundName, TLVar{Name: fresh})
	if err != nil {
		return "", nil, err
	}
	return fresh, renamed, nil
}

func (r *Registry) substitutePredicate(p Predicate, name string, repl TLExpr) (Predicate, error) {
	switch p := p.(type) {
	case PredBool:
		return p, nil
	case PredCompare:
		left, err := r.substituteTLExpr(p.Left, name, repl)
		if err != nil {
			return nil, err
		}
		right, err := r.substituteTLExpr(p.Right, name, repl)
		if err != nil {
			return nil, err
		}
		return PredCompare{Op: p.Op, Left: left, Right: right}, nil
	case PredAnd:
		left, err := r.substitutePredicate(p.Left, name, repl)
		if err != nil {
			return nil, err
		}
		right, err := r.substitutePredicate(p.Right, name, repl)
		if err != nil {
			return nil, err
		}
		return PredAnd{Left: left, Right: right}, nil
	case PredOr:
		left, err := r.substitutePredicate(p.Left, name, repl)
		if err != nil {
			return nil, err
		}
		right, err := r.substitutePredicate(p.Right, name, repl)
		if err != nil {
			return nil, err
		}
		return PredOr{Left: left, Right: right}, nil
	case PredNot:
		operand, err := r.substitutePredicate(p.Operand, name, repl)
		if err != nil {
			return nil, err
		}
		return PredNot{Operand: operand}, nil
	case PredForall:
		if p.Var == name {
			return p, nil
		}
		boundVar := p.Var
		body := p.Body
		if freeNames(repl)[boundVar] {
			fresh := r.freshBoundName(boundVar)
			renamedExpr, err := r.substitutePredicateVar(body, boundVar, fresh)
			if err != nil {
				return nil, err
			}
			boundVar, body = fresh, renamedExpr
		}
		newBody, err := r.substitutePredicate(body, name, repl)
		if err != nil {
			return nil, err
		}
		return PredForall{Var: boundVar, Kind: p.Kind, Body: newBody}, nil
	case PredExists:
		if p.Var == name {
			return p, nil
		}
		boundVar := p.Var
		body := p.Body
		if freeNames(repl)[boundVar] {
			fresh := r.freshBoundName(boundVar)
			renamedExpr, err := r.substitutePredicateVar(body, boundVar, fresh)
			if err != nil {
				return nil, err
			}
			boundVar, body = fresh, renamedExpr
		}
		newBody, err := r.substitutePredicate(body, name, repl)
		if err != nil {
			return nil, err
		}
		return PredExists{Var: boundVar, Kind: p.Kind, Body: newBody}, nil
	default:
		return nil, diag.Wrap(diag.New(diag.TR002, diag.Fatal, "type-registry",
			fmt.Sprintf("invalid substitution target: unrecognized predicate %T", p)))
	}
}

func (r *Registry) substitutePredicateVar(p Predicate, from, to string) (Predicate, error) {
	return r.substitutePredicate(p, from, TLVar{Name: to})
}

// SubstitutePredicateVar renames every free occurrence of from to to
// inside p, the public form of substitutePredicateVar used by callers
// outside this package (the constraint solver, to unify two
// refinements' bound names before checking entailment).
func (r *Registry) SubstitutePredicateVar(p Predicate, from, to string) (Predicate, error) {
	return r.substitutePredicateVar(p, from, to)
}

// renameHandleBinderIfCaptured is renameBinderIfCaptured's counterpart
// for a binder whose body is a Handle rather than a TLExpr (Quantifier
// and DependentFunc): it renames the binder and substitutes the fresh
// name through the interned body when repl would otherwise capture it.
func (r *Registry) renameHandleBinderIfCaptured(boundName string, body Handle, repl TLExpr) (string, Handle, error) {
	if !freeNames(repl)[boundName] {
		return boundName, body, nil
	}
	fresh := r.freshBoundName(boundName)
	renamed, err := r.Substitute(body, boundName, TLVar{Name: fresh})
	if err != nil {
		return "", 0, err
	}
	return fresh, renamed, nil
}

// substituteTerm performs capture-avoiding substitution of a bound name
// by a type-level expression inside a resolved term.
func (r *Registry) substituteTerm(t Term, name string, expr TLExpr) (Term, error) {
	switch t := t.(type) {
	case Primitive, TVar:
		return t, nil
	case Named:
		args, err := r.substituteHandles(t.Args, name, expr)
		if err != nil {
			return nil, err
		}
		return Named{Name: t.Name, Args: args}, nil
	case Func:
		params, err := r.substituteHandles(t.Params, name, expr)
		if err != nil {
			return nil, err
		}
		effects, err := r.substituteHandles(t.Effects, name, expr)
		if err != nil {
			return nil, err
		}
		ret, err := r.Substitute(t.Return, name, expr)
		if err != nil {
			return nil, err
		}
		return Func{Params: params, Return: ret, Effects: effects}, nil
	case Tuple:
		elems, err := r.substituteHandles(t.Elements, name, expr)
		if err != nil {
			return nil, err
		}
		return Tuple{Elements: elems}, nil
	case Record:
		fields := make(map[string]Handle, len(t.Fields))
		for k, h := range t.Fields {
			sh, err := r.Substitute(h, name, expr)
			if err != nil {
				return nil, err
			}
			fields[k] = sh
		}
		var row *Handle
		if t.Row != nil {
			sh, err := r.Substitute(*t.Row, name, expr)
			if err != nil {
				return nil, err
			}
			row = &sh
		}
		return Record{Fields: fields, Row: row}, nil
	case Array:
		elem, err := r.Substitute(t.Element, name, expr)
		if err != nil {
			return nil, err
		}
		var length TLExpr
		if t.Length != nil {
			length, err = r.substituteTLExpr(t.Length, name, expr)
			if err != nil {
				return nil, err
			}
		}
		return Array{Element: elem, Length: length}, nil
	case Ref:
		target, err := r.Substitute(t.Target, name, expr)
		if err != nil {
			return nil, err
		}
		return Ref{Target: target, Mutable: t.Mutable}, nil
	case Quantifier:
		if t.BoundName == name {
			return t, nil
		}
		boundName, body, err := r.renameHandleBinderIfCaptured(t.BoundName, t.Body, expr)
		if err != nil {
			return nil, err
		}
		newBody, err := r.Substitute(body, name, expr)
		if err != nil {
			return nil, err
		}
		return Quantifier{Existential: t.Existential, BoundName: boundName, BoundKind: t.BoundKind, Body: newBody}, nil
	case DependentFunc:
		param, err := r.Substitute(t.Param, name, expr)
		if err != nil {
			return nil, err
		}
		if t.BoundName == name {
			return DependentFunc{BoundName: t.BoundName, Param: param, Return: t.Return}, nil
		}
		boundName, ret, err := r.renameHandleBinderIfCaptured(t.BoundName, t.Return, expr)
		if err != nil {
			return nil, err
		}
		newRet, err := r.Substitute(ret, name, expr)
		if err != nil {
			return nil, err
		}
		return DependentFunc{BoundName: boundName, Param: param, Return: newRet}, nil
	case Refinement:
		base, err := r.Substitute(t.Base, name, expr)
		if err != nil {
			return nil, err
		}
		if t.BoundName == name {
			return Refinement{BoundName: t.BoundName, Base: base, Predicate: t.Predicate}, nil
		}
		boundName := t.BoundName
		pred := t.Predicate
		if freeNames(expr)[boundName] {
			fresh := r.freshBoundName(boundName)
			renamed, err := r.substitutePredicateVar(pred, boundName, fresh)
			if err != nil {
				return nil, err
			}
			boundName, pred = fresh, renamed
		}
		newPred, err := r.substitutePredicate(pred, name, expr)
		if err != nil {
			return nil, err
		}
		return Refinement{BoundName: boundName, Base: base, Predicate: newPred}, nil
	case HKApp:
		ctor, err := r.Substitute(t.Ctor, name, expr)
		if err != nil {
			return nil, err
		}
		args, err := r.substituteHandles(t.Args, name, expr)
		if err != nil {
			return nil, err
		}
		return HKApp{Ctor: ctor, Args: args}, nil
	case Meta:
		of, err := r.Substitute(t.Of, name, expr)
		if err != nil {
			return nil, err
		}
		return Meta{Of: of}, nil
	case ResourceWrapped:
		base, err := r.Substitute(t.Base, name, expr)
		if err != nil {
			return nil, err
		}
		return ResourceWrapped{Base: base, Linearity: t.Linearity}, nil
	default:
		return nil, diag.Wrap(diag.New(diag.TR002, diag.Fatal, "type-registry",
			fmt.Sprintf("invalid substitution target: unrecognized term %T", t)))
	}
}

func (r *Registry) substituteHandles(hs []Handle, name string, expr TLExpr) ([]Handle, error) {
	if hs == nil {
		return nil, nil
	}
	out := make([]Handle, len(hs))
	for i, h := range hs {
		sh, err := r.Substitute(h, name, expr)
		if err != nil {
			return nil, err
		}
		out[i] = sh
	}
	return out, nil
}
