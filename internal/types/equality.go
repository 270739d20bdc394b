package types

// renaming tracks the correspondence between bound names on the left
// and right sides of an equality check so that binders compare equal
// up to alpha-renaming: the bound variable of the right-hand side is
// treated as if renamed to match the left before recursing (§4.1
// Structural equality).
type renaming struct {
	leftToRight map[string]string
	rightToLeft map[string]string
}

func newRenaming() renaming {
	return renaming{leftToRight: map[string]string{}, rightToLeft: map[string]string{}}
}

func (ren renaming) bind(left, right string) renaming {
	next := renaming{
		leftToRight: make(map[string]string, len(ren.leftToRight)+1),
		rightToLeft: make(map[string]string, len(ren.rightToLeft)+1),
	}
	for k, v := range ren.leftToRight {
		next.leftToRight[k] = v
	}
	for k, v := range ren.rightToLeft {
		next.rightToLeft[k] = v
	}
	next.leftToRight[left] = right
	next.rightToLeft[right] = left
	return next
}

// resolveLeft returns what `name` (a free/bound reference on the left
// side) should be compared against on the right side.
func (ren renaming) resolveLeft(name string) (string, bool) {
	v, ok := ren.leftToRight[name]
	return v, ok
}

func (ren renaming) sameName(left, right string) bool {
	if mapped, ok := ren.resolveLeft(left); ok {
		return mapped == right
	}
	// Neither side is a bound name under this renaming: they must be
	// the same free name.
	if _, ok := ren.rightToLeft[right]; ok {
		return false
	}
	return left == right
}

func (r *Registry) equalTerms(a, b Term, ren renaming) bool {
	switch a := a.(type) {
	case Primitive:
		b, ok := b.(Primitive)
		return ok && a.Kind == b.Kind
	case Named:
		b, ok := b.(Named)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !r.IsStructurallyEqual(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case Func:
		b, ok := b.(Func)
		if !ok || len(a.Params) != len(b.Params) || len(a.Effects) != len(b.Effects) {
			return false
		}
		for i := range a.Params {
			if !r.IsStructurallyEqual(a.Params[i], b.Params[i]) {
				return false
			}
		}
		for i := range a.Effects {
			if !r.IsStructurallyEqual(a.Effects[i], b.Effects[i]) {
				return false
			}
		}
		return r.IsStructurallyEqual(a.Return, b.Return)
	case Tuple:
		b, ok := b.(Tuple)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !r.IsStructurallyEqual(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	case Record:
		b, ok := b.(Record)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for name, h := range a.Fields {
			oh, ok := b.Fields[name]
			if !ok || !r.IsStructurallyEqual(h, oh) {
				return false
			}
		}
		if (a.Row == nil) != (b.Row == nil) {
			return false
		}
		if a.Row != nil && !r.IsStructurallyEqual(*a.Row, *b.Row) {
			return false
		}
		return true
	case Array:
		b, ok := b.(Array)
		if !ok || !r.IsStructurallyEqual(a.Element, b.Element) {
			return false
		}
		if (a.Length == nil) != (b.Length == nil) {
			return false
		}
		if a.Length != nil && !r.equalTLExpr(a.Length, b.Length, ren) {
			return false
		}
		return true
	case Ref:
		b, ok := b.(Ref)
		return ok && a.Mutable == b.Mutable && r.IsStructurallyEqual(a.Target, b.Target)
	case TVar:
		b, ok := b.(TVar)
		return ok && a.ID == b.ID && a.Kind.Equals(b.Kind)
	case Quantifier:
		b, ok := b.(Quantifier)
		if !ok || a.Existential != b.Existential || !a.BoundKind.Equals(b.BoundKind) {
			return false
		}
		return r.equalUnderBinder(a.Body, b.Body, a.BoundName, b.BoundName, ren)
	case DependentFunc:
		b, ok := b.(DependentFunc)
		if !ok || !r.IsStructurallyEqual(a.Param, b.Param) {
			return false
		}
		return r.equalUnderBinder(a.Return, b.Return, a.BoundName, b.BoundName, ren)
	case Refinement:
		b, ok := b.(Refinement)
		if !ok || !r.IsStructurallyEqual(a.Base, b.Base) {
			return false
		}
		next := ren.bind(a.BoundName, b.BoundName)
		return r.equalPredicate(a.Predicate, b.Predicate, next)
	case HKApp:
		b, ok := b.(HKApp)
		if !ok || len(a.Args) != len(b.Args) || !r.IsStructurallyEqual(a.Ctor, b.Ctor) {
			return false
		}
		for i := range a.Args {
			if !r.IsStructurallyEqual(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case Meta:
		b, ok := b.(Meta)
		return ok && r.IsStructurallyEqual(a.Of, b.Of)
	case ResourceWrapped:
		b, ok := b.(ResourceWrapped)
		return ok && a.Linearity == b.Linearity && r.IsStructurallyEqual(a.Base, b.Base)
	default:
		return false
	}
}

// equalUnderBinder compares two handles that live under a single bound
// name on each side, by resolving both and comparing terms with the
// renaming extended for the binder scope. It special-cases the common
// pattern shared by Quantifier and DependentFunc.
func (r *Registry) equalUnderBinder(leftBody, rightBody Handle, leftName, rightName string, ren renaming) bool {
	lt, err1 := r.Resolve(leftBody)
	rt, err2 := r.Resolve(rightBody)
	if err1 != nil || err2 != nil {
		return false
	}
	next := ren.bind(leftName, rightName)
	return r.equalTerms(lt, rt, next)
}

func (r *Registry) equalTLExpr(a, b TLExpr, ren renaming) bool {
	switch a := a.(type) {
	case TLVar:
		b, ok := b.(TLVar)
		return ok && ren.sameName(a.Name, b.Name)
	case TLLitInt:
		b, ok := b.(TLLitInt)
		return ok && a.Value == b.Value
	case TLLitBool:
		b, ok := b.(TLLitBool)
		return ok && a.Value == b.Value
	case TLLitString:
		b, ok := b.(TLLitString)
		return ok && a.Value == b.Value
	case TLLitType:
		b, ok := b.(TLLitType)
		return ok && r.IsStructurallyEqual(a.Type, b.Type)
	case TLLitList:
		b, ok := b.(TLLitList)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !r.equalTLExpr(a.Elements[i], b.Elements[i], ren) {
				return false
			}
		}
		return true
	case TLBinOp:
		b, ok := b.(TLBinOp)
		return ok && a.Op == b.Op && r.equalTLExpr(a.Left, b.Left, ren) && r.equalTLExpr(a.Right, b.Right, ren)
	case TLCond:
		b, ok := b.(TLCond)
		return ok && r.equalTLExpr(a.Cond, b.Cond, ren) && r.equalTLExpr(a.Then, b.Then, ren) && r.equalTLExpr(a.Else, b.Else, ren)
	case TLLet:
		b, ok := b.(TLLet)
		if !ok || !r.equalTLExpr(a.Value, b.Value, ren) {
			return false
		}
		return r.equalTLExpr(a.Body, b.Body, ren.bind(a.Name, b.Name))
	case TLLambda:
		b, ok := b.(TLLambda)
		if !ok || !a.ParamKind.Equals(b.ParamKind) {
			return false
		}
		return r.equalTLExpr(a.Body, b.Body, ren.bind(a.Param, b.Param))
	case TLApp:
		b, ok := b.(TLApp)
		return ok && r.equalTLExpr(a.Fn, b.Fn, ren) && r.equalTLExpr(a.Arg, b.Arg, ren)
	default:
		return false
	}
}

func (r *Registry) equalPredicate(a, b Predicate, ren renaming) bool {
	switch a := a.(type) {
	case PredBool:
		b, ok := b.(PredBool)
		return ok && a.Value == b.Value
	case PredCompare:
		b, ok := b.(PredCompare)
		return ok && a.Op == b.Op && r.equalTLExpr(a.Left, b.Left, ren) && r.equalTLExpr(a.Right, b.Right, ren)
	case PredAnd:
		b, ok := b.(PredAnd)
		return ok && r.equalPredicate(a.Left, b.Left, ren) && r.equalPredicate(a.Right, b.Right, ren)
	case PredOr:
		b, ok := b.(PredOr)
		return ok && r.equalPredicate(a.Left, b.Left, ren) && r.equalPredicate(a.Right, b.Right, ren)
	case PredNot:
		b, ok := b.(PredNot)
		return ok && r.equalPredicate(a.Operand, b.Operand, ren)
	case PredForall:
		b, ok := b.(PredForall)
		return ok && a.Kind.Equals(b.Kind) && r.equalPredicate(a.Body, b.Body, ren.bind(a.Var, b.Var))
	case PredExists:
		b, ok := b.(PredExists)
		return ok && a.Kind.Equals(b.Kind) && r.equalPredicate(a.Body, b.Body, ren.bind(a.Var, b.Var))
	default:
		return false
	}
}
