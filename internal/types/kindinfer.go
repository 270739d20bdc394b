package types

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/typeid"
)

// InferKind implements the Kind System's infer_kind(handle) ->
// kind_or_error contract (§4.2): every ground term (primitive,
// function, tuple, record, array, ref, dependent function, refinement,
// meta, resource wrapper) has kind *; a type variable carries its own
// declared kind; a quantifier has the kind of its body; a named generic
// application looks up the constructor's declared kind in ks and
// eliminates one arrow per argument via ApplyConstructor, and a
// higher-kinded application does the same over the constructor term's
// own inferred kind rather than a name lookup. It lives here, not in
// internal/kinds, because it must walk the Term sum — internal/kinds
// cannot import internal/types without a cycle (types already imports
// kinds for TVar.Kind and Quantifier/DependentFunc's BoundKind), so
// kinds.System stays a pure kind-term engine and this is the one place
// that drives it against resolved terms.
func InferKind(reg *Registry, ks *kinds.System, h typeid.Handle) (kinds.Kind, error) {
	t, err := reg.Resolve(h)
	if err != nil {
		return nil, err
	}
	switch t := t.(type) {
	case Primitive, Func, Tuple, Record, Array, Ref, DependentFunc, Refinement, Meta, ResourceWrapped:
		return kinds.StarKind, nil
	case TVar:
		return t.Kind, nil
	case Quantifier:
		return InferKind(reg, ks, t.Body)
	case Named:
		return inferConstructorKind(reg, ks, t.Name, t.Args)
	case HKApp:
		ctorKind, err := InferKind(reg, ks, t.Ctor)
		if err != nil {
			return nil, err
		}
		return applyArgs(reg, ks, ctorKind, t.Args)
	default:
		return nil, diag.Wrap(diag.New(diag.KD001, diag.Fatal, "kind-system",
			fmt.Sprintf("infer_kind: unrecognized term %T", t)))
	}
}

// inferConstructorKind looks up name's declared kind and eliminates one
// arrow per argument in args, reporting KD005 when the name was never
// declared (a bare, non-generic name with no declaration defaults to *,
// matching a primitive-like nullary constructor).
func inferConstructorKind(reg *Registry, ks *kinds.System, name string, args []typeid.Handle) (kinds.Kind, error) {
	declared, ok := ks.Declared(name)
	if !ok {
		if len(args) == 0 {
			return kinds.StarKind, nil
		}
		return nil, diag.Wrap(diag.New(diag.KD005, diag.Error, "kind-system",
			fmt.Sprintf("infer_kind: reference to undeclared type constructor %q", name)).
			WithData("constructor", name))
	}
	return applyArgs(reg, ks, declared, args)
}

func applyArgs(reg *Registry, ks *kinds.System, ctor kinds.Kind, args []typeid.Handle) (kinds.Kind, error) {
	if len(args) == 0 {
		return ctor, nil
	}
	argKinds := make([]kinds.Kind, len(args))
	for i, arg := range args {
		ak, err := InferKind(reg, ks, arg)
		if err != nil {
			return nil, err
		}
		argKinds[i] = ak
	}
	return ks.ApplyConstructor(ctor, argKinds)
}
