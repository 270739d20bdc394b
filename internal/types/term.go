// Package types implements the Type Registry (C1): interning,
// identifier allocation, structural equality, and substitution
// primitives over the type term language of the specification. It
// generalizes the teacher's internal/types/types.go (a fixed sum of
// TVar/TCon/TFunc/TList/TTuple/TRecord) to the full term language:
// primitives, named/generic application, functions with effect rows,
// tuples, row-polymorphic records, arrays with optional dependent
// length, references, quantifiers, dependent functions, refinements,
// higher-kinded application, meta-types, and linearity-annotated
// resource wrappers.
package types

import (
	"fmt"
	"strings"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/typeid"
)

// Handle re-exports typeid.Handle for callers that only need the
// Registry's public surface.
type Handle = typeid.Handle

// Term is a tagged sum over the type term language. Every variant's
// substructure is expressed through already-interned Handles rather
// than embedded Terms, so that a Term's identity is determined by the
// Registry's hash-consing rather than by recursive structural walks at
// every comparison site.
type Term interface {
	String() string
	termTag() string
}

// PrimKind enumerates the primitive base types.
type PrimKind int

const (
	IntKind PrimKind = iota
	FloatKind
	BoolKind
	StringKind
	UnitKind
)

func (k PrimKind) String() string {
	switch k {
	case IntKind:
		return "Int"
	case FloatKind:
		return "Float"
	case BoolKind:
		return "Bool"
	case StringKind:
		return "String"
	case UnitKind:
		return "Unit"
	default:
		return "?prim"
	}
}

// Linearity marks a resource-annotated wrapper's usage discipline.
type Linearity int

const (
	Unrestricted Linearity = iota
	Linear
	Affine
)

func (l Linearity) String() string {
	switch l {
	case Linear:
		return "Linear"
	case Affine:
		return "Affine"
	default:
		return "Unrestricted"
	}
}

// Primitive is a base scalar/unit type.
type Primitive struct{ Kind PrimKind }

func (Primitive) termTag() string     { return "primitive" }
func (p Primitive) String() string    { return p.Kind.String() }

// Named is a named type or a generic application of a named
// constructor to type arguments (Args is empty for a bare name).
type Named struct {
	Name string
	Args []Handle
}

func (Named) termTag() string { return "named" }
func (n Named) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", n.Name, strings.Join(parts, ", "))
}

// Func is a function type: parameters, return type, and an effect row
// (effects are themselves Handles into effect-row terms, kept as a
// slice of labels here for direct inspection by the constraint solver).
type Func struct {
	Params  []Handle
	Return  Handle
	Effects []Handle
}

func (Func) termTag() string { return "func" }
func (f Func) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	effStr := ""
	if len(f.Effects) > 0 {
		eff := make([]string, len(f.Effects))
		for i, e := range f.Effects {
			eff[i] = e.String()
		}
		effStr = fmt.Sprintf(" ! {%s}", strings.Join(eff, ", "))
	}
	return fmt.Sprintf("(%s) -> %s%s", strings.Join(params, ", "), f.Return.String(), effStr)
}

// Tuple is a fixed-arity product type.
type Tuple struct{ Elements []Handle }

func (Tuple) termTag() string { return "tuple" }
func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// Record is a row-polymorphic record: a closed set of fields, and an
// optional open row variable handle allowing further fields (nil for a
// closed record).
type Record struct {
	Fields map[string]Handle
	Row    *Handle
}

func (Record) termTag() string { return "record" }
func (r Record) String() string {
	parts := make([]string, 0, len(r.Fields))
	for name, h := range r.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", name, h.String()))
	}
	row := ""
	if r.Row != nil {
		row = " | " + r.Row.String()
	}
	return fmt.Sprintf("{%s%s}", strings.Join(parts, ", "), row)
}

// Array is an array of Element, with an optional compile-time length
// expression (nil means the length is not statically tracked).
type Array struct {
	Element Handle
	Length  TLExpr
}

func (Array) termTag() string { return "array" }
func (a Array) String() string {
	if a.Length != nil {
		return fmt.Sprintf("[%s; %s]", a.Element.String(), a.Length.String())
	}
	return fmt.Sprintf("[%s]", a.Element.String())
}

// Ref is a reference to Target, with a mutability flag.
type Ref struct {
	Target  Handle
	Mutable bool
}

func (Ref) termTag() string { return "ref" }
func (r Ref) String() string {
	if r.Mutable {
		return "&mut " + r.Target.String()
	}
	return "&" + r.Target.String()
}

// TVar is a type variable: a unique id plus its kind.
type TVar struct {
	ID   uint64
	Kind kinds.Kind
}

func (TVar) termTag() string  { return "tvar" }
func (v TVar) String() string { return fmt.Sprintf("?t%d", v.ID) }

// Quantifier is a universal (Existential=false) or existential
// (Existential=true) quantifier binding BoundName of kind BoundKind
// over Body.
type Quantifier struct {
	Existential bool
	BoundName   string
	BoundKind   kinds.Kind
	Body        Handle
}

func (Quantifier) termTag() string { return "quantifier" }
func (q Quantifier) String() string {
	sym := "forall"
	if q.Existential {
		sym = "exists"
	}
	return fmt.Sprintf("%s %s:%s. %s", sym, q.BoundName, q.BoundKind.String(), q.Body.String())
}

// DependentFunc is a dependent function type: BoundName is in scope in
// Return (e.g. "(n: Int) -> Array<Int, n>").
type DependentFunc struct {
	BoundName string
	Param     Handle
	Return    Handle
}

func (DependentFunc) termTag() string { return "dependent-func" }
func (d DependentFunc) String() string {
	return fmt.Sprintf("(%s: %s) -> %s", d.BoundName, d.Param.String(), d.Return.String())
}

// Refinement is a base type carrying a logical predicate over BoundName
// (e.g. "{x: Int | x >= 0}").
type Refinement struct {
	BoundName string
	Base      Handle
	Predicate Predicate
}

func (Refinement) termTag() string { return "refinement" }
func (r Refinement) String() string {
	return fmt.Sprintf("{%s: %s | %s}", r.BoundName, r.Base.String(), r.Predicate.String())
}

// HKApp applies a higher-kinded type constructor term to argument
// terms, e.g. "Functor f" applied to a concrete f.
type HKApp struct {
	Ctor Handle
	Args []Handle
}

func (HKApp) termTag() string { return "hkapp" }
func (h HKApp) String() string {
	parts := make([]string, len(h.Args))
	for i, a := range h.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s", h.Ctor.String(), strings.Join(parts, " "))
}

// Meta is a type-of-type: the type of Of itself.
type Meta struct{ Of Handle }

func (Meta) termTag() string  { return "meta" }
func (m Meta) String() string { return fmt.Sprintf("Type<%s>", m.Of.String()) }

// ResourceWrapped annotates Base with a linearity mode for the linear/
// affine resource tracker.
type ResourceWrapped struct {
	Base      Handle
	Linearity Linearity
}

func (ResourceWrapped) termTag() string { return "resource" }
func (r ResourceWrapped) String() string {
	return fmt.Sprintf("%s<%s>", r.Linearity.String(), r.Base.String())
}
