// Package kinds implements the Kind System (C2): kind unification and
// higher-kinded type constructor application, over the kind term
// language of the specification — generalizing the teacher's
// internal/types/kinds.go (which only had Star/Row/Effect/Record) with
// an arrow kind, a dependent kind indexed by a type handle, and a
// unification variable. Kind inference over type terms is
// types.InferKind in internal/types, which drives this package.
package kinds

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/typeid"
)

// Kind is a tagged sum over the kind term language.
type Kind interface {
	kind()
	String() string
	Equals(Kind) bool
}

// Star is the kind of types ("*").
type Star struct{}

func (Star) kind()            {}
func (Star) String() string   { return "*" }
func (Star) Equals(o Kind) bool {
	_, ok := o.(Star)
	return ok
}

// Arrow is an arrow kind κ1 → κ2.
type Arrow struct {
	From Kind
	To   Kind
}

func (Arrow) kind() {}
func (a Arrow) String() string {
	return fmt.Sprintf("(%s -> %s)", a.From.String(), a.To.String())
}
func (a Arrow) Equals(o Kind) bool {
	oa, ok := o.(Arrow)
	if !ok {
		return false
	}
	return a.From.Equals(oa.From) && a.To.Equals(oa.To)
}

// Row is the kind of rows over element kind Elem.
type Row struct {
	Elem Kind
}

func (Row) kind()          {}
func (r Row) String() string { return "Row " + r.Elem.String() }
func (r Row) Equals(o Kind) bool {
	or, ok := o.(Row)
	if !ok {
		return false
	}
	return r.Elem.Equals(or.Elem)
}

// Effect is the kind of effect labels.
type Effect struct{}

func (Effect) kind()            {}
func (Effect) String() string   { return "Effect" }
func (Effect) Equals(o Kind) bool {
	_, ok := o.(Effect)
	return ok
}

// Dependent is a kind indexed by a type handle, e.g. the kind of
// "array of length n" where n ranges over values of the indexed type.
type Dependent struct {
	Index typeid.Handle
}

func (Dependent) kind() {}
func (d Dependent) String() string {
	return fmt.Sprintf("Dependent<%s>", d.Index.String())
}
func (d Dependent) Equals(o Kind) bool {
	od, ok := o.(Dependent)
	if !ok {
		return false
	}
	// Two dependent kinds unify/equal iff their indexing type handles
	// are equal (§4.2 Unification).
	return d.Index == od.Index
}

// Var is a kind unification variable carrying a unique integer,
// allocated from the compilation unit's single id allocator.
type Var struct {
	ID uint64
}

func (Var) kind()          {}
func (v Var) String() string { return fmt.Sprintf("?k%d", v.ID) }
func (v Var) Equals(o Kind) bool {
	ov, ok := o.(Var)
	if !ok {
		return false
	}
	return v.ID == ov.ID
}

// Common ground kinds.
var (
	StarKind   = Star{}
	EffectKind = Effect{}
	EffectRow  = Row{Elem: EffectKind}
)
