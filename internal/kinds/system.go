package kinds

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
)

// System implements the unification/arity/subkinding half of the Kind
// System's contract (§4.2): unify_kinds, apply_constructor, and
// subkinding. Kind inference over type terms (types.InferKind,
// implementing infer_kind) lives in internal/types since it must walk
// the Term sum; keeping it there avoids a kinds<->types import cycle
// (types.TVar carries a Kind, and Dependent is indexed by a
// types.Handle) while System itself stays a pure kind-term engine,
// matching the "locally-owned structure" redesign note in §9 rather
// than a shared mutable cache.
type System struct {
	c     *ctx.CompilationContext
	subst map[uint64]Kind
	decls map[string]Kind
}

// NewSystem creates a kind system bound to a compilation context for
// fresh variable allocation.
func NewSystem(c *ctx.CompilationContext) *System {
	return &System{
		c:     c,
		subst: make(map[uint64]Kind),
		decls: make(map[string]Kind),
	}
}

// Declare records a named type constructor's kind, consulted by
// ApplyConstructor and by infer_kind for generic applications.
func (s *System) Declare(name string, k Kind) {
	s.decls[name] = k
}

// Declared looks up a previously declared constructor's kind.
func (s *System) Declared(name string) (Kind, bool) {
	k, ok := s.decls[name]
	return k, ok
}

// Fresh allocates a new kind unification variable.
func (s *System) Fresh() Var {
	return Var{ID: s.c.NextID()}
}

// Apply resolves unification variables in k against the current
// substitution, recursively.
func (s *System) Apply(k Kind) Kind {
	switch k := k.(type) {
	case Var:
		if r, ok := s.subst[k.ID]; ok {
			return s.Apply(r)
		}
		return k
	case Arrow:
		return Arrow{From: s.Apply(k.From), To: s.Apply(k.To)}
	case Row:
		return Row{Elem: s.Apply(k.Elem)}
	default:
		return k
	}
}

// occurs reports whether variable id occurs free in k (after applying
// the current substitution), guarding unification against infinite
// kinds.
func (s *System) occurs(id uint64, k Kind) bool {
	switch k := s.Apply(k).(type) {
	case Var:
		return k.ID == id
	case Arrow:
		return s.occurs(id, k.From) || s.occurs(id, k.To)
	case Row:
		return s.occurs(id, k.Elem)
	default:
		return false
	}
}

// Unify performs first-order unification with occurs-check over kind
// terms (§4.2 Unification): variable against itself succeeds; variable
// against a non-variable kind not containing the variable binds it; two
// arrow kinds unify pairwise; two dependent kinds unify iff their
// indexing type handles are equal; mismatched shapes fail.
func (s *System) Unify(k1, k2 Kind) error {
	k1 = s.Apply(k1)
	k2 = s.Apply(k2)

	if v1, ok := k1.(Var); ok {
		if v2, ok := k2.(Var); ok && v1.ID == v2.ID {
			return nil
		}
		if s.occurs(v1.ID, k2) {
			return diag.Wrap(diag.New(diag.KD003, diag.Fatal, "kind-system",
				fmt.Sprintf("kind variable %s occurs in %s", v1, k2)))
		}
		s.subst[v1.ID] = k2
		return nil
	}
	if v2, ok := k2.(Var); ok {
		return s.Unify(v2, k1)
	}

	switch a := k1.(type) {
	case Star:
		if _, ok := k2.(Star); ok {
			return nil
		}
	case Effect:
		if _, ok := k2.(Effect); ok {
			return nil
		}
	case Dependent:
		if b, ok := k2.(Dependent); ok && a.Index == b.Index {
			return nil
		}
	case Arrow:
		if b, ok := k2.(Arrow); ok {
			if err := s.Unify(a.From, b.From); err != nil {
				return err
			}
			return s.Unify(a.To, b.To)
		}
	case Row:
		if b, ok := k2.(Row); ok {
			return s.Unify(a.Elem, b.Elem)
		}
	}
	return diag.Wrap(diag.New(diag.KD001, diag.Error, "kind-system",
		fmt.Sprintf("cannot unify kind %s with %s", k1, k2)))
}

// ApplyConstructor applies a constructor of kind κ1 → κ2 → … → κn → *
// to n arguments, requiring each argument's kind to unify with the
// corresponding κi and yielding the final kind.
func (s *System) ApplyConstructor(ctor Kind, args []Kind) (Kind, error) {
	result := s.Apply(ctor)
	for i, arg := range args {
		arrow, ok := result.(Arrow)
		if !ok {
			return nil, diag.Wrap(diag.New(diag.KD002, diag.Error, "kind-system",
				fmt.Sprintf("arity mismatch applying constructor: too many arguments (got %d, stopped at %d)", len(args), i)).
				WithData("expected_arity", i).WithData("given_arity", len(args)))
		}
		if err := s.Unify(arrow.From, arg); err != nil {
			return nil, err
		}
		result = s.Apply(arrow.To)
	}
	if _, stillArrow := result.(Arrow); stillArrow {
		return nil, diag.Wrap(diag.New(diag.KD002, diag.Error, "kind-system",
			"arity mismatch applying constructor: too few arguments"))
	}
	return result, nil
}

// Subkind decides arrow-kind variance (contravariant in the argument,
// covariant in the result), identity for ground kinds, and invariance
// for dependent kinds (§4.2 Subkinding).
func (s *System) Subkind(sub, super Kind) bool {
	sub, super = s.Apply(sub), s.Apply(super)
	switch a := sub.(type) {
	case Arrow:
		b, ok := super.(Arrow)
		if !ok {
			return false
		}
		return s.Subkind(b.From, a.From) && s.Subkind(a.To, b.To)
	case Dependent:
		b, ok := super.(Dependent)
		return ok && a.Index == b.Index
	default:
		return sub.Equals(super)
	}
}
