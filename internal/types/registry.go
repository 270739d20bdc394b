package types

import (
	"fmt"
	"sync"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/kinds"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/typeid"
)

// Registry is the Type Registry (C1): interning, identifier allocation,
// structural equality, and substitution over the type term language.
// It replaces the teacher's package-level type constructors with an
// explicit, per-compilation-unit owned structure (§9 "Global mutable
// registries" redesign flag) threaded by reference through every
// operation that needs to intern or resolve a type.
type Registry struct {
	c *ctx.CompilationContext

	mu       sync.Mutex
	byHandle map[typeid.Handle]Term
	byKey    map[string]typeid.Handle
	nextH    uint64

	// substCache memoizes substitute(handle, name, expr) pairs so that
	// repeated substitution with the same inputs returns the same
	// handle, per the Type Registry's contract.
	substCache map[substKey]typeid.Handle
}

type substKey struct {
	h    typeid.Handle
	name string
	expr string
}

// NewRegistry creates an empty registry bound to a compilation context.
func NewRegistry(c *ctx.CompilationContext) *Registry {
	return &Registry{
		c:          c,
		byHandle:   make(map[typeid.Handle]Term),
		byKey:      make(map[string]typeid.Handle),
		substCache: make(map[substKey]typeid.Handle),
	}
}

// Intern interns a term, returning a stable handle. Interning the same
// Go value twice returns the same handle (idempotence); structurally
// distinct terms always receive distinct handles.
func (r *Registry) Intern(t Term) typeid.Handle {
	key := fmt.Sprintf("%#v", t)

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.byKey[key]; ok {
		return h
	}
	r.nextH++
	h := typeid.Handle(r.nextH)
	r.byHandle[h] = t
	r.byKey[key] = h
	return h
}

// Resolve maps a handle back to its term. Resolution is total over
// handles this registry produced; an unknown handle signals the
// Internal-severity TR001 report (§4.1 Failure modes).
func (r *Registry) Resolve(h typeid.Handle) (Term, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byHandle[h]
	if !ok {
		return nil, diag.Wrap(diag.New(diag.TR001, diag.Fatal, "type-registry",
			fmt.Sprintf("resolve() called on unknown handle %s", h)))
	}
	return t, nil
}

// MustResolve resolves h, panicking on an unknown handle. It is used
// internally once a handle is known (by construction) to have been
// produced by this registry, mirroring the teacher's treatment of
// registry corruption as a fatal, non-recoverable condition rather
// than a propagated error in hot internal paths.
func (r *Registry) MustResolve(h typeid.Handle) Term {
	t, err := r.Resolve(h)
	if err != nil {
		panic(err)
	}
	return t
}

// FreshVariable allocates a new type variable of the given kind.
func (r *Registry) FreshVariable(k kinds.Kind) typeid.Handle {
	id := r.c.NextID()
	return r.Intern(TVar{ID: id, Kind: k})
}

// IsStructurallyEqual reports whether two handles resolve to
// structurally equal terms, up to alpha-equivalence of bound names in
// binders (quantifiers, dependent functions, refinements).
func (r *Registry) IsStructurallyEqual(h1, h2 typeid.Handle) bool {
	if h1 == h2 {
		return true
	}
	t1, err1 := r.Resolve(h1)
	t2, err2 := r.Resolve(h2)
	if err1 != nil || err2 != nil {
		return false
	}
	return r.equalTerms(t1, t2, newRenaming())
}

// Substitute replaces free occurrences of boundName with a type-level
// expression inside the term at h, performing capture-avoiding
// substitution (renaming inner binders when the substituted expression
// mentions a name they bind) and returns the handle of the resulting
// interned term. Substituting a variable for itself is the identity,
// per the idempotence property in §8.
func (r *Registry) Substitute(h typeid.Handle, boundName string, expr TLExpr) (typeid.Handle, error) {
	if v, ok := expr.(TLVar); ok && v.Name == boundName {
		return h, nil
	}

	key := substKey{h: h, name: boundName, expr: fmt.Sprintf("%#v", expr)}
	r.mu.Lock()
	if cached, ok := r.substCache[key]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	t, err := r.Resolve(h)
	if err != nil {
		return typeid.Invalid, err
	}
	result, err := r.substituteTerm(t, boundName, expr)
	if err != nil {
		return typeid.Invalid, err
	}
	out := r.Intern(result)

	r.mu.Lock()
	r.substCache[key] = out
	r.mu.Unlock()
	return out, nil
}
