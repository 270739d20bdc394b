// Package resource implements the resource descriptor and tracker
// backing linear/affine constraint checking (§3.1, §4.3.4). A fresh
// resource is allocated for each binding of a linear/affine-typed
// value; the tracker enforces monotone state transitions and borrow
// exclusivity.
package resource

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
)

// Mode is a resource's usage discipline.
type Mode int

const (
	Unrestricted Mode = iota
	Linear
	Affine
	// Related marks a resource derived from a borrow of OwnerID.
	Related
)

func (m Mode) String() string {
	switch m {
	case Linear:
		return "Linear"
	case Affine:
		return "Affine"
	case Related:
		return "Related"
	default:
		return "Unrestricted"
	}
}

// State is a resource's lifecycle state. Transitions are monotone:
// Moved/Dropped never return to Unused/PartiallyUsed (§3.2).
type State int

const (
	Unused State = iota
	PartiallyUsed
	Moved
	Dropped
)

func (s State) String() string {
	switch s {
	case PartiallyUsed:
		return "PartiallyUsed"
	case Moved:
		return "Moved"
	case Dropped:
		return "Dropped"
	default:
		return "Unused"
	}
}

func (s State) terminal() bool { return s == Moved || s == Dropped }

// BorrowKind distinguishes shared from exclusive borrows.
type BorrowKind int

const (
	Shared BorrowKind = iota
	Exclusive
)

// Borrow records an outstanding borrow of a resource.
type Borrow struct {
	ID   string
	Kind BorrowKind
}

// Descriptor is a single resource's tracked state.
type Descriptor struct {
	ID       string
	Mode     Mode
	State    State
	OwnerID  string // set when Mode == Related
	Borrows  []Borrow
}

// Tracker owns the resource descriptors for a single compilation unit,
// scoped by an explicit scope stack rather than a global registry (§9
// redesign notes apply the same "own it explicitly" discipline used by
// the Type Registry).
type Tracker struct {
	c        *ctx.CompilationContext
	byID     map[string]*Descriptor
	scopes   []*scope
}

type scope struct {
	resourceIDs []string
}

// NewTracker creates an empty resource tracker.
func NewTracker(c *ctx.CompilationContext) *Tracker {
	return &Tracker{c: c, byID: make(map[string]*Descriptor)}
}

// PushScope opens a new lexical scope.
func (t *Tracker) PushScope() {
	t.scopes = append(t.scopes, &scope{})
}

// Allocate creates a fresh resource of the given mode in the innermost
// scope, returning its descriptor.
func (t *Tracker) Allocate(mode Mode) *Descriptor {
	d := &Descriptor{ID: t.c.NewResourceID(), Mode: mode, State: Unused}
	t.byID[d.ID] = d
	if n := len(t.scopes); n > 0 {
		t.scopes[n-1].resourceIDs = append(t.scopes[n-1].resourceIDs, d.ID)
	}
	return d
}

// Use consumes a resource, transitioning Unused -> Moved. A second use
// of an already-Moved/Dropped resource is the double-use error the
// linear checker must catch (§8 scenario 2, code CS004).
func (t *Tracker) Use(id string) error {
	d, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("unknown resource %s", id)
	}
	if d.State.terminal() {
		return diag.Wrap(diag.New(diag.CS004, diag.Error, "constraint-solver",
			fmt.Sprintf("resource %s used after it was already %s", id, d.State)).
			WithData("resource_id", id).WithData("prior_state", d.State.String()))
	}
	d.State = Moved
	return nil
}

// Borrow creates a derived resource borrowing from owner, transitioning
// the owner Unused -> PartiallyUsed. An exclusive borrow must not
// coexist with any other outstanding borrow; a shared borrow may
// coexist with other shared borrows but not an exclusive one (§3.2).
func (t *Tracker) Borrow(ownerID string, kind BorrowKind) (*Descriptor, error) {
	owner, ok := t.byID[ownerID]
	if !ok {
		return nil, fmt.Errorf("unknown resource %s", ownerID)
	}
	if owner.State.terminal() {
		return nil, diag.Wrap(diag.New(diag.CS006, diag.Error, "constraint-solver",
			fmt.Sprintf("cannot borrow resource %s: already %s", ownerID, owner.State)))
	}
	for _, b := range owner.Borrows {
		if kind == Exclusive || b.Kind == Exclusive {
			return nil, diag.Wrap(diag.New(diag.CS006, diag.Error, "constraint-solver",
				fmt.Sprintf("exclusive borrow conflict on resource %s", ownerID)).
				WithData("resource_id", ownerID))
		}
	}
	derived := t.Allocate(Related)
	derived.OwnerID = ownerID
	borrowID := t.c.NewResourceID()
	owner.Borrows = append(owner.Borrows, Borrow{ID: borrowID, Kind: kind})
	owner.State = PartiallyUsed
	return derived, nil
}

// ReleaseBorrow removes an outstanding borrow by id.
func (t *Tracker) ReleaseBorrow(ownerID, borrowID string) {
	owner, ok := t.byID[ownerID]
	if !ok {
		return
	}
	for i, b := range owner.Borrows {
		if b.ID == borrowID {
			owner.Borrows = append(owner.Borrows[:i], owner.Borrows[i+1:]...)
			break
		}
	}
}

// Drop explicitly finalizes a resource without a move.
func (t *Tracker) Drop(id string) {
	if d, ok := t.byID[id]; ok {
		d.State = Dropped
	}
}

// PopScope closes the innermost scope, checking that every Linear
// resource allocated in it reached Moved/Dropped and that no resource
// is PartiallyUsed with outstanding exclusive borrows (§3.2, §4.3.4).
func (t *Tracker) PopScope() []error {
	n := len(t.scopes)
	if n == 0 {
		return nil
	}
	s := t.scopes[n-1]
	t.scopes = t.scopes[:n-1]

	var errs []error
	for _, id := range s.resourceIDs {
		d := t.byID[id]
		if d.Mode == Linear && !d.State.terminal() {
			errs = append(errs, diag.Wrap(diag.New(diag.CS005, diag.Error, "constraint-solver",
				fmt.Sprintf("linear resource %s not consumed at scope exit (state=%s)", id, d.State)).
				WithData("resource_id", id)))
		}
		for _, b := range d.Borrows {
			if b.Kind == Exclusive {
				errs = append(errs, diag.Wrap(diag.New(diag.CS006, diag.Error, "constraint-solver",
					fmt.Sprintf("resource %s has an outstanding exclusive borrow at scope exit", id))))
			}
		}
	}
	return errs
}

// Get returns a tracked descriptor by id.
func (t *Tracker) Get(id string) (*Descriptor, bool) {
	d, ok := t.byID[id]
	return d, ok
}

// JoinStates requires that a resource's state is identical across every
// branch of a control-flow join (match/if), per §4.3.4.
func JoinStates(branches []State) (State, error) {
	if len(branches) == 0 {
		return Unused, fmt.Errorf("join of zero branches")
	}
	first := branches[0]
	for _, s := range branches[1:] {
		if s != first {
			return Unused, diag.Wrap(diag.New(diag.CS007, diag.Error, "constraint-solver",
				fmt.Sprintf("control-flow join has mismatched resource states: %s vs %s", first, s)))
		}
	}
	return first, nil
}
