package constraints

import (
	"github.com/menchan-Rub/SwiftLight-sub003/internal/resource"
)

// checkLinear dispatches a linear-resource constraint to the tracker.
// It never mutates Subst: linear checking operates on resource state,
// which is orthogonal to the type-equality substitution threaded
// through the rest of the worklist.
func checkLinear(res *resource.Tracker, c Constraint) error {
	switch c.Kind {
	case KindLinearUse:
		return res.Use(c.ResourceID)
	case KindLinearBorrow:
		_, err := res.Borrow(c.ResourceID, c.Borrow)
		return err
	case KindLinearJoin:
		_, err := resource.JoinStates(c.JoinStates)
		return err
	default:
		return nil
	}
}
