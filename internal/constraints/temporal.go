package constraints

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
)

// TemporalAutomaton is a finite labeled transition system over which
// safety (a forbidden state is unreachable) and invariance (a predicate
// holds in every reachable state) obligations are checked, grounding
// the Unified Constraint Solver's temporal fragment in plain
// breadth-first reachability rather than a full model checker, since
// the specification bounds this fragment to finite per-resource
// protocol automata rather than arbitrary LTL (§4.3.5).
type TemporalAutomaton struct {
	Start       string
	Transitions map[string][]string
}

func (a *TemporalAutomaton) reachable() map[string]bool {
	seen := map[string]bool{a.Start: true}
	queue := []string{a.Start}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, next := range a.Transitions[s] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// checkTemporal dispatches a temporal constraint: either a safety
// check (the named forbidden state must not be reachable, CS012) or an
// invariance check (every reachable state must satisfy Invariant,
// CS013, naming the first counterexample in sorted state-name order for
// determinism).
func checkTemporal(c Constraint) error {
	if c.Automaton == nil {
		return fmt.Errorf("temporal constraint missing automaton")
	}
	reached := c.Automaton.reachable()

	if c.Forbidden != "" {
		if reached[c.Forbidden] {
			return diag.Wrap(diag.New(diag.CS012, diag.Error, "constraint-solver",
				fmt.Sprintf("forbidden state %q is reachable from %q", c.Forbidden, c.Automaton.Start)).
				WithData("forbidden_state", c.Forbidden))
		}
		return nil
	}

	if c.Invariant != nil {
		states := make([]string, 0, len(reached))
		for s := range reached {
			states = append(states, s)
		}
		sortStrings(states)
		for _, s := range states {
			if !c.Invariant(s) {
				return diag.Wrap(diag.New(diag.CS013, diag.Error, "constraint-solver",
					fmt.Sprintf("invariant violated: reachable state %q does not satisfy the invariant", s)).
					WithData("counterexample_state", s))
			}
		}
	}
	return nil
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}
