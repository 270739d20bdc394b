package analysis

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/ir"
)

// PassFunc computes one analysis result for one function. pc scopes
// result access to the pass's declared prerequisites (§4.5 "a pass may
// request only results from its declared prerequisites").
type PassFunc func(pc *PassContext, fn *ir.Function) (*Result, error)

// PassContext is the narrow view of the manager a running pass sees:
// its own kind, its declared dependency set, and the already-computed
// results for each dependency.
type PassContext struct {
	kind    Kind
	allowed map[Kind]bool
	results map[Kind]*Result
}

// Result returns the prerequisite result for k, or AN005 if k was not
// declared as a dependency of the running pass.
func (pc *PassContext) Result(k Kind) (*Result, error) {
	if !pc.allowed[k] {
		return nil, diag.Wrap(diag.New(diag.AN005, diag.Error, "analysis-manager",
			fmt.Sprintf("pass %s requested result %s outside its declared prerequisites", pc.kind, k)).
			WithData("pass", pc.kind.String()).WithData("requested", k.String()))
	}
	return pc.results[k], nil
}
