package ir

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
)

// Verify checks the SSA integrity invariants the spec requires after
// every transform that can break them (vectorization in particular,
// §8 scenario 3 "SSA verifier passes"): every block ends in exactly one
// terminator and no terminator appears mid-block, every branch/condbr/
// switch target names a block that exists in the function, and every
// non-terminator instruction with a Result produces a distinct SSA
// name within the function. A function with no blocks at all is
// AN004 (EmptyFunction), reported separately by the caller that
// constructs IR rather than by Verify, since Verify's job is checking
// a function that does exist.
func Verify(f *Function) []error {
	var errs []error
	seen := map[string]bool{}
	labels := map[string]bool{}
	for _, b := range f.Blocks {
		labels[b.Label] = true
	}

	for _, b := range f.Blocks {
		for i, ins := range b.Instructions {
			isLast := i == len(b.Instructions)-1
			if ins.Op.IsTerminator() && !isLast {
				errs = append(errs, diag.Wrap(diag.New(diag.AN006, diag.Error, "analysis-manager",
					fmt.Sprintf("block %q: terminator %s is not the last instruction", b.Label, ins.Op))))
			}
			if !ins.Op.IsTerminator() && isLast {
				errs = append(errs, diag.Wrap(diag.New(diag.AN006, diag.Error, "analysis-manager",
					fmt.Sprintf("block %q does not end in a terminator", b.Label))))
			}
			if ins.Result != "" {
				if seen[ins.Result] {
					errs = append(errs, diag.Wrap(diag.New(diag.AN006, diag.Error, "analysis-manager",
						fmt.Sprintf("SSA name %%%s assigned more than once", ins.Result))))
				}
				seen[ins.Result] = true
			}
			for _, op := range ins.Operands {
				if op.Kind == OperandBlockLabel && !labels[op.Text] {
					errs = append(errs, diag.Wrap(diag.New(diag.AN006, diag.Error, "analysis-manager",
						fmt.Sprintf("instruction %s references unknown block label %q", ins.Op, op.Text))))
				}
			}
		}
	}
	return errs
}

// NewFunctionOrEmptyError returns AN004 if f has no basic blocks, the
// boundary condition named in §8 "Empty function (no blocks): IR
// construction fails with EmptyFunction".
func NewFunctionOrEmptyError(f *Function) error {
	if len(f.Blocks) == 0 {
		return diag.Wrap(diag.New(diag.AN004, diag.Error, "analysis-manager",
			fmt.Sprintf("function %q has no basic blocks", f.Name)))
	}
	return nil
}
