// Package vectorize implements the flagship optimization of the
// Analysis & Optimization Manager (C5): the six-phase loop vectorizer
// described in §4.5 — candidate detection, dependence checking,
// sequence identification, width selection, the guard/vector/scalar-
// epilogue transform, and a post-transform SSA integrity check. It has
// no teacher analogue (ailang never lowers to a vectorizable SSA IR),
// so its shape follows this module's own internal/analysis and
// internal/ir conventions: struct-of-fields phase results, the same
// PassContext-free direct-function-call style internal/analysis uses
// for its own passes, and internal/ir.Verify for the final integrity
// check.
package vectorize

import (
	"github.com/menchan-Rub/SwiftLight-sub003/internal/analysis"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/config"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/ir"
)

// Report summarizes one Vectorize call: which candidates were found,
// which survived the dependence check, and which were actually
// transformed (a candidate can fail sequence identification or width
// selection and be dropped after surviving the dependence check).
type Report struct {
	Candidates  []Candidate
	Transformed []string // header labels of loops actually vectorized
	// SideTable maps original names to the names that carry them after
	// the transform, maintained for every candidate detected — even ones
	// that end up not vectorized — per the Open Question decision
	// recorded in DESIGN.md, so analysis results computed before
	// vectorization stay attributable to something findable afterward.
	// Each candidate's header label has an entry (itself, or for a
	// vectorized loop the guard, vector and renamed scalar blocks), and a
	// vectorized loop's induction and accumulator registers map to the
	// vector registers that replace them. Other instructions keep their
	// SSA names in the scalar epilogue and get no entry.
	SideTable map[string][]string
}

// Vectorize runs all six phases against fn, mutating it in place for
// every loop that survives through the transform phase.
func Vectorize(m *analysis.Manager, cfg config.VectorizerConfig, fn *ir.Function) (*Report, error) {
	candidates, err := DetectCandidates(m, fn)
	if err != nil {
		return nil, err
	}

	report := &Report{SideTable: make(map[string][]string)}
	for _, c := range candidates {
		report.SideTable[c.Header] = []string{c.Header}
	}

	candidates, err = FilterByDependence(m, fn, candidates)
	if err != nil {
		return nil, err
	}
	report.Candidates = candidates

	minLen := cfg.MinSequenceLength
	if minLen <= 0 {
		minLen = config.Default().Vectorizer.MinSequenceLength
	}
	widths := cfg.Widths
	if len(widths) == 0 {
		widths = config.Default().Vectorizer.Widths
	}

	for _, c := range candidates {
		runs := IdentifySequences(c, fn, minLen)
		if len(runs) == 0 {
			continue
		}
		_, lanes := SelectWidth(widths, c.ElementType)
		if lanes <= 1 {
			continue
		}
		produced, err := Transform(fn, c, lanes)
		if err != nil {
			return report, err
		}
		if produced == nil {
			continue
		}
		for orig, news := range produced {
			report.SideTable[orig] = news
		}
		report.Transformed = append(report.Transformed, c.Header)
	}

	if errs := ir.Verify(fn); len(errs) > 0 {
		return report, diag.Wrap(diag.New(diag.AN006, diag.Fatal, "analysis-manager",
			"SSA integrity check failed after vectorization").WithData("errors", errsToStrings(errs)))
	}
	return report, nil
}

func errsToStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
