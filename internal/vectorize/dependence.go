package vectorize

import (
	"github.com/menchan-Rub/SwiftLight-sub003/internal/analysis"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/ir"
)

// FilterByDependence runs phase 2 (§4.5 "Dependence check"): a
// candidate is rejected if its array base is flagged by the
// MemoryDependency pass as having both a store and a load in the
// function, or if MemoryAccessPattern could not classify its access as
// unit stride. DetectCandidates ran only Loop and InductionVariable (and
// their dependencies ControlFlow, Reachability and DataFlow), so
// MemoryDependency (with Alias) and MemoryAccessPattern are computed
// here, reusing the cached Loop and DataFlow results.
func FilterByDependence(m *analysis.Manager, fn *ir.Function, cands []Candidate) ([]Candidate, error) {
	memRes, err := m.Run(analysis.MemoryDependency, fn)
	if err != nil {
		return nil, err
	}
	patRes, err := m.Run(analysis.MemoryAccessPattern, fn)
	if err != nil {
		return nil, err
	}
	flagged, _ := memRes.Data["flaggedBases"].([]string)
	flaggedSet := make(map[string]bool, len(flagged))
	for _, b := range flagged {
		flaggedSet[b] = true
	}
	patterns, _ := patRes.Data["patterns"].(map[string]string)

	var out []Candidate
	for _, c := range cands {
		if flaggedSet[c.ArrayBase] {
			continue
		}
		if c.OutputBase != "" && flaggedSet[c.OutputBase] {
			continue
		}
		if patterns[c.Header] != "stride1" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
