package analysis

import (
	"fmt"
	"runtime"
	"time"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/config"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/ir"
)

// Manager is the Analysis & Optimization Manager (C5): it owns the
// declared catalog, the result cache, and the registered pass
// implementations, and is the sole mutator of its cache (§4.3
// "Shared resources"). One Manager serves one compilation unit.
type Manager struct {
	c       *ctx.CompilationContext
	cfg     config.AnalysisConfig
	catalog *Catalog
	cache   *Cache
	passes  map[Kind]PassFunc
}

// NewManager validates the catalog's dependency graph (AN001 aborts
// construction on a cycle, since a cyclic catalog is a configuration
// error the compilation unit cannot recover from) and returns a
// Manager with an empty pass table; call RegisterPass or
// RegisterDefaultPasses before Run.
func NewManager(c *ctx.CompilationContext, cfg config.AnalysisConfig, catalog *Catalog) (*Manager, error) {
	if err := catalog.DetectCycle(); err != nil {
		return nil, err
	}
	return &Manager{
		c:       c,
		cfg:     cfg,
		catalog: catalog,
		cache:   NewCache(),
		passes:  make(map[Kind]PassFunc),
	}, nil
}

// RegisterPass installs the implementation for kind, overwriting any
// prior registration.
func (m *Manager) RegisterPass(kind Kind, fn PassFunc) {
	m.passes[kind] = fn
}

// Cache exposes the manager's result cache for inspection (tests,
// diagnostics tooling); the manager remains its only mutator.
func (m *Manager) Cache() *Cache { return m.cache }

// Invalidate marks one (kind, function) cache entry stale. Most callers
// don't need to call this directly: Run already detects an IR mutation
// on its own via the per-kind content hash and recomputes (cascading to
// dependents) without an explicit invalidation call, matching how §8
// scenario 4 is phrased as "mutate the IR, then request" rather than
// "mutate the IR, invalidate, then request."
func (m *Manager) Invalidate(kind Kind, fn *ir.Function) {
	m.cache.Invalidate(kind, fn.Name)
}

// GetResult returns a cached, still-Completed result for kind without
// triggering a recompute, or (nil, false) if none is cached or the
// cached entry is stale/invalidated. This is the read-only half of the
// `get_result(kind) -> result_or_error` contract; Run is the half that
// may compute.
func (m *Manager) GetResult(kind Kind, fn *ir.Function) (*Result, bool) {
	entry, ok := m.catalog.Entry(kind)
	if !ok {
		return nil, false
	}
	cached, ok := m.cache.get(kind, fn.Name)
	if !ok || cached.result.Stats.State != Completed {
		return nil, false
	}
	if !m.isValid(entry, cached, fn) {
		return nil, false
	}
	return cached.result, true
}

// RunForLevel runs every analysis LevelTable declares for level against
// fn, in the table's listed order, stopping at the first error (a
// configuration error; a pass's own runtime failure lands in its
// Result.Stats.State instead, per §4.5's scheduling contract).
func (m *Manager) RunForLevel(level OptimizationLevel, fn *ir.Function) ([]*Result, error) {
	kinds := LevelTable()[level]
	results := make([]*Result, 0, len(kinds))
	for _, k := range kinds {
		r, err := m.Run(k, fn)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Run computes (or reuses a cached, still-valid) result for kind on fn,
// recursively ensuring every declared prerequisite is current first, in
// dependency order. Cancellation is checked before each pass execution,
// per §5 "a pass checks the cancellation token at statement
// granularity" — here approximated at pass granularity, the coarsest
// unit the manager itself schedules.
func (m *Manager) Run(kind Kind, fn *ir.Function) (*Result, error) {
	entry, ok := m.catalog.Entry(kind)
	if !ok {
		return nil, diag.Wrap(diag.New(diag.AN001, diag.Error, "analysis-manager",
			fmt.Sprintf("analysis kind %s is not registered in the catalog", kind)))
	}

	depResults := make(map[Kind]*Result, len(entry.Dependencies))
	for _, d := range entry.Dependencies {
		r, err := m.Run(d, fn)
		if err != nil {
			return nil, err
		}
		depResults[d] = r
	}

	if cached, ok := m.cache.get(kind, fn.Name); ok && cached.result.Stats.State == Completed {
		if m.isValid(entry, cached, fn) {
			return cached.result, nil
		}
	}

	if m.c.Cancelled() {
		return &Result{Kind: kind, Stats: Stats{State: Failed}}, nil
	}

	pass, ok := m.passes[kind]
	if !ok {
		return nil, diag.Wrap(diag.New(diag.AN001, diag.Error, "analysis-manager",
			fmt.Sprintf("no pass implementation registered for %s", kind)))
	}

	allowed := make(map[Kind]bool, len(entry.Dependencies))
	for _, d := range entry.Dependencies {
		allowed[d] = true
	}
	pc := &PassContext{kind: kind, allowed: allowed, results: depResults}

	result, err := m.execute(kind, pass, pc, fn)
	if err != nil {
		return nil, err
	}

	newEntry := &cacheEntry{result: result}
	if len(entry.Dependencies) == 0 {
		newEntry.irHash = m.hashFor(entry.Basis, fn)
	} else {
		versions := make(map[Kind]int, len(entry.Dependencies))
		for _, d := range entry.Dependencies {
			versions[d] = m.cache.version(d, fn.Name)
		}
		newEntry.depVersions = versions
	}
	m.cache.put(kind, fn.Name, newEntry)
	return result, nil
}

// isValid decides whether a cached entry is still usable for fn: a
// root kind is valid while its basis-appropriate IR hash is unchanged;
// a dependent kind is valid while every prerequisite's version counter
// matches what was recorded when this entry was computed.
func (m *Manager) isValid(entry CatalogEntry, cached *cacheEntry, fn *ir.Function) bool {
	if len(entry.Dependencies) == 0 {
		return cached.irHash == m.hashFor(entry.Basis, fn)
	}
	for _, d := range entry.Dependencies {
		if cached.depVersions[d] != m.cache.version(d, fn.Name) {
			return false
		}
	}
	return true
}

func (m *Manager) hashFor(basis HashBasis, fn *ir.Function) string {
	if basis == HashControl {
		return fn.ControlHash()
	}
	return fn.ContentHash()
}

// execute runs one pass with time/memory limit enforcement, degrading
// to TimedOut (AN002) or MemoryLimitExceeded (AN003) as non-fatal
// warnings rather than failing the whole run, per §4.5 "Statistics."
func (m *Manager) execute(kind Kind, pass PassFunc, pc *PassContext, fn *ir.Function) (*Result, error) {
	limit := m.cfg.DefaultTimeLimit
	if limit <= 0 {
		limit = config.Default().Analysis.DefaultTimeLimit
	}

	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	start := time.Now()
	type outcome struct {
		result *Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := pass(pc, fn)
		done <- outcome{r, err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return &Result{Kind: kind, Stats: Stats{State: Failed, Start: start, End: time.Now()}}, o.err
		}
		if o.result == nil {
			o.result = &Result{Kind: kind}
		}
		o.result.Kind = kind
		o.result.Stats.Start = start
		o.result.Stats.End = time.Now()
		if o.result.Stats.State == NotRun {
			o.result.Stats.State = Completed
		}

		limitBytes := m.cfg.DefaultMemoryLimit
		if limitBytes <= 0 {
			limitBytes = config.Default().Analysis.DefaultMemoryLimit
		}
		var memAfter runtime.MemStats
		runtime.ReadMemStats(&memAfter)
		if delta := int64(memAfter.HeapAlloc) - int64(memBefore.HeapAlloc); delta > limitBytes {
			o.result.Stats.State = MemoryLimitExceeded
			o.result.Data = withWarning(o.result.Data, diag.New(diag.AN003, diag.Warning, "analysis-manager",
				fmt.Sprintf("pass %s exceeded its memory limit", kind)).WithData("pass", kind.String()))
		}
		return o.result, nil
	case <-time.After(limit):
		timedOut := &Result{Kind: kind, Stats: Stats{State: TimedOut, Start: start, End: time.Now()}}
		timedOut.Data = withWarning(nil, diag.New(diag.AN002, diag.Warning, "analysis-manager",
			fmt.Sprintf("pass %s exceeded its time limit", kind)).WithData("pass", kind.String()))
		return timedOut, nil
	}
}

// withWarning attaches a non-fatal diagnostic to a result's Data map
// under a reserved key, the way a timed-out or memory-limited pass
// surfaces its warning without failing the overall Run (§4.5
// "surfaces a non-fatal warning").
func withWarning(data map[string]any, rep *diag.Report) map[string]any {
	if data == nil {
		data = make(map[string]any)
	}
	data["warning"] = rep
	return data
}
