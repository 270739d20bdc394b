package modgraph

import (
	"fmt"
	"sort"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/ctx"
	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
)

// Graph owns every loaded Module for one compilation unit, threaded
// through a CompilationContext the way every other core component
// avoids package-level globals (§9). Cycle information is recorded,
// not rejected: the specification's relaxed policy (a deliberate
// redesign from ailang's strict CycleError abort, see DESIGN.md) lets
// mutually-recursive modules load as long as name resolution within the
// cycle still succeeds.
type Graph struct {
	c       *ctx.CompilationContext
	modules map[string]*Module
	cycles  [][]string
}

// NewGraph creates an empty module graph.
func NewGraph(c *ctx.CompilationContext) *Graph {
	g := &Graph{c: c, modules: make(map[string]*Module)}
	c.StoreModuleTable("modgraph.modules", g.modules)
	return g
}

// LoadModule registers a module, erroring MR003 if the id is already
// loaded (duplicate module definition).
func (g *Graph) LoadModule(m *Module) error {
	if _, exists := g.modules[m.ID]; exists {
		return diag.Wrap(diag.New(diag.MR003, diag.Error, "module-resolver",
			fmt.Sprintf("module %q already loaded", m.ID)).WithData("module", m.ID))
	}
	g.modules[m.ID] = m
	return nil
}

// Module looks up a loaded module, reporting MR001 if absent.
func (g *Graph) Module(id string) (*Module, error) {
	m, ok := g.modules[id]
	if !ok {
		return nil, diag.Wrap(diag.New(diag.MR001, diag.Error, "module-resolver",
			fmt.Sprintf("module %q not found", id)).WithData("module", id))
	}
	return m, nil
}

// DetectCycles runs a DFS over the import graph from every loaded
// module, recording (not rejecting) every cycle found, generalizing the
// teacher's link/topo.go DFS (visited/inPath/cyclePath) to a
// non-aborting walk that records MR002 per discovered cycle instead of
// returning the first one as a fatal CycleError.
func (g *Graph) DetectCycles() []*diag.Report {
	visited := map[string]bool{}
	inPath := map[string]bool{}
	var path []string
	var reports []*diag.Report

	ids := make([]string, 0, len(g.modules))
	for id := range g.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var dfs func(id string)
	dfs = func(id string) {
		if visited[id] {
			return
		}
		if inPath[id] {
			cycleStart := 0
			for i, p := range path {
				if p == id {
					cycleStart = i
					break
				}
			}
			cycle := append(append([]string{}, path[cycleStart:]...), id)
			g.cycles = append(g.cycles, cycle)
			reports = append(reports, diag.New(diag.MR002, diag.Warning, "module-resolver",
				fmt.Sprintf("circular module dependency: %v", cycle)).WithData("cycle", cycle))
			return
		}
		m, ok := g.modules[id]
		if !ok {
			return
		}
		inPath[id] = true
		path = append(path, id)
		for _, imp := range m.Imports {
			dfs(imp.FromModule)
		}
		path = path[:len(path)-1]
		inPath[id] = false
		visited[id] = true
	}

	for _, id := range ids {
		dfs(id)
	}
	return reports
}

// Cycles returns every cycle recorded by the last DetectCycles call.
func (g *Graph) Cycles() [][]string { return g.cycles }

// TopoOrder returns modules in dependency-first order, best-effort in
// the presence of recorded cycles: a module participating in a cycle is
// emitted once all of its acyclic dependencies have been emitted, in
// the order DFS first reaches it (post-order), matching the teacher's
// "DFS post-order already gives us dependency order" approach.
func (g *Graph) TopoOrder() []string {
	visited := map[string]bool{}
	visiting := map[string]bool{}
	var order []string

	ids := make([]string, 0, len(g.modules))
	for id := range g.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var dfs func(id string)
	dfs = func(id string) {
		if visited[id] || visiting[id] {
			return
		}
		visiting[id] = true
		m, ok := g.modules[id]
		if ok {
			for _, imp := range m.Imports {
				dfs(imp.FromModule)
			}
		}
		visiting[id] = false
		visited[id] = true
		order = append(order, id)
	}
	for _, id := range ids {
		dfs(id)
	}
	return order
}
