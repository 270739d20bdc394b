package modgraph

import (
	"fmt"
	"strings"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
)

// IsVisible decides whether a symbol declared in definingModule with
// visibility vis is visible from requestingModule. Public is always
// visible; Private only from the defining module itself; Internal from
// any module sharing the defining module's root path segment (its
// "module tree"); Protected from any module sharing the defining
// module's full path prefix up to the last path separator (its
// immediate package grouping, narrower than Internal).
func IsVisible(definingModule, requestingModule string, vis Visibility) bool {
	if definingModule == requestingModule {
		return true
	}
	switch vis {
	case Public:
		return true
	case Private:
		return false
	case Internal:
		return rootSegment(definingModule) == rootSegment(requestingModule)
	case Protected:
		return pathPrefix(definingModule) == pathPrefix(requestingModule)
	default:
		return false
	}
}

func rootSegment(moduleID string) string {
	if i := strings.Index(moduleID, "/"); i >= 0 {
		return moduleID[:i]
	}
	return moduleID
}

func pathPrefix(moduleID string) string {
	if i := strings.LastIndex(moduleID, "/"); i >= 0 {
		return moduleID[:i]
	}
	return moduleID
}

// ResolveSymbol looks up name in fromModule's own declared symbols
// first, then in every module it imports (honoring an import's Names
// filter when present), reporting MR007 if nothing matches and MR005 if
// more than one imported module provides the same unqualified name
// without the importer disambiguating via an alias.
func (g *Graph) ResolveSymbol(fromModuleID, name string) (*Module, Symbol, error) {
	from, err := g.Module(fromModuleID)
	if err != nil {
		return nil, Symbol{}, err
	}
	if s, ok := from.Iface.Lookup(name); ok {
		return from, s, nil
	}

	type candidate struct {
		mod *Module
		sym Symbol
	}
	var candidates []candidate

	for _, imp := range from.Imports {
		if imp.Alias != "" {
			// Aliased imports require qualified lookup; they never
			// contribute to unqualified resolution.
			continue
		}
		if len(imp.Names) > 0 {
			found := false
			for _, n := range imp.Names {
				if n == name {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		srcMod, ok := g.modules[imp.FromModule]
		if !ok {
			continue
		}
		s, ok := srcMod.Iface.Lookup(name)
		if !ok {
			continue
		}
		if !IsVisible(srcMod.ID, fromModuleID, s.Visibility) {
			return nil, Symbol{}, diag.Wrap(diag.New(diag.MR006, diag.Error, "module-resolver",
				fmt.Sprintf("symbol %q in module %q is %s, not visible from %q", name, srcMod.ID, s.Visibility, fromModuleID)).
				WithData("symbol", name).WithData("defining_module", srcMod.ID))
		}
		candidates = append(candidates, candidate{mod: srcMod, sym: s})
	}

	if len(candidates) == 0 {
		return nil, Symbol{}, diag.Wrap(diag.New(diag.MR007, diag.Error, "module-resolver",
			fmt.Sprintf("undefined symbol %q in module %q", name, fromModuleID)).
			WithData("symbol", name).WithData("module", fromModuleID))
	}
	if len(candidates) > 1 {
		srcs := make([]string, len(candidates))
		for i, c := range candidates {
			srcs[i] = c.mod.ID
		}
		return nil, Symbol{}, diag.Wrap(diag.New(diag.MR005, diag.Error, "module-resolver",
			fmt.Sprintf("ambiguous import of %q: provided by %v", name, srcs)).
			WithData("symbol", name).WithData("candidates", srcs))
	}
	return candidates[0].mod, candidates[0].sym, nil
}

// ResolveQualified resolves moduleAlias.name against fromModule's
// import list: moduleAlias must match either an import's Alias or the
// bare FromModule id, and the named symbol must exist and be visible.
func (g *Graph) ResolveQualified(fromModuleID, moduleAlias, name string) (*Module, Symbol, error) {
	from, err := g.Module(fromModuleID)
	if err != nil {
		return nil, Symbol{}, err
	}

	var target string
	for _, imp := range from.Imports {
		if imp.Alias == moduleAlias || (imp.Alias == "" && imp.FromModule == moduleAlias) {
			target = imp.FromModule
			break
		}
	}
	if target == "" {
		return nil, Symbol{}, diag.Wrap(diag.New(diag.MR001, diag.Error, "module-resolver",
			fmt.Sprintf("module %q not found (no import bound to alias %q in %q)", moduleAlias, moduleAlias, fromModuleID)))
	}

	targetMod, err := g.Module(target)
	if err != nil {
		return nil, Symbol{}, err
	}
	s, ok := targetMod.Iface.Lookup(name)
	if !ok {
		return nil, Symbol{}, diag.Wrap(diag.New(diag.MR004, diag.Error, "module-resolver",
			fmt.Sprintf("module %q does not export %q", target, name)).
			WithData("module", target).WithData("symbol", name))
	}
	if !IsVisible(target, fromModuleID, s.Visibility) {
		return nil, Symbol{}, diag.Wrap(diag.New(diag.MR006, diag.Error, "module-resolver",
			fmt.Sprintf("symbol %q in module %q is %s, not visible from %q", name, target, s.Visibility, fromModuleID)))
	}
	return targetMod, s, nil
}
