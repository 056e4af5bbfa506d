// Package orchestrate builds an install plan for a set of local source
// packages against one resolved external Repository: it generalizes a
// single project's install/export workflow to N local packages sharing a
// dependency resolution pass.
package orchestrate

import (
	"fmt"

	"github.com/crandex/crandex/repo"
	"github.com/crandex/crandex/version"
)

// BuildRule is one local package's position in the plan: its install-order
// slot plus the external (non-local) dependencies it needs resolved
// against the upstream repository.
type BuildRule struct {
	Package  repo.Package
	External []version.NameVersionConstraint
}

// BuildPlan is the full result of Build: the local packages in install
// order, each annotated with its own external requirements, plus the
// deduplicated, merged requirement set across every local package —
// suitable for handing to a single resolver pass or exporting as a lock
// file.
type BuildPlan struct {
	Order    []BuildRule
	External []version.NameVersionConstraint
}

// Build takes local (a Repository whose rows are the DESCRIPTION stanzas
// of packages being built together, e.g. from a monorepo or a local
// package cache) and upstream (the resolved external repository used to
// classify a dependency as "external" vs. "local" and to compute each
// local package's transitive external closure), and returns a BuildPlan.
//
// A dependency whose name matches another row in local is treated as an
// in-plan edge for install ordering, not as an external requirement, even
// if it also happens to exist in upstream.
func Build(local, upstream *repo.Repository) (*BuildPlan, error) {
	subset := local.Iter()

	ordered, err := local.InstallOrder(subset)
	if err != nil {
		return nil, fmt.Errorf("ordering local packages: %w", err)
	}

	in := local.Interner()
	localNames := make(map[string]struct{}, len(subset))
	for _, p := range subset {
		localNames[in.String(p.Name)] = struct{}{}
	}

	rules := make([]BuildRule, 0, len(ordered))
	var allExternal []version.NameVersionConstraint

	for _, p := range ordered {
		var external []version.NameVersionConstraint
		for _, dep := range p.AllDependencies() {
			name := in.String(dep.Name)
			if _, isLocal := localNames[name]; isLocal {
				continue
			}
			if repo.IsBaseOrRecommended(name) {
				continue
			}

			closure, err := resolveExternal(upstream, name, dep.Constraint)
			if err != nil {
				return nil, fmt.Errorf("resolving %q for %q: %w", name, in.String(p.Name), err)
			}
			external = append(external, closure...)
			allExternal = append(allExternal, closure...)
		}

		rules = append(rules, BuildRule{Package: p, External: external})
	}

	// Every NVC collected into allExternal was produced by resolveExternal
	// against upstream, so all of their Name refs already resolve against
	// upstream's Interner: no re-interning needed before merging.
	mergedExternal, err := version.MergeConstraints(upstream.Interner(), allExternal)
	if err != nil {
		return nil, fmt.Errorf("merging external requirements: %w", err)
	}

	return &BuildPlan{Order: rules, External: mergedExternal}, nil
}

// resolveExternal returns name(constraint) itself plus its full
// no-base transitive closure against upstream.
func resolveExternal(upstream *repo.Repository, name string, c version.Constraint) ([]version.NameVersionConstraint, error) {
	closure, err := upstream.TransitiveDependenciesNoBase(name, c)
	if err != nil {
		return nil, err
	}

	root := version.NameVersionConstraint{
		Name:       upstream.Interner().Append(name),
		Constraint: c,
	}
	return append([]version.NameVersionConstraint{root}, closure...), nil
}
