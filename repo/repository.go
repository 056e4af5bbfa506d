// Package repo implements the package Repository and Index: ingestion of
// DCF stanzas into a structure-of-arrays table, name/version lookups, and
// dependency-closure and install-ordering queries over it.
package repo

import (
	"fmt"
	"sort"

	"github.com/crandex/crandex/dcf"
	"github.com/crandex/crandex/intern"
	"github.com/crandex/crandex/version"
)

// Repository holds Package rows as parallel columns (structure-of-arrays)
// sharing a length invariant, plus the single Interner that owns every
// name referenced by any row. Repository is not safe for concurrent
// mutation; concurrent read-only queries after mutation has ceased are
// safe.
type Repository struct {
	in *intern.Interner

	names     []intern.Ref
	versions  []version.Version
	origins   []intern.Ref
	depends   [][]version.NameVersionConstraint
	suggests  [][]version.NameVersionConstraint
	imports   [][]version.NameVersionConstraint
	linkingTo [][]version.NameVersionConstraint

	lastErr    error
	generation int
}

// New returns an empty Repository.
func New() *Repository {
	return &Repository{}
}

// pendingPackage accumulates one stanza's recognized fields while Read
// walks the parser's flat AST; it is flushed into the Repository's columns
// on StanzaEnd.
type pendingPackage struct {
	name      intern.Ref
	version   version.Version
	depends   []version.NameVersionConstraint
	suggests  []version.NameVersionConstraint
	imports   []version.NameVersionConstraint
	linkingTo []version.NameVersionConstraint
}

// Read parses data as DCF text, appending one Package row per stanza under
// the given origin label. On a parse error the error is recorded (see
// LastError) and the package table is left unchanged. Read never
// decompresses gzip itself; callers feeding compressed PACKAGES files
// should route through the dcffile package first.
func (r *Repository) Read(origin string, data []byte) (int, error) {
	nodes, parserIn, err := dcf.NewParser(data).Parse()
	if err != nil {
		r.lastErr = err
		return 0, err
	}

	var base int
	if r.in == nil {
		r.in = parserIn
	} else {
		base = r.in.ClaimOther(parserIn)
	}
	originRef := r.in.Append(origin)

	count := 0
	fieldKey := ""
	var cur *pendingPackage

	for _, n := range nodes {
		switch n.Kind {
		case dcf.KindStanza:
			cur = &pendingPackage{}
		case dcf.KindField:
			fieldKey = n.Key
		case dcf.KindNameAndVersion:
			if cur == nil {
				continue
			}
			ref := intern.Rebase(n.Name, base)
			switch fieldKey {
			case "Package":
				cur.name = ref
			case "Version":
				if v, verr := version.Parse(r.in.String(ref)); verr == nil {
					cur.version = v
				}
			case "Depends":
				cur.depends = append(cur.depends, version.NameVersionConstraint{Name: ref, Constraint: n.Constraint})
			case "Suggests":
				cur.suggests = append(cur.suggests, version.NameVersionConstraint{Name: ref, Constraint: n.Constraint})
			case "Imports":
				cur.imports = append(cur.imports, version.NameVersionConstraint{Name: ref, Constraint: n.Constraint})
			case "LinkingTo":
				cur.linkingTo = append(cur.linkingTo, version.NameVersionConstraint{Name: ref, Constraint: n.Constraint})
			}
		case dcf.KindFieldEnd:
			fieldKey = ""
		case dcf.KindStanzaEnd:
			if cur == nil {
				continue
			}
			r.names = append(r.names, cur.name)
			r.versions = append(r.versions, cur.version)
			r.origins = append(r.origins, originRef)
			r.depends = append(r.depends, cur.depends)
			r.suggests = append(r.suggests, cur.suggests)
			r.imports = append(r.imports, cur.imports)
			r.linkingTo = append(r.linkingTo, cur.linkingTo)
			count++
			cur = nil
		}
	}

	if count > 0 {
		r.generation++
	}

	return count, nil
}

// LastError returns the most recently recorded parse error, if any.
func (r *Repository) LastError() error {
	return r.lastErr
}

// Interner returns the Repository's owned Interner. Names returned by
// queries (Package.Name, NVC.Name, Package.Origin) are only resolvable
// against this Interner.
func (r *Repository) Interner() *intern.Interner {
	return r.in
}

// Len returns the number of rows in the table.
func (r *Repository) Len() int {
	return len(r.names)
}

func (r *Repository) row(i int) Package {
	return Package{
		Name:      r.names[i],
		Version:   r.versions[i],
		Origin:    r.origins[i],
		Depends:   r.depends[i],
		Suggests:  r.suggests[i],
		Imports:   r.imports[i],
		LinkingTo: r.linkingTo[i],
	}
}

// Iter returns every row in append order.
func (r *Repository) Iter() []Package {
	out := make([]Package, r.Len())
	for i := range out {
		out[i] = r.row(i)
	}
	return out
}

// FindPackage returns every row named name whose version satisfies c, in
// append order, truncated to maxResults (0 or negative means unbounded).
func (r *Repository) FindPackage(name string, c version.Constraint, maxResults int) []Package {
	var out []Package
	for i, ref := range r.names {
		if r.in.String(ref) != name || !c.Satisfied(r.versions[i]) {
			continue
		}
		out = append(out, r.row(i))
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
	}
	return out
}

// FindLatestPackage returns the row named name with the greatest version
// satisfying c, or ok=false if no row matches.
func (r *Repository) FindLatestPackage(name string, c version.Constraint) (pkg Package, ok bool) {
	best := -1
	for i, ref := range r.names {
		if r.in.String(ref) != name || !c.Satisfied(r.versions[i]) {
			continue
		}
		if best == -1 || r.versions[i].GreaterThan(r.versions[best]) {
			best = i
		}
	}
	if best == -1 {
		return Package{}, false
	}
	return r.row(best), true
}

// CreateIndex takes an O(N) snapshot of the current table. The Index is
// invalidated by any subsequent mutation of r (contract: rebuild after
// Read).
func (r *Repository) CreateIndex() *Index {
	return newIndex(r)
}

// TransitiveDependencies walks depends ∪ imports ∪ linkingTo from the
// latest row matching (name, c), depth-first, returning an
// insertion-ordered, deduplicated snapshot. Every discovered name
// (including base and recommended ones) is resolved and walked; see
// TransitiveDependenciesNoBase for the variant used by practical dependency
// resolution against CRAN-shaped data, where base/recommended packages are
// assumed present and are not resolved further.
func (r *Repository) TransitiveDependencies(name string, c version.Constraint) ([]version.NameVersionConstraint, error) {
	return r.transitiveDependencies(name, c, false)
}

// TransitiveDependenciesNoBase is TransitiveDependencies except that a
// base or recommended package, once discovered, is not resolved further
// (its own dependencies are assumed already satisfied by the R
// installation) and is omitted from the returned set.
func (r *Repository) TransitiveDependenciesNoBase(name string, c version.Constraint) ([]version.NameVersionConstraint, error) {
	return r.transitiveDependencies(name, c, true)
}

func (r *Repository) transitiveDependencies(name string, c version.Constraint, noBase bool) ([]version.NameVersionConstraint, error) {
	root, ok := r.FindLatestPackage(name, c)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	seen := make(map[version.Key]struct{})
	var order []version.NameVersionConstraint

	stack := pushReversed(nil, root.AllDependencies())
	for len(stack) > 0 {
		nvc := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key := nvc.Key(r.in)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		order = append(order, nvc)

		depName := r.in.String(nvc.Name)
		if noBase && IsBaseOrRecommended(depName) {
			continue
		}

		pkg, ok := r.FindLatestPackage(depName, nvc.Constraint)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, depName)
		}
		stack = pushReversed(stack, pkg.AllDependencies())
	}

	if !noBase {
		return order, nil
	}

	filtered := make([]version.NameVersionConstraint, 0, len(order))
	for _, nvc := range order {
		if !IsBaseOrRecommended(r.in.String(nvc.Name)) {
			filtered = append(filtered, nvc)
		}
	}
	return filtered, nil
}

// pushReversed appends items onto stack in reverse order, so that popping
// from the end of stack yields items in their original order — the usual
// trick for turning a recursive left-to-right DFS into an explicit-stack
// one.
func pushReversed(stack []version.NameVersionConstraint, items []version.NameVersionConstraint) []version.NameVersionConstraint {
	for i := len(items) - 1; i >= 0; i-- {
		stack = append(stack, items[i])
	}
	return stack
}

// InstallOrder returns subset ordered so that every dependency of a
// package that is itself present in subset precedes it, tie-broken by
// name. Dependencies outside subset are not considered (the caller is
// expected to have already resolved those). Returns ErrCyclicDependencies
// if subset contains a cycle.
func (r *Repository) InstallOrder(subset []Package) ([]Package, error) {
	byName := make(map[string]Package, len(subset))
	for _, p := range subset {
		byName[r.in.String(p.Name)] = p
	}

	indegree := make(map[string]int, len(byName))
	dependents := make(map[string][]string)
	for name := range byName {
		indegree[name] = 0
	}
	for name, p := range byName {
		for _, dep := range p.AllDependencies() {
			depName := r.in.String(dep.Name)
			if _, ok := byName[depName]; !ok {
				continue
			}
			dependents[depName] = append(dependents[depName], name)
			indegree[name]++
		}
	}

	var ready []string
	for name, d := range indegree {
		if d == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]Package, 0, len(byName))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, byName[name])

		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
		sort.Strings(ready)
	}

	if len(order) != len(byName) {
		return nil, ErrCyclicDependencies
	}
	return order, nil
}

// CalculateInstallationOrderAll applies InstallOrder to the full table.
func (r *Repository) CalculateInstallationOrderAll() ([]Package, error) {
	return r.InstallOrder(r.Iter())
}
