package repo

import (
	"fmt"

	"github.com/crandex/crandex/version"
)

// indexEntry is one (version, row) pair. multiple holds more than one when
// a name repeats across stanzas (e.g. several versions mirrored from
// different origins).
type indexEntry struct {
	version version.Version
	row     int
}

// Index is a name -> row snapshot over a Repository, built once in O(N).
// A name maps to either exactly one entry or several; the single case is
// the overwhelming majority and is stored inline rather than as a
// one-element slice.
type Index struct {
	repo *Repository

	single   map[string]indexEntry
	multiple map[string][]indexEntry

	// generation pins the repo.generation this Index was built from; it
	// is compared back against repo.generation to detect a Repository
	// mutated since the snapshot was taken (see stale).
	generation int
}

// newIndex builds an Index from the current state of repo. The Index
// borrows repo's Interner and columns; it does not own any strings. The
// Index is invalidated by any subsequent Read on repo.
func newIndex(repo *Repository) *Index {
	idx := &Index{
		repo:       repo,
		single:     make(map[string]indexEntry),
		generation: repo.generation,
	}

	for row, ref := range repo.names {
		name := repo.in.String(ref)
		entry := indexEntry{version: repo.versions[row], row: row}

		if existing, ok := idx.single[name]; ok {
			delete(idx.single, name)
			idx.ensureMultiple()
			idx.multiple[name] = []indexEntry{existing, entry}
			continue
		}
		if entries, ok := idx.multiple[name]; ok {
			idx.multiple[name] = append(entries, entry)
			continue
		}
		idx.single[name] = entry
	}

	return idx
}

func (idx *Index) ensureMultiple() {
	if idx.multiple == nil {
		idx.multiple = make(map[string][]indexEntry)
	}
}

// satisfiedBy reports whether any row under name satisfies c.
func (idx *Index) satisfiedBy(name string, c version.Constraint) bool {
	if entry, ok := idx.single[name]; ok {
		return c.Satisfied(entry.version)
	}
	for _, entry := range idx.multiple[name] {
		if c.Satisfied(entry.version) {
			return true
		}
	}
	return false
}

// Unsatisfied filters require down to the NVCs that no row in the index
// satisfies, preserving input order. Base and recommended names are
// always considered satisfied and are skipped.
func (idx *Index) Unsatisfied(require []version.NameVersionConstraint) []version.NameVersionConstraint {
	var out []version.NameVersionConstraint
	for _, nvc := range require {
		name := idx.repo.in.String(nvc.Name)
		if IsBaseOrRecommended(name) {
			continue
		}
		if !idx.satisfiedBy(name, nvc.Constraint) {
			out = append(out, nvc)
		}
	}
	return out
}

// stale reports whether repo has been mutated (via Read) since idx was
// built, meaning idx.single/multiple may be missing rows that Unmet would
// otherwise resolve roots or dependencies against.
func (idx *Index) stale() bool {
	return idx.repo.generation != idx.generation
}

// Unmet looks up rootName's latest row in the owning Repository and
// returns Unsatisfied applied to its depends ∪ imports ∪ linkingTo.
// Returns ErrInvalidState if repo has been mutated since idx was built:
// resolving rootName against the current Repository while checking
// satisfaction against a stale Index snapshot could otherwise report
// dependencies as unmet that a rebuilt Index would show as satisfied (or
// vice versa).
func (idx *Index) Unmet(rootName string) ([]version.NameVersionConstraint, error) {
	if idx.stale() {
		return nil, fmt.Errorf("%w: index built before a later Read on its Repository", ErrInvalidState)
	}

	root, ok := idx.repo.FindLatestPackage(rootName, version.Any())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rootName)
	}
	return idx.Unsatisfied(root.AllDependencies()), nil
}
