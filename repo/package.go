package repo

import (
	"github.com/crandex/crandex/intern"
	"github.com/crandex/crandex/version"
)

// Package is one DCF stanza resolved against a Repository's interner: a
// name and version plus its four dependency-bearing field lists. All
// interned fields (Name, Origin, and every NVC's Name) are only valid for
// the lifetime of the Repository that produced the Package.
type Package struct {
	Name    intern.Ref
	Version version.Version
	Origin  intern.Ref

	Depends   []version.NameVersionConstraint
	Suggests  []version.NameVersionConstraint
	Imports   []version.NameVersionConstraint
	LinkingTo []version.NameVersionConstraint
}

// AllDependencies returns Depends, Imports, and LinkingTo concatenated in
// that order — the set walked by transitive closure and by Unmet.
// Suggests is deliberately excluded: it is an optional, not a required,
// relationship.
func (p *Package) AllDependencies() []version.NameVersionConstraint {
	out := make([]version.NameVersionConstraint, 0, len(p.Depends)+len(p.Imports)+len(p.LinkingTo))
	out = append(out, p.Depends...)
	out = append(out, p.Imports...)
	out = append(out, p.LinkingTo...)
	return out
}
