package version

import (
	"fmt"
	"unicode"

	"github.com/crandex/crandex/intern"
)

// NameVersionConstraint (NVC) pairs an interned package name with a version
// constraint, e.g. the parsed form of "parent (>= 1.0)". Constraint alone
// can only ever express one (operator, version) bound; Upper is the
// upper-bound half of a two-sided range and is nil unless MergeConstraints
// combined a lower-bound constraint with an upper-bound one for the same
// name (see mergeBound in merge.go). A raw parse of a single DCF
// dependency entry never sets Upper, since DCF's own grammar has no
// syntax for a two-sided range in one entry.
type NameVersionConstraint struct {
	Name       intern.Ref
	Constraint Constraint
	Upper      *Constraint
}

// Key returns a comparable, by-value identity for (name, constraint) used
// to deduplicate NVCs in insertion-ordered sets (transitive closure).
type Key struct {
	Name     string
	Op       Operator
	V        Version
	HasUpper bool
	UpperOp  Operator
	UpperV   Version
}

func (nvc NameVersionConstraint) Key(in *intern.Interner) Key {
	k := Key{Name: in.String(nvc.Name), Op: nvc.Constraint.Operator, V: nvc.Constraint.Version}
	if nvc.Upper != nil {
		k.HasUpper = true
		k.UpperOp = nvc.Upper.Operator
		k.UpperV = nvc.Upper.Version
	}
	return k
}

// String renders the constraint(s) on nvc, e.g. ">= 1.0.0" or the two-sided
// ">= 1.0.0, <= 2.0.0".
func (nvc NameVersionConstraint) String() string {
	if nvc.Upper == nil {
		return nvc.Constraint.String()
	}
	return fmt.Sprintf("%s, %s", nvc.Constraint, nvc.Upper)
}

// ParseNameVersionConstraint parses a single "name" or "name (op version)"
// item, appending the name into in. Name must start with an ASCII letter;
// a missing parenthetical constraint defaults to Any().
func ParseNameVersionConstraint(in *intern.Interner, s string) (NameVersionConstraint, error) {
	p := &parser{s: s}
	p.skipWhitespace()

	name := p.expectFunc(isNameRune)
	if name == "" || !((name[0] >= 'A' && name[0] <= 'Z') || (name[0] >= 'a' && name[0] <= 'z')) {
		return NameVersionConstraint{}, fmt.Errorf("%w: %q", ErrInvalidNameFormat, s)
	}

	p.skipWhitespace()
	constraint := Any()
	if p.peekRune() == '(' {
		p.next() // consume '('
		inner := p.expectFunc(func(r rune, _ int) bool { return r != ')' })
		if p.next() != ')' {
			return NameVersionConstraint{}, fmt.Errorf("%w: unterminated constraint in %q", ErrInvalidOperator, s)
		}

		var err error
		constraint, err = ParseConstraint(inner)
		if err != nil {
			return NameVersionConstraint{}, err
		}
	}

	p.skipWhitespace()
	if p.peekRune() != eof {
		return NameVersionConstraint{}, fmt.Errorf("unexpected trailing input in %q: %q", s, p.s[p.pos:])
	}

	return NameVersionConstraint{Name: in.Append(name), Constraint: constraint}, nil
}

func isNameRune(r rune, i int) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return i > 0 && (r == '.' || r == '_' || r == '/' || r == '@' || r == '*' || r == '-')
}
