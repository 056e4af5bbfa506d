package version

import (
	"fmt"

	"github.com/crandex/crandex/intern"
)

// MergeConstraints reduces a list of NVCs, possibly containing multiple
// constraints for the same name, to one NVC per name holding the
// strongest constraint consistent with all inputs for that name: the
// tighter lower bound in Constraint and, when the inputs also carry an
// upper bound, the tighter upper bound in Upper (a merge of "foo (>= 1.0)"
// and "foo (<= 2.0)" keeps both, it does not drop the upper bound). Order
// of first appearance is preserved. Returns ErrUnsatisfiableConstraint if
// two constraints on the same name contradict (e.g. "> 2" and "< 1").
func MergeConstraints(in *intern.Interner, items []NameVersionConstraint) ([]NameVersionConstraint, error) {
	order := make([]string, 0, len(items))
	byName := make(map[string]NameVersionConstraint, len(items))

	for _, item := range items {
		name := in.String(item.Name)
		existing, ok := byName[name]
		if !ok {
			existing = singleton(item.Name, item.Constraint)
			order = append(order, name)
		} else {
			merged, err := mergeBound(existing, item.Constraint)
			if err != nil {
				return nil, fmt.Errorf("merging constraints for %q: %w", name, err)
			}
			existing = merged
		}

		// item may itself already be a two-sided result of an earlier
		// merge (re-merging a previously merged list must stay
		// idempotent): fold its upper half in too, if present.
		if item.Upper != nil {
			merged, err := mergeBound(existing, *item.Upper)
			if err != nil {
				return nil, fmt.Errorf("merging constraints for %q: %w", name, err)
			}
			existing = merged
		}

		byName[name] = existing
	}

	out := make([]NameVersionConstraint, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out, nil
}

// singleton distributes a single raw constraint into the accumulator
// shape mergeBound expects: Constraint always holds a lower bound or an
// exact Equal pin, Upper holds an upper bound or nil. A bare upper-bound
// constraint (e.g. the first "foo (<= 2.0)" seen for a name) is stored as
// Any() with Upper set, rather than in Constraint, so later merges don't
// need to special-case which field an incoming raw bound belongs in.
func singleton(name intern.Ref, c Constraint) NameVersionConstraint {
	if isUpperBound(c.Operator) {
		upper := c
		return NameVersionConstraint{Name: name, Constraint: Any(), Upper: &upper}
	}
	return NameVersionConstraint{Name: name, Constraint: c}
}

func isLowerBound(op Operator) bool {
	return op == GreaterOrEqual || op == Greater
}

func isUpperBound(op Operator) bool {
	return op == LessOrEqual || op == Less
}

// mergeBound folds one more raw constraint next into the running
// accumulator existing (whose Constraint is always a lower bound or an
// Equal pin, and whose Upper is always an upper bound or nil — the
// invariant singleton and mergeBound itself maintain). Equal dominates
// everything: pinning to an exact version subsumes any range and a
// second, different pin is a contradiction. Otherwise next tightens
// whichever side it bounds, and is checked for consistency against the
// side it doesn't bound so a two-sided accumulator never contradicts
// itself; unlike a pairwise reduction, the non-bounding side's
// information is kept rather than discarded.
func mergeBound(existing NameVersionConstraint, next Constraint) (NameVersionConstraint, error) {
	switch {
	case existing.Constraint.Operator == Equal && next.Operator == Equal:
		if existing.Constraint.Version != next.Version {
			return NameVersionConstraint{}, fmt.Errorf("%w: %s vs %s", ErrUnsatisfiableConstraint, existing.Constraint, next)
		}
		return existing, nil
	case existing.Constraint.Operator == Equal:
		if !next.Satisfied(existing.Constraint.Version) {
			return NameVersionConstraint{}, fmt.Errorf("%w: %s vs %s", ErrUnsatisfiableConstraint, existing.Constraint, next)
		}
		return existing, nil
	case next.Operator == Equal:
		if !existing.Constraint.Satisfied(next.Version) {
			return NameVersionConstraint{}, fmt.Errorf("%w: %s vs %s", ErrUnsatisfiableConstraint, existing.Constraint, next)
		}
		if existing.Upper != nil && !existing.Upper.Satisfied(next.Version) {
			return NameVersionConstraint{}, fmt.Errorf("%w: %s vs %s", ErrUnsatisfiableConstraint, *existing.Upper, next)
		}
		return NameVersionConstraint{Name: existing.Name, Constraint: next}, nil
	}

	if isUpperBound(next.Operator) {
		if !next.Satisfied(existing.Constraint.Version) ||
			(existing.Constraint.Operator == Greater && existing.Constraint.Version == next.Version) {
			return NameVersionConstraint{}, fmt.Errorf("%w: %s vs %s", ErrUnsatisfiableConstraint, existing.Constraint, next)
		}
		newUpper := next
		if existing.Upper != nil {
			newUpper = tighterUpper(*existing.Upper, next)
		}
		existing.Upper = &newUpper
		return existing, nil
	}

	newLower := tighterLower(existing.Constraint, next)
	if existing.Upper != nil && (!existing.Upper.Satisfied(newLower.Version) ||
		(newLower.Operator == Greater && newLower.Version == existing.Upper.Version)) {
		return NameVersionConstraint{}, fmt.Errorf("%w: %s vs %s", ErrUnsatisfiableConstraint, *existing.Upper, newLower)
	}
	existing.Constraint = newLower
	return existing, nil
}

func tighterLower(a, b Constraint) Constraint {
	switch cmp := Compare(a.Version, b.Version); {
	case cmp > 0:
		return a
	case cmp < 0:
		return b
	default:
		if a.Operator == Greater || b.Operator == Greater {
			return Constraint{Operator: Greater, Version: a.Version}
		}
		return a
	}
}

func tighterUpper(a, b Constraint) Constraint {
	switch cmp := Compare(a.Version, b.Version); {
	case cmp < 0:
		return a
	case cmp > 0:
		return b
	default:
		if a.Operator == Less || b.Operator == Less {
			return Constraint{Operator: Less, Version: a.Version}
		}
		return a
	}
}
