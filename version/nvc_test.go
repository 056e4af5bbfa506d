package version

import (
	"testing"

	"github.com/crandex/crandex/intern"
)

func TestParseNameVersionConstraint(t *testing.T) {
	cases := []struct {
		input string
		name  string
		op    Operator
		v     Version
	}{
		{"parent", "parent", GreaterOrEqual, Version{}},
		{"parent (>= 1.0)", "parent", GreaterOrEqual, MustParse("1.0")},
		{"R (>= 3.6)", "R", GreaterOrEqual, MustParse("3.6")},
		{"x(=1)", "x", Equal, MustParse("1")},
		{"foo (> 0.1)", "foo", Greater, MustParse("0.1")},
	}

	for _, tc := range cases {
		in := intern.New()
		nvc, err := ParseNameVersionConstraint(in, tc.input)
		if err != nil {
			t.Errorf("ParseNameVersionConstraint(%q) returned error: %v", tc.input, err)
			continue
		}
		if got := in.String(nvc.Name); got != tc.name {
			t.Errorf("ParseNameVersionConstraint(%q) name = %q, want %q", tc.input, got, tc.name)
		}
		if nvc.Constraint.Operator != tc.op || nvc.Constraint.Version != tc.v {
			t.Errorf("ParseNameVersionConstraint(%q) constraint = %s, want %s %s", tc.input, nvc.Constraint, tc.op, tc.v)
		}
	}
}

func TestParseNameVersionConstraintInvalid(t *testing.T) {
	invalid := []string{"", "1abc", "(>= 1.0)", "name (>= )"}
	for _, s := range invalid {
		in := intern.New()
		if _, err := ParseNameVersionConstraint(in, s); err == nil {
			t.Errorf("ParseNameVersionConstraint(%q) expected an error, got none", s)
		}
	}
}

func TestMergeConstraints(t *testing.T) {
	in := intern.New()
	items := []NameVersionConstraint{
		mustNVC(t, in, "foo (>= 1.0)"),
		mustNVC(t, in, "foo (>= 2.0)"),
		mustNVC(t, in, "bar (>= 1.0)"),
	}

	merged, err := MergeConstraints(in, items)
	if err != nil {
		t.Fatalf("MergeConstraints: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("MergeConstraints returned %d entries, want 2", len(merged))
	}
	if got := in.String(merged[0].Name); got != "foo" {
		t.Errorf("merged[0].Name = %q, want foo", got)
	}
	if merged[0].Constraint.Version != MustParse("2.0") {
		t.Errorf("merged[0].Constraint = %s, want >= 2.0", merged[0].Constraint)
	}
}

func TestMergeConstraintsUnsatisfiable(t *testing.T) {
	in := intern.New()
	items := []NameVersionConstraint{
		mustNVC(t, in, "foo (> 2.0)"),
		mustNVC(t, in, "foo (< 1.0)"),
	}

	if _, err := MergeConstraints(in, items); err == nil {
		t.Fatal("MergeConstraints: expected ErrUnsatisfiableConstraint, got nil")
	}
}

func TestMergeConstraintsIdempotent(t *testing.T) {
	in := intern.New()
	items := []NameVersionConstraint{
		mustNVC(t, in, "foo (>= 1.0)"),
		mustNVC(t, in, "foo (>= 2.0)"),
		mustNVC(t, in, "bar (>= 1.0)"),
	}

	once, err := MergeConstraints(in, items)
	if err != nil {
		t.Fatalf("MergeConstraints: %v", err)
	}
	twice, err := MergeConstraints(in, once)
	if err != nil {
		t.Fatalf("MergeConstraints: %v", err)
	}
	if len(once) != len(twice) {
		t.Fatalf("merge is not idempotent: %v vs %v", once, twice)
	}
	for i := range once {
		if once[i].Constraint != twice[i].Constraint || in.String(once[i].Name) != in.String(twice[i].Name) {
			t.Fatalf("merge is not idempotent at index %d: %v vs %v", i, once[i], twice[i])
		}
	}
}

// A two-sided merge (lower bound from one dependency entry, upper bound
// from another, no contradiction) must keep both bounds: an NVC can only
// express one, so the merged result carries the lower bound in Constraint
// and the upper bound in Upper rather than dropping one (see
// mergeBound in merge.go).
func TestMergeConstraintsTwoSidedConsistent(t *testing.T) {
	in := intern.New()
	items := []NameVersionConstraint{
		mustNVC(t, in, "foo (>= 1.0)"),
		mustNVC(t, in, "foo (<= 2.0)"),
	}

	merged, err := MergeConstraints(in, items)
	if err != nil {
		t.Fatalf("MergeConstraints: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("MergeConstraints returned %d entries, want 1", len(merged))
	}

	foo := merged[0]
	if foo.Constraint.Operator != GreaterOrEqual || foo.Constraint.Version != MustParse("1.0") {
		t.Errorf("foo.Constraint = %s, want >= 1.0", foo.Constraint)
	}
	if foo.Upper == nil {
		t.Fatal("foo.Upper = nil, want <= 2.0 (upper bound must not be discarded)")
	}
	if foo.Upper.Operator != LessOrEqual || foo.Upper.Version != MustParse("2.0") {
		t.Errorf("foo.Upper = %s, want <= 2.0", foo.Upper)
	}
}

// Order of the two entries shouldn't matter, and a third entry tightening
// one side further must preserve the other side untouched.
func TestMergeConstraintsTwoSidedThreeWay(t *testing.T) {
	in := intern.New()
	items := []NameVersionConstraint{
		mustNVC(t, in, "foo (<= 5.0)"),
		mustNVC(t, in, "foo (>= 1.0)"),
		mustNVC(t, in, "foo (>= 2.0)"),
	}

	merged, err := MergeConstraints(in, items)
	if err != nil {
		t.Fatalf("MergeConstraints: %v", err)
	}
	foo := merged[0]
	if foo.Constraint.Version != MustParse("2.0") {
		t.Errorf("foo.Constraint = %s, want >= 2.0", foo.Constraint)
	}
	if foo.Upper == nil || foo.Upper.Version != MustParse("5.0") {
		t.Errorf("foo.Upper = %v, want <= 5.0", foo.Upper)
	}
}

func TestMergeConstraintsTwoSidedContradiction(t *testing.T) {
	in := intern.New()
	items := []NameVersionConstraint{
		mustNVC(t, in, "foo (>= 5.0)"),
		mustNVC(t, in, "foo (<= 1.0)"),
	}

	if _, err := MergeConstraints(in, items); err == nil {
		t.Fatal("MergeConstraints: expected ErrUnsatisfiableConstraint, got nil")
	}
}

func mustNVC(t *testing.T, in *intern.Interner, s string) NameVersionConstraint {
	t.Helper()
	nvc, err := ParseNameVersionConstraint(in, s)
	if err != nil {
		t.Fatalf("ParseNameVersionConstraint(%q): %v", s, err)
	}
	return nvc
}
