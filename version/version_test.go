package version

import "testing"

type versionTestCase struct {
	input     string
	output    Version
	canonical string
	human     string
}

var versionTestCases = []versionTestCase{
	{"1.0.0", Version{Major: 1}, "1.0.0.0", "1.0.0"},
	{"1.0.2", Version{Major: 1, Patch: 2}, "1.0.2.0", "1.0.2"},
	{"1.2.3.4", Version{Major: 1, Minor: 2, Patch: 3, Rev: 4}, "1.2.3.4", "1.2.3.4"},
	{"3.6", Version{Major: 3, Minor: 6}, "3.6.0.0", "3.6.0"},
	{"1", Version{Major: 1}, "1.0.0.0", "1.0.0"},
	{"r1234", Version{Major: 1234}, "1234.0.0.0", "1234.0.0"},
	{"R99", Version{Major: 99}, "99.0.0.0", "99.0.0"},
	{" 1.2.3 ", Version{Major: 1, Minor: 2, Patch: 3}, "1.2.3.0", "1.2.3"},
	{"1-2-3", Version{Major: 1, Minor: 2, Patch: 3}, "1.2.3.0", "1.2.3"},
}

func TestParse(t *testing.T) {
	for _, tc := range versionTestCases {
		v, err := Parse(tc.input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tc.input, err)
			continue
		}
		if v != tc.output {
			t.Errorf("Parse(%q) = %+v, want %+v", tc.input, v, tc.output)
		}
		if got := v.Canonical(); got != tc.canonical {
			t.Errorf("Canonical(%q) = %q, want %q", tc.input, got, tc.canonical)
		}
		if got := v.String(); got != tc.human {
			t.Errorf("String(%q) = %q, want %q", tc.input, got, tc.human)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	invalid := []string{"", "a.b.c", "1.-2.3", "1.2.3.4.5", "1..2", "rabbit"}
	for _, s := range invalid {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) expected an error, got none", s)
		}
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b Version
		want int
	}{
		{MustParse("1.0.0"), MustParse("1.0.0"), 0},
		{MustParse("1.0.1"), MustParse("1.0.0"), 1},
		{MustParse("1.0.0"), MustParse("1.0.1"), -1},
		{MustParse("1.0.2"), MustParse("1.0.1"), 1},
		{MustParse("2.0.0"), MustParse("1.9.9"), 1},
	}
	for _, tc := range cases {
		if got := Compare(tc.a, tc.b); got != tc.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got := Compare(tc.b, tc.a); got != -tc.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tc.b, tc.a, got, -tc.want)
		}
	}
}

func TestConstraintSatisfied(t *testing.T) {
	cases := []struct {
		c    Constraint
		v    Version
		want bool
	}{
		{Constraint{GreaterOrEqual, MustParse("1.0.0")}, MustParse("1.0.0"), true},
		{Constraint{GreaterOrEqual, MustParse("1.0.0")}, MustParse("0.9.0"), false},
		{Constraint{Greater, MustParse("1.0.0")}, MustParse("1.0.0"), false},
		{Constraint{Less, MustParse("2.0.0")}, MustParse("1.9.9"), true},
		{Constraint{LessOrEqual, MustParse("2.0.0")}, MustParse("2.0.0"), true},
		{Constraint{Equal, MustParse("1.2.3")}, MustParse("1.2.3"), true},
		{Constraint{Equal, MustParse("1.2.3")}, MustParse("1.2.4"), false},
	}
	for _, tc := range cases {
		if got := tc.c.Satisfied(tc.v); got != tc.want {
			t.Errorf("%s.Satisfied(%s) = %v, want %v", tc.c, tc.v, got, tc.want)
		}
	}
}
