// Package version implements the R/DCF version grammar: up to four
// unsigned components (major.minor.patch.rev) plus the SVN-style "rNNN"
// shorthand, with a total lexicographic order.
package version

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Version holds a DCF-compatible version: four unsigned components compared
// lexicographically as (Major, Minor, Patch, Rev).
type Version struct {
	Major, Minor, Patch, Rev uint32
}

// The following clause ensures Version stays directly comparable and can be
// used as a map key.
var _ = Version{} == Version{}

// Parse parses a DCF version string: whitespace is trimmed, an "rNNN"
// prefix is treated as an SVN revision (Major only), otherwise the string
// is split on '.' or '-' into up to four numeric segments with missing
// trailing segments defaulting to zero.
func Parse(input string) (Version, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty version", ErrInvalidVersionFormat)
	}

	if len(s) > 1 && (s[0] == 'r' || s[0] == 'R') {
		digits := s[1:]
		if isAllDigits(digits) {
			n, err := strconv.ParseUint(digits, 10, 32)
			if err != nil {
				return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersionFormat, input, err)
			}
			return Version{Major: uint32(n)}, nil
		}
	}

	parts := strings.Split(strings.ReplaceAll(s, "-", "."), ".")
	if len(parts) == 0 || len(parts) > 4 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersionFormat, input)
	}

	var v Version
	components := [4]*uint32{&v.Major, &v.Minor, &v.Patch, &v.Rev}
	for i, part := range parts {
		if !isAllDigits(part) {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersionFormat, input)
		}
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersionFormat, input, err)
		}
		*components[i] = uint32(n)
	}

	return v, nil
}

// MustParse parses the version and panics if it cannot be parsed. Intended
// for use with literal test fixtures.
func MustParse(input string) Version {
	v, err := Parse(input)
	if err != nil {
		panic(fmt.Sprintf("invalid version: %v", err))
	}
	return v
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String returns the human-readable form: trailing zero Rev is omitted.
func (v Version) String() string {
	if v.Rev == 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return v.Canonical()
}

// Canonical returns the machine-readable form: all four components always
// present.
func (v Version) Canonical() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Rev)
}

// GreaterThan returns true if v is greater than v2.
func (v Version) GreaterThan(v2 Version) bool {
	return Compare(v, v2) > 0
}

// Compare returns an integer comparing two versions: 0 if a==b, -1 if a<b,
// +1 if a>b. Comparison is lexicographic over (Major, Minor, Patch, Rev).
func Compare(a, b Version) int {
	compare := func(a, b Version) int {
		switch {
		case a.Major != b.Major:
			return cmpUint32(a.Major, b.Major)
		case a.Minor != b.Minor:
			return cmpUint32(a.Minor, b.Minor)
		case a.Patch != b.Patch:
			return cmpUint32(a.Patch, b.Patch)
		case a.Rev != b.Rev:
			return cmpUint32(a.Rev, b.Rev)
		default:
			return 0
		}
	}

	if compare(b, a) != -1*compare(a, b) {
		// TODO: remove this assertion once the implementation is considered stable.
		panic(fmt.Sprintf("version.Compare is not symmetric for a: %s, b: %s", a, b))
	}

	return compare(a, b)
}

func cmpUint32(a, b uint32) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func (v *Version) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("unmarshaling invalid version: %w", err)
	}
	*v = parsed

	return nil
}

func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Canonical())
}
