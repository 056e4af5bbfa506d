package version

import "errors"

var (
	// ErrInvalidVersionFormat is returned when a version string cannot be
	// parsed under the DCF version grammar.
	ErrInvalidVersionFormat = errors.New("invalid version format")
	// ErrInvalidOperator is returned when a comparison operator prefix is
	// not one of <, <=, =, ==, >=, >.
	ErrInvalidOperator = errors.New("invalid operator")
	// ErrInvalidNameFormat is returned when a dependency name does not
	// start with an ASCII letter.
	ErrInvalidNameFormat = errors.New("invalid name format")
	// ErrUnsatisfiableConstraint is returned by MergeConstraints when two
	// constraints on the same name are mutually contradictory.
	ErrUnsatisfiableConstraint = errors.New("unsatisfiable constraint")
)
