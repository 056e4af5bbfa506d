package repo

import "errors"

var (
	// ErrNotFound is returned when a required package name is absent or
	// none of its versions satisfies a constraint.
	ErrNotFound = errors.New("package not found")
	// ErrCyclicDependencies is returned by InstallOrder when the requested
	// subset contains a dependency cycle.
	ErrCyclicDependencies = errors.New("cyclic dependencies")
	// ErrInvalidState is returned for out-of-order API use, e.g. querying
	// an Index built from a Repository that has since been mutated.
	ErrInvalidState = errors.New("invalid state")
)
