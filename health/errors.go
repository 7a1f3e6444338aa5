package health

import "errors"

var (
	// ErrCheckFailed marks a dependency reported unavailable.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a checker that did not answer within the
	// sweep timeout.
	ErrCheckTimeout = errors.New("health: check timed out")

	// ErrUnknownDependency marks a lookup for a dependency that was
	// never registered.
	ErrUnknownDependency = errors.New("health: unknown dependency")
)
