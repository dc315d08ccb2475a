package bandit

import "errors"

var (
	// ErrInvalidInput is returned when the horizon is < 1, a prior count is
	// < 1, or a simulation probability lies outside [0, 1]. It is reported
	// before any enumeration starts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStateNotFound signals that a state was looked up in a layer table
	// that does not hold it. When raised by the solver it means the
	// enumeration is not closed under Pull, which is a programming error.
	ErrStateNotFound = errors.New("state not found")
)
