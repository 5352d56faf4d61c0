package model

import "errors"

// Error kinds returned by the cycle engine. All of them are recoverable at
// the command boundary; the process never terminates on one of these.
var (
	// ErrInvalidAmount flags a non-positive or malformed money amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrOutOfCycleDate flags a date outside the active cycle window.
	ErrOutOfCycleDate = errors.New("date outside cycle window")

	// ErrNoActiveCycle is returned when no cycle can be resolved, e.g. when
	// the income schedule is empty and no cycle was started explicitly.
	ErrNoActiveCycle = errors.New("no active cycle")

	// ErrAlreadyResolved flags a duplicate confirmation of a check-in that
	// already reached a terminal state.
	ErrAlreadyResolved = errors.New("check-in already resolved")

	// ErrConfigInvalid flags malformed configuration. Raised at load time,
	// never at runtime.
	ErrConfigInvalid = errors.New("invalid configuration")
)
