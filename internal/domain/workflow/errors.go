package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not permitted in the
	// report's current status.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidStatus is returned when a machine is built from a status that
	// is not part of the lifecycle.
	ErrInvalidStatus = errors.New("invalid report status")
)
