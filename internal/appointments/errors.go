package appointments

import "errors"

var (
	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidStatus is returned when a status value is outside the enum.
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidTransition is returned when a status change violates the
	// transition table (completed and cancelled are terminal).
	ErrInvalidTransition = errors.New("illegal status transition")
)
