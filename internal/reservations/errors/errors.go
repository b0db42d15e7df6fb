package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	// ErrConflict is returned by the store when an insert collides with an
	// already occupied hour slot. It is the atomic admission signal.
	ErrConflict = errors.New("reservation conflicts with an occupied hour")
)
