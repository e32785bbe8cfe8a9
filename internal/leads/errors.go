package leads

import "errors"

var (
	// ErrMissingContact is returned when the writer is invoked without both
	// name and phone.
	ErrMissingContact = errors.New("name and phone are required")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidStatus is returned for status values outside the known set.
	ErrInvalidStatus = errors.New("invalid lead status")
)
