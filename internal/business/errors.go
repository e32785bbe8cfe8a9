package business

import "errors"

// ErrBusinessNotFound is returned when the tenant does not exist.
var ErrBusinessNotFound = errors.New("business not found")
