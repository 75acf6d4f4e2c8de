package scheduling

import "errors"

var (
	// ErrInvalidInput is returned for malformed dates, times and numeric fields.
	// It is always raised before a derived timestamp exists.
	ErrInvalidInput = errors.New("invalid input")
)
