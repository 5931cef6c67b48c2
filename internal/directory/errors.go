package directory

import "errors"

var (
	// ErrValidation marks a missing or malformed required field.
	ErrValidation = errors.New("invalid input")

	// ErrDuplicateNumber is returned when registering a number that is
	// already some user's primary contact.
	ErrDuplicateNumber = errors.New("phone number already registered")

	// ErrInvalidCredentials covers both unknown number and wrong password.
	// The two cases are never distinguished to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned when a lookup by id or number has no row.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyReported is returned on a repeat (reporter, contact) report.
	ErrAlreadyReported = errors.New("already reported")
)
