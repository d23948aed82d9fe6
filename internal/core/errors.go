package core

import "errors"

// The two failure kinds of the system. Both are non-fatal: a failed load keeps
// the stale list, a failed submit asks the user to resubmit.
var (
	// ErrLoadFailed wraps any failure to read the registration set.
	ErrLoadFailed = errors.New("load registrations failed")

	// ErrSubmitFailed wraps any failure to write a registration.
	ErrSubmitFailed = errors.New("submit registration failed")
)
