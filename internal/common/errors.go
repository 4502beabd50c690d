package common

import "errors"

var (
	// ErrNotFound is returned by lookups that found nothing.
	ErrNotFound = errors.New("not found")

	// ErrNotLoggedIn is returned by operations that need a session user.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrInvalidInput marks caller-side validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
