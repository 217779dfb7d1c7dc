package domain

import "errors"

// Sentinel errors for the application.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("resource already exists")
	ErrInvalidInput = errors.New("invalid input")

	// ErrPersistence marks a storage failure (unreachable database or a
	// constraint violation such as a message referencing a missing user).
	// It is surfaced to the originating connection only and never retried.
	ErrPersistence = errors.New("persistence failure")
)
