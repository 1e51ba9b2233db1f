package domain

import "errors"

var (
	// ErrNotFound means the operation targeted an id that is not in the store.
	ErrNotFound = errors.New("project not found")

	// ErrUnauthorized means the caller failed the admin check.
	ErrUnauthorized = errors.New("not authorized")

	// ErrValidation means required fields were missing or malformed.
	ErrValidation = errors.New("invalid project data")

	// ErrQuotaExceeded means a local cache write would exceed the configured
	// byte budget. The previously persisted data is left unchanged.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)
