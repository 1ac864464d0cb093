// Package domain holds the error sentinels shared by every layer. They live
// here so repositories can classify failures without importing the usecase
// package that consumes them.
package domain

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
