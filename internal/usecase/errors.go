package usecase

import "github.com/riskibarqy/effort-league/internal/domain"

// Aliases for the shared sentinels, so handlers keep a single import for
// service calls and error classification.
var (
	ErrInvalidInput          = domain.ErrInvalidInput
	ErrNotFound              = domain.ErrNotFound
	ErrUnauthorized          = domain.ErrUnauthorized
	ErrForbidden             = domain.ErrForbidden
	ErrInvalidTransition     = domain.ErrInvalidTransition
	ErrDependencyUnavailable = domain.ErrDependencyUnavailable
)
