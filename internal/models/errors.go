package models

import "errors"

// Error taxonomy shared by the services, the access guard and the HTTP layer.
// Callers add detail by wrapping with %w; errors.Is still matches.
var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateIdentity  = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrNotFound           = errors.New("not found")
)
