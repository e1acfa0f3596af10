package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without
// leaking infrastructure details.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateIdentity = errors.New("identity already registered")
	ErrNotFound          = errors.New("not found")
	// ErrInvalidCredentials is returned verbatim for both "no such user"
	// and "wrong password" so login responses cannot be used to enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid code")
	ErrCodeExpired        = errors.New("code expired")
	ErrNotVerified        = errors.New("account not verified")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrSamePassword       = errors.New("new password must differ from current password")
	ErrNoPasswordSet      = errors.New("no password set for account")
)
