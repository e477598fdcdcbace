package models

import "errors"

// Sentinel errors returned by services and repositories. Handlers translate
// these into HTTP status codes; nothing is swallowed along the way.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrContentNotFound     = errors.New("content item not found")
	ErrAPIKeyNotFound      = errors.New("api key not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrProviderFailure     = errors.New("ai provider request failed")
)

// IsNotFound reports whether err maps to a 404 for the caller.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrContentNotFound) ||
		errors.Is(err, ErrAPIKeyNotFound)
}
