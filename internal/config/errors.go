package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrNotLoaded indicates Current was called before a successful Load.
	ErrNotLoaded = errors.New("configuration not loaded")

	// ErrManagerClosed indicates the manager was closed.
	ErrManagerClosed = errors.New("configuration manager closed")

	// ErrInvalidOverride indicates a malformed key=value token.
	ErrInvalidOverride = errors.New("invalid override")
)

// OverrideError describes an invocation token that could not be applied.
type OverrideError struct {
	// Token is the offending key=value token.
	Token string
	// Err is the underlying error, usually a *schema.ValidationError.
	Err error
}

// Error implements the error interface.
func (e *OverrideError) Error() string {
	return fmt.Sprintf("override %q: %v", e.Token, e.Err)
}

// Unwrap returns the underlying error.
func (e *OverrideError) Unwrap() error {
	return e.Err
}
