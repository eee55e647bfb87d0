package types

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidProviderID = errors.New("invalid provider ID")
	ErrMissingAPIKey     = errors.New("missing API key")
	ErrNotConfigured     = errors.New("analyzer is not configured")

	// Request errors
	ErrMissingImage = errors.New("missing image data")
	ErrEmptyResult  = errors.New("empty analyzer result")
)

// ErrorClass drives the user-facing message chosen for a provider failure.
type ErrorClass string

const (
	ClassAuth        ErrorClass = "auth"
	ClassQuota       ErrorClass = "quota"
	ClassNotFound    ErrorClass = "not_found"
	ClassTimeout     ErrorClass = "timeout"
	ClassUnreachable ErrorClass = "unreachable"
	ClassUnknown     ErrorClass = "unknown"
)

// ProviderError wraps analyzer provider failures with enough context to
// classify them.
type ProviderError struct {
	Provider   ProviderID
	Model      string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s (status %d)", e.Provider, e.Message, e.StatusCode)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Class classifies the failure by cause where discernible.
func (e *ProviderError) Class() ErrorClass {
	switch e.StatusCode {
	case 401, 403:
		return ClassAuth
	case 429:
		return ClassQuota
	case 404:
		return ClassNotFound
	case 504:
		return ClassTimeout
	case 502, 503:
		return ClassUnreachable
	}
	if e.Err != nil {
		return ClassUnreachable
	}
	return ClassUnknown
}

// NotFound reports whether the failure means the requested model does not
// exist, the only case where trying the next model candidate makes sense.
func (e *ProviderError) NotFound() bool {
	return e.Class() == ClassNotFound
}

func NewProviderError(provider ProviderID, message string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Message: message, Err: err}
}
