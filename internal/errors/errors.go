// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the request is not permitted (e.g., origin not allowed).
	ErrForbidden = errors.New("forbidden")

	// ErrMethodNotAllowed indicates the HTTP method is not accepted by the endpoint.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrRateLimited indicates the caller exceeded its request budget for the current window.
	// It is expected and recoverable: the caller may retry after the advertised delay.
	ErrRateLimited = errors.New("rate limited")

	// ErrMisconfigured indicates required deployment configuration is missing.
	// Always fatal for the request and never retried.
	ErrMisconfigured = errors.New("misconfigured")

	// ErrStoreFailure indicates the document store could not complete an operation.
	ErrStoreFailure = errors.New("store failure")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapKind classifies cause under kind so that Is matches both of them.
// Use it when an infrastructure error must surface as a domain error without
// losing the underlying driver error for server-side logs.
func WrapKind(kind, cause error, message string) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", message, kind, cause)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
