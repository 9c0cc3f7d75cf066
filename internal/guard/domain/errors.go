package domain

import (
	"github.com/allisson/requestguard/internal/errors"
)

// Guard error definitions.
var (
	// ErrOriginNotAllowed indicates the request Origin failed every origin rule.
	ErrOriginNotAllowed = errors.Wrap(errors.ErrForbidden, "origin not allowed")

	// ErrMethodNotAllowed indicates the endpoint does not accept the request method.
	ErrMethodNotAllowed = errors.Wrap(errors.ErrMethodNotAllowed, "method not allowed")

	// ErrRateLimitExceeded indicates the client exhausted its budget for the current window.
	ErrRateLimitExceeded = errors.Wrap(errors.ErrRateLimited, "rate limit exceeded")

	// ErrAuthenticationRequired indicates a required bearer token was missing or rejected.
	ErrAuthenticationRequired = errors.Wrap(errors.ErrUnauthorized, "authentication required")

	// ErrIdentityProviderNotConfigured indicates a token was presented but no identity
	// provider credentials are configured.
	ErrIdentityProviderNotConfigured = errors.Wrap(
		errors.ErrMisconfigured,
		"identity provider is not configured",
	)
)
