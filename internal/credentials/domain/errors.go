package domain

import (
	"github.com/allisson/requestguard/internal/errors"
)

// Credential vault error definitions.
var (
	// ErrUserIDRequired indicates the owning user id was empty.
	ErrUserIDRequired = errors.Wrap(errors.ErrInvalidInput, "userId is required")

	// ErrProviderRequired indicates the provider name was empty.
	ErrProviderRequired = errors.Wrap(errors.ErrInvalidInput, "provider is required")

	// ErrCredentialNotFound indicates no credential is stored for the provider.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")
)
