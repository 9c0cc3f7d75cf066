// Package usecase implements the credential vault: sealing per-user third-party credentials
// with an AEAD cipher and storing them in the user's application document.
package usecase

import (
	"context"
	"encoding/json"

	credentialsDomain "github.com/allisson/requestguard/internal/credentials/domain"
)

// AppDataRepository defines the document store operations the vault needs.
type AppDataRepository interface {
	GetData(ctx context.Context, userID string) (map[string]json.RawMessage, error)
	UpsertField(ctx context.Context, userID, field string, value json.RawMessage) error
}

// VaultUseCase defines the credential vault operations.
type VaultUseCase interface {
	// Save seals secret for (userID, provider), replacing any previous credential for the pair.
	Save(
		ctx context.Context,
		userID, provider string,
		secret, metadata map[string]any,
	) (*credentialsDomain.SaveResult, error)

	// Get returns the decrypted credential, or nil when none is stored. A blob that fails
	// authentication is an error so callers can tell "never saved" from "undecryptable".
	Get(ctx context.Context, userID, provider string) (*credentialsDomain.Credential, error)

	// GetMany returns the decrypted credentials for providers, or for every stored provider
	// when the list is empty. Entries that fail to decrypt are omitted.
	GetMany(
		ctx context.Context,
		userID string,
		providers []string,
	) (map[string]*credentialsDomain.Credential, error)
}
