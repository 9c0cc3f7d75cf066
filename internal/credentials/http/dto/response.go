package dto

import (
	"time"

	credentialsDomain "github.com/allisson/requestguard/internal/credentials/domain"
)

// CredentialResponse is a decrypted credential returned to its owner.
type CredentialResponse struct {
	Provider  string         `json:"provider"`
	Secret    map[string]any `json:"secret"`
	Metadata  map[string]any `json:"metadata"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ListCredentialsResponse is the body of GET /v1/credentials.
type ListCredentialsResponse struct {
	Credentials map[string]CredentialResponse `json:"credentials"`
}

// SaveCredentialResponse is the body of PUT /v1/credentials/:provider.
type SaveCredentialResponse struct {
	Provider  string    `json:"provider"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapCredentialToResponse converts a domain credential into its response shape.
func MapCredentialToResponse(credential *credentialsDomain.Credential) CredentialResponse {
	return CredentialResponse{
		Provider:  credential.Provider,
		Secret:    credential.Secret,
		Metadata:  credential.Metadata,
		UpdatedAt: credential.UpdatedAt,
	}
}

// MapCredentialsToListResponse converts a provider keyed credential map.
func MapCredentialsToListResponse(
	credentials map[string]*credentialsDomain.Credential,
) ListCredentialsResponse {
	items := make(map[string]CredentialResponse, len(credentials))
	for provider, credential := range credentials {
		items[provider] = MapCredentialToResponse(credential)
	}
	return ListCredentialsResponse{Credentials: items}
}

// MapSaveResultToResponse converts a save result into its response shape.
func MapSaveResultToResponse(result *credentialsDomain.SaveResult) SaveCredentialResponse {
	return SaveCredentialResponse{
		Provider:  result.Provider,
		UpdatedAt: result.UpdatedAt,
	}
}
