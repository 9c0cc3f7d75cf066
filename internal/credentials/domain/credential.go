// Package domain defines the per-user credential vault model. Each user's third-party
// credentials live as sealed blobs in one field of that user's application document,
// keyed by provider name.
package domain

import (
	"maps"
	"time"

	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"
)

// SecureSecretsField is the document field that holds the provider to blob map.
// Every other field of the document belongs to other features and is left untouched.
const SecureSecretsField = "_secureSecrets"

// BlobVersion is the current EncryptedBlob layout version.
const BlobVersion = 1

// EncryptedBlob is one sealed credential as persisted in the document store.
type EncryptedBlob struct {
	Version    int                    `json:"version"`
	Algorithm  cryptoDomain.Algorithm `json:"algorithm"`
	IV         []byte                 `json:"iv"`
	Ciphertext []byte                 `json:"ciphertext"`
	AuthTag    []byte                 `json:"authTag"`
	Metadata   map[string]any         `json:"metadata,omitempty"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

// Sealed reports whether the blob carries the fields needed to attempt decryption.
func (b *EncryptedBlob) Sealed() bool {
	return len(b.IV) > 0 && len(b.Ciphertext) > 0 && len(b.AuthTag) > 0
}

// Credential is a decrypted credential returned to its owner.
type Credential struct {
	Provider  string         `json:"provider"`
	Secret    map[string]any `json:"secret"`
	Metadata  map[string]any `json:"metadata"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// SaveResult is returned after a credential is stored.
type SaveResult struct {
	Provider  string    `json:"provider"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StripNil returns a copy of m without nil-valued top-level entries. Nested values are
// kept as they are. A nil map yields an empty map.
func StripNil(m map[string]any) map[string]any {
	cleaned := maps.Clone(m)
	if cleaned == nil {
		return map[string]any{}
	}
	maps.DeleteFunc(cleaned, func(_ string, v any) bool {
		return v == nil
	})
	return cleaned
}
