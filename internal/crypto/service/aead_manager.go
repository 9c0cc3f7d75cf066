package service

import (
	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"
)

// AEADManagerService selects the cipher for a credential blob by its algorithm tag.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns the cipher named by alg. An empty tag is read as AES-256-GCM,
// the algorithm of blobs written before the tag was recorded.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	switch alg {
	case cryptoDomain.AESGCM, "":
		return NewAESGCM(key)
	case cryptoDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}

// Detached is a sealed payload with the authentication tag stored apart from the ciphertext,
// the layout credential blobs persist.
type Detached struct {
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// SealDetached encrypts plaintext without AAD and splits the trailing tag off the output.
func SealDetached(aead AEAD, plaintext []byte) (*Detached, error) {
	sealed, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, err
	}

	split := len(sealed) - cryptoDomain.TagSize
	return &Detached{Nonce: nonce, Ciphertext: sealed[:split], Tag: sealed[split:]}, nil
}

// OpenDetached rejoins ciphertext and tag and decrypts them.
func OpenDetached(aead AEAD, payload Detached) ([]byte, error) {
	if len(payload.Tag) != cryptoDomain.TagSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(payload.Ciphertext)+len(payload.Tag))
	sealed = append(sealed, payload.Ciphertext...)
	sealed = append(sealed, payload.Tag...)

	return aead.Decrypt(sealed, payload.Nonce, nil)
}
