package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// The cipher is stateless and safe for concurrent use. Every Encrypt call draws a
// fresh 12-byte nonce from crypto/rand, and the 16-byte tag is appended to the
// returned ciphertext.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance. The key must be 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM mode: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with optional additional authenticated data.
func (c *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	return seal(c.aead, plaintext, aad)
}

// Decrypt decrypts ciphertext using AES-256-GCM with the provided nonce and AAD.
// Any authentication failure, including a malformed nonce, yields ErrDecryptionFailed.
func (c *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	return open(c.aead, ciphertext, nonce, aad)
}

func seal(aead cipher.AEAD, plaintext, aad []byte) ([]byte, []byte, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

func open(aead cipher.AEAD, ciphertext, nonce, aad []byte) ([]byte, error) {
	// cipher.AEAD.Open panics on a nonce of the wrong length.
	if len(nonce) != aead.NonceSize() || len(ciphertext) < aead.Overhead() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
