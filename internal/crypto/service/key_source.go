package service

import (
	"context"
	"sync"

	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"
)

// PassphraseKeySource derives the vault key from the configured master passphrase.
//
// Derivation happens on first use rather than at startup, so a deployment without a
// passphrase still serves its other endpoints and only credential requests fail.
// A successfully derived key is memoized; failures are retried on the next call.
type PassphraseKeySource struct {
	passphrase string
	kmsKeyURI  string
	kms        KMSService

	mu  sync.Mutex
	key []byte
}

// NewPassphraseKeySource creates a key source. When kmsKeyURI is set, passphrase is
// treated as base64 KMS ciphertext and unsealed before derivation.
func NewPassphraseKeySource(passphrase, kmsKeyURI string, kms KMSService) *PassphraseKeySource {
	return &PassphraseKeySource{
		passphrase: passphrase,
		kmsKeyURI:  kmsKeyURI,
		kms:        kms,
	}
}

// Key returns the 32-byte vault key.
func (s *PassphraseKeySource) Key(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		return s.key, nil
	}

	if s.passphrase == "" {
		return nil, cryptoDomain.ErrMasterKeyNotSet
	}

	passphrase := s.passphrase
	if s.kmsKeyURI != "" {
		unsealed, err := s.kms.Unseal(ctx, s.kmsKeyURI, s.passphrase)
		if err != nil {
			return nil, err
		}
		passphrase = string(unsealed)
		cryptoDomain.Zero(unsealed)
	}

	key, err := cryptoDomain.DeriveKey(passphrase)
	if err != nil {
		return nil, err
	}

	s.key = key
	return key, nil
}

// Close zeroes the memoized key.
func (s *PassphraseKeySource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cryptoDomain.Zero(s.key)
	s.key = nil
}
