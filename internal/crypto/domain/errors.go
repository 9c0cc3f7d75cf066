package domain

import (
	"github.com/allisson/requestguard/internal/errors"
)

// Cryptographic operation error definitions.
//
// Decryption and key errors are server-side failures: they are mapped to a generic
// HTTP 500 so the caller never learns whether a tag, key or nonce was at fault.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrInvalidKeySize indicates the key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrDecryptionFailed indicates authentication of a sealed blob failed.
	//
	// This error can occur due to:
	//   - Wrong decryption key (passphrase changed)
	//   - Ciphertext or authentication tag has been tampered with
	//   - Invalid nonce provided
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMasterKeyNotSet indicates no master passphrase is configured.
	ErrMasterKeyNotSet = errors.Wrap(errors.ErrMisconfigured, "SECRETS_MASTER_KEY is not set")

	// ErrMasterKeyUnsealFailed indicates a KMS-sealed passphrase could not be decrypted.
	ErrMasterKeyUnsealFailed = errors.Wrap(errors.ErrMisconfigured, "failed to unseal SECRETS_MASTER_KEY")
)
