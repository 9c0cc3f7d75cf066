package domain

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// Base64KeyPrefix tags a passphrase whose remainder is standard base64 key material.
const Base64KeyPrefix = "base64:"

// DeriveKey normalizes an operator-supplied passphrase into a KeySize-byte key.
//
// The normalization chain is evaluated in order:
//  1. "base64:<data>" whose decoded length is at least KeySize: the first KeySize bytes.
//  2. Exactly 64 hexadecimal characters: the hex-decoded bytes.
//  3. Anything else: SHA-256 of the raw passphrase bytes.
//
// A base64-tagged passphrase that fails to decode or decodes short falls through to
// the remaining steps. The chain is deterministic, so data encrypted under a
// passphrase stays decryptable for as long as the passphrase is unchanged.
func DeriveKey(passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrMasterKeyNotSet
	}

	if encoded, ok := strings.CutPrefix(passphrase, Base64KeyPrefix); ok {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err == nil && len(decoded) >= KeySize {
			key := make([]byte, KeySize)
			copy(key, decoded[:KeySize])
			Zero(decoded)
			return key, nil
		}
		Zero(decoded)
	}

	if len(passphrase) == hex.EncodedLen(KeySize) {
		if key, err := hex.DecodeString(passphrase); err == nil {
			return key, nil
		}
	}

	sum := sha256.Sum256([]byte(passphrase))
	return sum[:], nil
}

// KeyFingerprint returns a short, non-reversible identifier for a derived key.
// Operators use it to confirm two deployments share a passphrase without revealing it.
func KeyFingerprint(key []byte) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:8])
}
