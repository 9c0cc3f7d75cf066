package domain

// Algorithm identifies the AEAD construction used to seal a credential blob.
//
// The tag is persisted alongside every blob so that decryption always selects the
// cipher that produced it, regardless of the algorithm configured for new writes.
// Both constructions use a 256-bit key, a 96-bit nonce and a 128-bit tag.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. Default for new writes.
	AESGCM Algorithm = "aes-256-gcm"

	// ChaCha20 is ChaCha20-Poly1305, preferred on hosts without AES-NI.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of every derived encryption key.
	KeySize = 32

	// NonceSize is the nonce size in bytes shared by both supported algorithms.
	NonceSize = 12

	// TagSize is the authentication tag size in bytes shared by both supported algorithms.
	TagSize = 16
)

// ParseAlgorithm converts a configuration value into a supported Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
