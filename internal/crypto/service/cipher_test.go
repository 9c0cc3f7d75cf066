package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"
)

func newTestKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestCipherConstructors(t *testing.T) {
	constructors := map[string]func([]byte) (AEAD, error){
		"aes-256-gcm": func(k []byte) (AEAD, error) { return NewAESGCM(k) },
		"chacha20":    func(k []byte) (AEAD, error) { return NewChaCha20Poly1305(k) },
	}

	for name, newCipher := range constructors {
		t.Run(name+" valid key", func(t *testing.T) {
			c, err := newCipher(newTestKey(t))
			assert.NoError(t, err)
			assert.NotNil(t, c)
		})

		t.Run(name+" 16-byte key", func(t *testing.T) {
			_, err := newCipher(make([]byte, 16))
			assert.Error(t, err)
		})

		t.Run(name+" 64-byte key", func(t *testing.T) {
			_, err := newCipher(make([]byte, 64))
			assert.Error(t, err)
		})
	}
}

func TestCipher_EncryptDecrypt(t *testing.T) {
	manager := NewAEADManager()

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		c, err := manager.CreateCipher(newTestKey(t), alg)
		require.NoError(t, err)

		t.Run(string(alg)+" round trip", func(t *testing.T) {
			testCases := []struct {
				name      string
				plaintext []byte
				aad       []byte
			}{
				{name: "short message", plaintext: []byte("test"), aad: []byte("metadata")},
				{name: "long message", plaintext: bytes.Repeat([]byte("a"), 10000)},
				{name: "unicode", plaintext: []byte("Hello 世界! 🔐"), aad: []byte("unicode")},
				{name: "empty", plaintext: []byte{}},
			}

			for _, tc := range testCases {
				ciphertext, nonce, err := c.Encrypt(tc.plaintext, tc.aad)
				require.NoError(t, err, tc.name)
				assert.Len(t, nonce, cryptoDomain.NonceSize, tc.name)
				assert.Len(t, ciphertext, len(tc.plaintext)+cryptoDomain.TagSize, tc.name)

				decrypted, err := c.Decrypt(ciphertext, nonce, tc.aad)
				require.NoError(t, err, tc.name)
				assert.True(t, bytes.Equal(tc.plaintext, decrypted), tc.name)
			}
		})

		t.Run(string(alg)+" nonce is unique per call", func(t *testing.T) {
			_, nonce1, err := c.Encrypt([]byte("same"), nil)
			require.NoError(t, err)
			_, nonce2, err := c.Encrypt([]byte("same"), nil)
			require.NoError(t, err)
			assert.NotEqual(t, nonce1, nonce2)
		})

		t.Run(string(alg)+" tampered ciphertext fails", func(t *testing.T) {
			ciphertext, nonce, err := c.Encrypt([]byte("Hello, World!"), nil)
			require.NoError(t, err)
			ciphertext[0] ^= 1

			decrypted, err := c.Decrypt(ciphertext, nonce, nil)
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			assert.Nil(t, decrypted)
		})

		t.Run(string(alg)+" tampered tag fails", func(t *testing.T) {
			ciphertext, nonce, err := c.Encrypt([]byte("Hello, World!"), nil)
			require.NoError(t, err)
			ciphertext[len(ciphertext)-1] ^= 1

			_, err = c.Decrypt(ciphertext, nonce, nil)
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		})

		t.Run(string(alg)+" wrong aad fails", func(t *testing.T) {
			ciphertext, nonce, err := c.Encrypt([]byte("Hello, World!"), []byte("correct"))
			require.NoError(t, err)

			_, err = c.Decrypt(ciphertext, nonce, []byte("wrong"))
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		})

		t.Run(string(alg)+" malformed nonce fails without panic", func(t *testing.T) {
			ciphertext, _, err := c.Encrypt([]byte("Hello, World!"), nil)
			require.NoError(t, err)

			assert.NotPanics(t, func() {
				_, err = c.Decrypt(ciphertext, []byte{1, 2, 3}, nil)
			})
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		})

		t.Run(string(alg)+" truncated ciphertext fails", func(t *testing.T) {
			_, nonce, err := c.Encrypt([]byte("Hello, World!"), nil)
			require.NoError(t, err)

			_, err = c.Decrypt([]byte{1, 2, 3}, nonce, nil)
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		})
	}
}

func TestCipher_WrongKeyFails(t *testing.T) {
	c1, err := NewAESGCM(newTestKey(t))
	require.NoError(t, err)
	c2, err := NewAESGCM(newTestKey(t))
	require.NoError(t, err)

	ciphertext, nonce, err := c1.Encrypt([]byte("secret"), nil)
	require.NoError(t, err)

	_, err = c2.Decrypt(ciphertext, nonce, nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}
