package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"
)

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	key := newTestKey(t)

	tests := []struct {
		name    string
		alg     cryptoDomain.Algorithm
		key     []byte
		want    any
		wantErr error
	}{
		{name: "aes-gcm", alg: cryptoDomain.AESGCM, key: key, want: &AESGCMCipher{}},
		{name: "chacha20", alg: cryptoDomain.ChaCha20, key: key, want: &ChaCha20Poly1305Cipher{}},
		{name: "untagged blob reads as aes-gcm", alg: "", key: key, want: &AESGCMCipher{}},
		{name: "unknown algorithm", alg: "AES-256-GCM", key: key, wantErr: cryptoDomain.ErrUnsupportedAlgorithm},
		{name: "short key", alg: cryptoDomain.AESGCM, key: key[:31], wantErr: cryptoDomain.ErrInvalidKeySize},
		{name: "long key", alg: cryptoDomain.ChaCha20, key: append(key, 0), wantErr: cryptoDomain.ErrInvalidKeySize},
		{name: "nil key", alg: cryptoDomain.AESGCM, key: nil, wantErr: cryptoDomain.ErrInvalidKeySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cipher, err := manager.CreateCipher(tt.key, tt.alg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cipher)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, cipher)
		})
	}
}

func TestDetached(t *testing.T) {
	manager := NewAEADManager()
	key := newTestKey(t)
	plaintext := []byte(`{"apiKey":"sk_live_123"}`)

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			cipher, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			payload, err := SealDetached(cipher, plaintext)
			require.NoError(t, err)
			assert.Len(t, payload.Nonce, 12)
			assert.Len(t, payload.Tag, cryptoDomain.TagSize)
			assert.Len(t, payload.Ciphertext, len(plaintext))

			opened, err := OpenDetached(cipher, *payload)
			require.NoError(t, err)
			assert.Equal(t, plaintext, opened)
		})
	}

	t.Run("fresh nonce per seal", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.AESGCM)
		require.NoError(t, err)

		first, err := SealDetached(cipher, plaintext)
		require.NoError(t, err)
		second, err := SealDetached(cipher, plaintext)
		require.NoError(t, err)

		assert.NotEqual(t, first.Nonce, second.Nonce)
		assert.NotEqual(t, first.Ciphertext, second.Ciphertext)
	})

	t.Run("tampered tag", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.AESGCM)
		require.NoError(t, err)
		payload, err := SealDetached(cipher, plaintext)
		require.NoError(t, err)

		payload.Tag[0] ^= 0xff
		_, err = OpenDetached(cipher, *payload)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("truncated tag", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.ChaCha20)
		require.NoError(t, err)
		payload, err := SealDetached(cipher, plaintext)
		require.NoError(t, err)

		payload.Tag = payload.Tag[:8]
		_, err = OpenDetached(cipher, *payload)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("wrong algorithm cannot open", func(t *testing.T) {
		aes, err := manager.CreateCipher(key, cryptoDomain.AESGCM)
		require.NoError(t, err)
		chacha, err := manager.CreateCipher(key, cryptoDomain.ChaCha20)
		require.NoError(t, err)

		payload, err := SealDetached(aes, plaintext)
		require.NoError(t, err)

		_, err = OpenDetached(chacha, *payload)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}
