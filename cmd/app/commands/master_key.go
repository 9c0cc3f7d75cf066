package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"
	cryptoService "github.com/allisson/requestguard/internal/crypto/service"
)

// Passphrase encodings accepted by create-master-key.
const (
	EncodingBase64 = "base64"
	EncodingHex    = "hex"
)

// RunCreateMasterKey generates a random 32-byte master passphrase in one of the encodings
// DeriveKey recognizes and writes it as SECRETS_MASTER_KEY. When kmsKeyURI is set the
// passphrase is sealed with the KMS first and SECRETS_MASTER_KEY_KMS_URI is written too.
// The fingerprint lets operators confirm deployments share the key without revealing it.
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	out io.Writer,
	encoding string,
	kmsKeyURI string,
) error {
	raw := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(raw)

	var passphrase string
	switch encoding {
	case EncodingBase64:
		passphrase = cryptoDomain.Base64KeyPrefix + base64.StdEncoding.EncodeToString(raw)
	case EncodingHex:
		passphrase = hex.EncodeToString(raw)
	default:
		return fmt.Errorf("invalid encoding %q: use %q or %q", encoding, EncodingBase64, EncodingHex)
	}

	key, err := cryptoDomain.DeriveKey(passphrase)
	if err != nil {
		return err
	}
	fingerprint := cryptoDomain.KeyFingerprint(key)
	cryptoDomain.Zero(key)

	value := passphrase
	if kmsKeyURI != "" {
		if kmsService == nil {
			return fmt.Errorf("kms service is required to seal the master key")
		}
		value, err = kmsService.Seal(ctx, kmsKeyURI, []byte(passphrase))
		if err != nil {
			return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
		}
	}

	logger.Info("master key generated",
		slog.String("encoding", encoding),
		slog.Bool("kms_sealed", kmsKeyURI != ""),
		slog.String("fingerprint", fingerprint))

	_, _ = fmt.Fprintln(out, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintf(out, "# Key fingerprint: %s\n", fingerprint)
	_, _ = fmt.Fprintf(out, "SECRETS_MASTER_KEY=%q\n", value)
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(out, "SECRETS_MASTER_KEY_KMS_URI=%q\n", kmsKeyURI)
	}
	return nil
}

// RunDeriveKeyFingerprint derives the vault key from the configured passphrase, unsealing
// it first when it is KMS protected, and prints its fingerprint.
func RunDeriveKeyFingerprint(ctx context.Context, keySource cryptoService.KeySource, out io.Writer) error {
	key, err := keySource.Key(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, cryptoDomain.KeyFingerprint(key))
	return err
}
