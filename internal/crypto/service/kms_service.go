package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService seals and unseals the master passphrase with an external KMS.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)

	// Seal encrypts plaintext with the keeper at keyURI and returns standard base64 ciphertext.
	Seal(ctx context.Context, keyURI string, plaintext []byte) (string, error)

	// Unseal reverses Seal.
	Unseal(ctx context.Context, keyURI, sealed string) ([]byte, error)
}

type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

func (k *kmsService) Seal(ctx context.Context, keyURI string, plaintext []byte) (string, error) {
	keeper, err := k.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() { _ = keeper.Close() }()

	ciphertext, err := keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return "", fmt.Errorf("failed to seal with KMS: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (k *kmsService) Unseal(ctx context.Context, keyURI, sealed string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", cryptoDomain.ErrMasterKeyUnsealFailed, err)
	}

	keeper, err := k.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrMasterKeyUnsealFailed, err)
	}
	defer func() { _ = keeper.Close() }()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrMasterKeyUnsealFailed, err)
	}
	return plaintext, nil
}
