package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	credentialsDomain "github.com/allisson/requestguard/internal/credentials/domain"
	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"
	cryptoService "github.com/allisson/requestguard/internal/crypto/service"
	"github.com/allisson/requestguard/internal/database"
	apperrors "github.com/allisson/requestguard/internal/errors"
)

type vaultUseCase struct {
	txManager   database.TxManager
	repo        AppDataRepository
	aeadManager cryptoService.AEADManager
	keySource   cryptoService.KeySource
	algorithm   cryptoDomain.Algorithm
	logger      *slog.Logger
	now         func() time.Time
}

// NewVaultUseCase creates a VaultUseCase. algorithm applies to new writes only; reads
// always use the algorithm recorded in the blob.
func NewVaultUseCase(
	txManager database.TxManager,
	repo AppDataRepository,
	aeadManager cryptoService.AEADManager,
	keySource cryptoService.KeySource,
	algorithm cryptoDomain.Algorithm,
	logger *slog.Logger,
) VaultUseCase {
	return &vaultUseCase{
		txManager:   txManager,
		repo:        repo,
		aeadManager: aeadManager,
		keySource:   keySource,
		algorithm:   algorithm,
		logger:      logger,
		now:         time.Now,
	}
}

// Save encrypts the secret and merges it into the user's _secureSecrets field.
func (v *vaultUseCase) Save(
	ctx context.Context,
	userID, provider string,
	secret, metadata map[string]any,
) (*credentialsDomain.SaveResult, error) {
	if err := validateOwner(userID); err != nil {
		return nil, err
	}
	if provider == "" {
		return nil, credentialsDomain.ErrProviderRequired
	}

	key, err := v.keySource.Key(ctx)
	if err != nil {
		return nil, err
	}

	blob, err := v.seal(key, secret, metadata)
	if err != nil {
		return nil, err
	}
	rawBlob, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credential blob: %w", err)
	}

	err = v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		blobs, err := v.loadBlobs(txCtx, userID)
		if err != nil {
			return err
		}
		if blobs == nil {
			blobs = make(map[string]json.RawMessage, 1)
		}
		blobs[provider] = rawBlob

		rawBlobs, err := json.Marshal(blobs)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", credentialsDomain.SecureSecretsField, err)
		}
		return v.repo.UpsertField(txCtx, userID, credentialsDomain.SecureSecretsField, rawBlobs)
	})
	if err != nil {
		return nil, err
	}

	return &credentialsDomain.SaveResult{Provider: provider, UpdatedAt: blob.UpdatedAt}, nil
}

// Get loads and decrypts one credential.
func (v *vaultUseCase) Get(
	ctx context.Context,
	userID, provider string,
) (*credentialsDomain.Credential, error) {
	if err := validateOwner(userID); err != nil {
		return nil, err
	}
	if provider == "" {
		return nil, credentialsDomain.ErrProviderRequired
	}

	key, err := v.keySource.Key(ctx)
	if err != nil {
		return nil, err
	}

	blobs, err := v.loadBlobs(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, ok := blobs[provider]
	if !ok {
		return nil, nil
	}
	return v.open(key, provider, raw)
}

// GetMany loads and decrypts several credentials with a single read.
func (v *vaultUseCase) GetMany(
	ctx context.Context,
	userID string,
	providers []string,
) (map[string]*credentialsDomain.Credential, error) {
	if err := validateOwner(userID); err != nil {
		return nil, err
	}

	key, err := v.keySource.Key(ctx)
	if err != nil {
		return nil, err
	}

	blobs, err := v.loadBlobs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(providers) == 0 {
		providers = make([]string, 0, len(blobs))
		for provider := range blobs {
			providers = append(providers, provider)
		}
		slices.Sort(providers)
	}

	result := make(map[string]*credentialsDomain.Credential, len(providers))
	for _, provider := range providers {
		raw, ok := blobs[provider]
		if !ok {
			continue
		}

		credential, err := v.open(key, provider, raw)
		if err != nil {
			v.logger.Warn("skipping undecryptable credential",
				slog.String("user_id", userID),
				slog.String("provider", provider),
				slog.Any("error", err))
			continue
		}
		if credential != nil {
			result[provider] = credential
		}
	}

	return result, nil
}

// loadBlobs returns the raw provider blobs of the user, or nil when none are stored.
func (v *vaultUseCase) loadBlobs(ctx context.Context, userID string) (map[string]json.RawMessage, error) {
	doc, err := v.repo.GetData(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, ok := doc[credentialsDomain.SecureSecretsField]
	if !ok || string(raw) == "null" {
		return nil, nil
	}

	var blobs map[string]json.RawMessage
	if err := json.Unmarshal(raw, &blobs); err != nil {
		return nil, apperrors.WrapKind(
			apperrors.ErrStoreFailure,
			err,
			"failed to decode "+credentialsDomain.SecureSecretsField,
		)
	}
	return blobs, nil
}

func (v *vaultUseCase) seal(
	key []byte,
	secret, metadata map[string]any,
) (*credentialsDomain.EncryptedBlob, error) {
	plaintext, err := json.Marshal(credentialsDomain.StripNil(secret))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "secret is not JSON serializable")
	}
	defer cryptoDomain.Zero(plaintext)

	cipher, err := v.aeadManager.CreateCipher(key, v.algorithm)
	if err != nil {
		return nil, err
	}

	payload, err := cryptoService.SealDetached(cipher, plaintext)
	if err != nil {
		return nil, err
	}

	return &credentialsDomain.EncryptedBlob{
		Version:    credentialsDomain.BlobVersion,
		Algorithm:  v.algorithm,
		IV:         payload.Nonce,
		Ciphertext: payload.Ciphertext,
		AuthTag:    payload.Tag,
		Metadata:   credentialsDomain.StripNil(metadata),
		UpdatedAt:  v.now().UTC().Truncate(time.Millisecond),
	}, nil
}

// open decrypts a raw blob. A blob lacking iv, ciphertext or tag yields nil without error.
func (v *vaultUseCase) open(
	key []byte,
	provider string,
	raw json.RawMessage,
) (*credentialsDomain.Credential, error) {
	var blob credentialsDomain.EncryptedBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, fmt.Errorf("%w: malformed blob: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	if !blob.Sealed() {
		return nil, nil
	}
	if blob.Version > credentialsDomain.BlobVersion {
		return nil, fmt.Errorf("%w: unsupported blob version %d", cryptoDomain.ErrDecryptionFailed, blob.Version)
	}

	cipher, err := v.aeadManager.CreateCipher(key, blob.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := cryptoService.OpenDetached(cipher, cryptoService.Detached{
		Nonce:      blob.IV,
		Ciphertext: blob.Ciphertext,
		Tag:        blob.AuthTag,
	})
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	var secret map[string]any
	if err := json.Unmarshal(plaintext, &secret); err != nil {
		return nil, fmt.Errorf("%w: plaintext is not a JSON object", cryptoDomain.ErrDecryptionFailed)
	}

	metadata := blob.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &credentialsDomain.Credential{
		Provider:  provider,
		Secret:    secret,
		Metadata:  metadata,
		UpdatedAt: blob.UpdatedAt,
	}, nil
}

func validateOwner(userID string) error {
	if userID == "" {
		return credentialsDomain.ErrUserIDRequired
	}
	return nil
}
