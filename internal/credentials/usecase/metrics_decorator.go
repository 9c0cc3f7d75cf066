package usecase

import (
	"context"
	"time"

	credentialsDomain "github.com/allisson/requestguard/internal/credentials/domain"
	"github.com/allisson/requestguard/internal/metrics"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Save records metrics for credential save operations.
func (v *vaultUseCaseWithMetrics) Save(
	ctx context.Context,
	userID, provider string,
	secret, metadata map[string]any,
) (*credentialsDomain.SaveResult, error) {
	start := time.Now()
	result, err := v.next.Save(ctx, userID, provider, secret, metadata)
	v.record(ctx, "save", start, err)
	return result, err
}

// Get records metrics for credential retrieval operations.
func (v *vaultUseCaseWithMetrics) Get(
	ctx context.Context,
	userID, provider string,
) (*credentialsDomain.Credential, error) {
	start := time.Now()
	credential, err := v.next.Get(ctx, userID, provider)
	v.record(ctx, "get", start, err)
	return credential, err
}

// GetMany records metrics for bulk credential retrieval operations.
func (v *vaultUseCaseWithMetrics) GetMany(
	ctx context.Context,
	userID string,
	providers []string,
) (map[string]*credentialsDomain.Credential, error) {
	start := time.Now()
	credentials, err := v.next.GetMany(ctx, userID, providers)
	v.record(ctx, "get_many", start, err)
	return credentials, err
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "credentials", operation, status)
	v.metrics.RecordDuration(ctx, "credentials", operation, time.Since(start), status)
}
