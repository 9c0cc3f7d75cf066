// Package mocks provides mock implementations for testing the credential vault.
package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	credentialsDomain "github.com/allisson/requestguard/internal/credentials/domain"
)

// MockAppDataRepository is a mock implementation of AppDataRepository for testing.
type MockAppDataRepository struct {
	mock.Mock
}

// GetData mocks the GetData method of AppDataRepository.
func (m *MockAppDataRepository) GetData(ctx context.Context, userID string) (map[string]json.RawMessage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]json.RawMessage), args.Error(1)
}

// UpsertField mocks the UpsertField method of AppDataRepository.
func (m *MockAppDataRepository) UpsertField(
	ctx context.Context,
	userID, field string,
	value json.RawMessage,
) error {
	args := m.Called(ctx, userID, field, value)
	return args.Error(0)
}

// MockVaultUseCase is a mock implementation of VaultUseCase for testing.
type MockVaultUseCase struct {
	mock.Mock
}

// Save mocks the Save method of VaultUseCase.
func (m *MockVaultUseCase) Save(
	ctx context.Context,
	userID, provider string,
	secret, metadata map[string]any,
) (*credentialsDomain.SaveResult, error) {
	args := m.Called(ctx, userID, provider, secret, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialsDomain.SaveResult), args.Error(1)
}

// Get mocks the Get method of VaultUseCase.
func (m *MockVaultUseCase) Get(
	ctx context.Context,
	userID, provider string,
) (*credentialsDomain.Credential, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialsDomain.Credential), args.Error(1)
}

// GetMany mocks the GetMany method of VaultUseCase.
func (m *MockVaultUseCase) GetMany(
	ctx context.Context,
	userID string,
	providers []string,
) (map[string]*credentialsDomain.Credential, error) {
	args := m.Called(ctx, userID, providers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*credentialsDomain.Credential), args.Error(1)
}
