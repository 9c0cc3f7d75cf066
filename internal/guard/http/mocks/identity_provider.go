// Package mocks provides mock implementations for testing the request guard.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	guardDomain "github.com/allisson/requestguard/internal/guard/domain"
)

// MockIdentityProvider is a mock implementation of IdentityProvider for testing.
type MockIdentityProvider struct {
	mock.Mock
}

// VerifyToken mocks the VerifyToken method of IdentityProvider.
func (m *MockIdentityProvider) VerifyToken(ctx context.Context, token string) (*guardDomain.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*guardDomain.Identity), args.Error(1)
}

// MockBusinessMetrics is a mock implementation of BusinessMetrics for testing.
type MockBusinessMetrics struct {
	mock.Mock
}

// RecordOperation mocks the RecordOperation method of BusinessMetrics.
func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

// RecordDuration mocks the RecordDuration method of BusinessMetrics.
func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

// RecordGuardDecision mocks the RecordGuardDecision method of BusinessMetrics.
func (m *MockBusinessMetrics) RecordGuardDecision(ctx context.Context, purpose, stage, outcome string) {
	m.Called(ctx, purpose, stage, outcome)
}
