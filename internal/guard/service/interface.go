package service

import (
	"context"

	guardDomain "github.com/allisson/requestguard/internal/guard/domain"
)

// IdentityProvider verifies a bearer token and returns the identity it belongs to.
// Implementations perform a one-shot verification: no session is kept and no token is refreshed.
type IdentityProvider interface {
	VerifyToken(ctx context.Context, token string) (*guardDomain.Identity, error)
}
