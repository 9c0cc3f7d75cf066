// Package http composes the request guard pipeline as Gin middleware: origin policy,
// preflight, method check, rate limit and bearer authentication.
package http

import (
	"context"

	guardDomain "github.com/allisson/requestguard/internal/guard/domain"
)

type identityKey struct{}

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, identity *guardDomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity retrieves the authenticated identity from the context.
// Returns (nil, false) when the request is anonymous.
func GetIdentity(ctx context.Context) (*guardDomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*guardDomain.Identity)
	return identity, ok && identity != nil
}
