package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	guardDomain "github.com/allisson/requestguard/internal/guard/domain"
	guardService "github.com/allisson/requestguard/internal/guard/service"
	"github.com/allisson/requestguard/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthGate verifies bearer tokens with the configured identity provider.
type AuthGate struct {
	provider guardService.IdentityProvider
	required bool
	logger   *slog.Logger
}

// NewAuthGate creates an AuthGate. provider may be nil when no identity provider is
// configured; required is the default requirement resolved at startup.
func NewAuthGate(provider guardService.IdentityProvider, required bool, logger *slog.Logger) *AuthGate {
	return &AuthGate{
		provider: provider,
		required: required,
		logger:   logger,
	}
}

// Required reports whether endpoints require authentication unless they opt out.
func (g *AuthGate) Required() bool {
	return g.required
}

// ExtractBearer returns the token of a case-insensitive "Bearer <token>" Authorization
// header, or "" when absent or malformed.
func ExtractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// Authenticate resolves token to an identity. An empty token or any provider rejection
// yields a nil identity without error. A token presented while no provider is configured
// is a deployment error.
func (g *AuthGate) Authenticate(ctx context.Context, token string) (*guardDomain.Identity, error) {
	if token == "" {
		return nil, nil
	}
	if g.provider == nil {
		return nil, guardDomain.ErrIdentityProviderNotConfigured
	}

	identity, err := g.provider.VerifyToken(ctx, token)
	if err != nil {
		g.logger.Debug("token verification failed", slog.Any("error", err))
		return nil, nil
	}
	return identity, nil
}

// Enforce authenticates the request and stores the identity in its context. When required
// is true and no identity was found it writes 401 and returns false. Configuration errors
// are written as 500 regardless of required.
func (g *AuthGate) Enforce(c *gin.Context, required bool) (*guardDomain.Identity, bool) {
	identity, err := g.Authenticate(c.Request.Context(), ExtractBearer(c.Request))
	if err != nil {
		httputil.HandleErrorGin(c, err, g.logger)
		return nil, false
	}

	if identity == nil {
		if required {
			httputil.HandleErrorGin(c, guardDomain.ErrAuthenticationRequired, g.logger)
			return nil, false
		}
		return nil, true
	}

	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
	return identity, true
}
