package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	guardHTTP "github.com/allisson/requestguard/internal/guard/http"
	guardService "github.com/allisson/requestguard/internal/guard/service"
	"github.com/allisson/requestguard/internal/metrics"
)

type guardComponents struct {
	originPolicy     *guardService.OriginPolicy
	rateLimiter      *guardService.RateLimiter
	identityProvider guardService.IdentityProvider
	authGate         *guardHTTP.AuthGate
	requestGuard     *guardHTTP.RequestGuard

	originPolicyInit     sync.Once
	rateLimiterInit      sync.Once
	identityProviderInit sync.Once
	authGateInit         sync.Once
	requestGuardInit     sync.Once
}

// OriginPolicy returns the origin policy built from ALLOWED_ORIGINS and APP_ORIGIN.
func (c *Container) OriginPolicy() *guardService.OriginPolicy {
	c.guard.originPolicyInit.Do(func() {
		c.guard.originPolicy = guardService.NewOriginPolicy(c.config.AllowedOriginList(), c.config.AppOrigin)
		if !c.guard.originPolicy.HasAllowList() {
			c.Logger().Warn("ALLOWED_ORIGINS is empty, falling back to origin heuristics",
				slog.Any("rules", c.guard.originPolicy.Rules()))
		}
	})
	return c.guard.originPolicy
}

// RateLimiter returns the process-wide rate limiter. Its table size is exported as a
// gauge when metrics are enabled.
func (c *Container) RateLimiter() (*guardService.RateLimiter, error) {
	var err error
	c.guard.rateLimiterInit.Do(func() {
		c.guard.rateLimiter, err = c.initRateLimiter()
		if err != nil {
			c.setInitError("rateLimiter", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("rateLimiter"); storedErr != nil {
		return nil, storedErr
	}
	return c.guard.rateLimiter, nil
}

// IdentityProvider returns the configured token verifier, or nil when none is configured.
func (c *Container) IdentityProvider() guardService.IdentityProvider {
	c.guard.identityProviderInit.Do(func() {
		c.guard.identityProvider = guardService.NewIdentityProvider(guardService.IdentityProviderConfig{
			URL:       c.config.IdentityProviderURL,
			PublicKey: c.config.IdentityProviderPublicKey,
			JWTSecret: c.config.IdentityProviderJWTSecret,
			Timeout:   c.config.IdentityProviderTimeout,
		})
		if c.guard.identityProvider == nil {
			c.Logger().Warn("no identity provider configured, bearer tokens will be rejected")
		}
	})
	return c.guard.identityProvider
}

// AuthGate returns the authentication gate. Its default requirement is resolved once here.
func (c *Container) AuthGate() *guardHTTP.AuthGate {
	c.guard.authGateInit.Do(func() {
		c.guard.authGate = guardHTTP.NewAuthGate(
			c.IdentityProvider(),
			c.config.AuthRequiredByDefault(),
			c.Logger(),
		)
	})
	return c.guard.authGate
}

// RequestGuard returns the request guard shared by every API route.
func (c *Container) RequestGuard() (*guardHTTP.RequestGuard, error) {
	var err error
	c.guard.requestGuardInit.Do(func() {
		c.guard.requestGuard, err = c.initRequestGuard()
		if err != nil {
			c.setInitError("requestGuard", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("requestGuard"); storedErr != nil {
		return nil, storedErr
	}
	return c.guard.requestGuard, nil
}

func (c *Container) initRateLimiter() (*guardService.RateLimiter, error) {
	limiter := guardService.NewRateLimiter(
		guardService.WithSweepThreshold(c.config.RateLimitSweepThreshold),
		guardService.WithLogger(c.Logger()),
	)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for rate limiter: %w", err)
	}
	if provider != nil {
		err := metrics.RegisterRateLimiterGauge(provider.MeterProvider(), c.config.MetricsNamespace, limiter.Len)
		if err != nil {
			return nil, err
		}
	}
	return limiter, nil
}

func (c *Container) initRequestGuard() (*guardHTTP.RequestGuard, error) {
	limiter, err := c.RateLimiter()
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limiter for request guard: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for request guard: %w", err)
	}

	defaults := guardHTTP.Policy{
		Methods:     []string{http.MethodGet},
		MaxRequests: c.config.RateLimitMaxRequests,
		Window:      c.config.RateLimitWindow,
	}

	return guardHTTP.NewRequestGuard(
		c.OriginPolicy(),
		limiter,
		c.AuthGate(),
		defaults,
		businessMetrics,
		c.Logger(),
	), nil
}
