package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	guardDomain "github.com/allisson/requestguard/internal/guard/domain"
	guardService "github.com/allisson/requestguard/internal/guard/service"
	"github.com/allisson/requestguard/internal/httputil"
	"github.com/allisson/requestguard/internal/metrics"
)

// Pipeline stages as reported in guard decision metrics.
const (
	StageOrigin    = "origin"
	StagePreflight = "preflight"
	StageMethod    = "method"
	StageRateLimit = "rate_limit"
	StageAuth      = "auth"
)

// Stage outcomes.
const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeError   = "error"
)

// OriginDecider decides whether a request origin may proceed.
type OriginDecider interface {
	Decide(origin, host string) (string, bool)
}

// Limiter counts requests per purpose and client.
type Limiter interface {
	Check(purpose, clientID string, maxRequests int, window time.Duration) guardDomain.RateLimitResult
}

// Policy configures the guard for one endpoint.
type Policy struct {
	// Purpose namespaces the rate limit counters, e.g. "forecast".
	Purpose string
	// Methods lists the accepted methods. OPTIONS is always handled as preflight.
	Methods []string
	// MaxRequests and Window override the guard defaults when positive.
	MaxRequests int
	Window      time.Duration
	// RequireAuth overrides the AuthGate default when non-nil.
	RequireAuth *bool
}

// RequireAuth returns a pointer for Policy.RequireAuth.
func RequireAuth(required bool) *bool {
	return &required
}

// RequestGuard runs the fixed pipeline in front of a handler: origin (403), preflight
// (bare 200), method (405), rate limit (429 with Retry-After), authentication (401).
// Cheap stateless checks run before the stateful counter, which runs before the
// network-bound token verification.
type RequestGuard struct {
	origin          OriginDecider
	limiter         Limiter
	auth            *AuthGate
	defaults        Policy
	businessMetrics metrics.BusinessMetrics
	logger          *slog.Logger
}

// NewRequestGuard creates a RequestGuard. defaults supplies MaxRequests, Window and
// Methods for policies that leave them unset.
func NewRequestGuard(
	origin OriginDecider,
	limiter Limiter,
	auth *AuthGate,
	defaults Policy,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *RequestGuard {
	return &RequestGuard{
		origin:          origin,
		limiter:         limiter,
		auth:            auth,
		defaults:        defaults,
		businessMetrics: businessMetrics,
		logger:          logger,
	}
}

// Handler returns the guard middleware for policy. Business handlers registered after it
// run only when every stage passes and can read the identity with GetIdentity.
func (g *RequestGuard) Handler(policy Policy) gin.HandlerFunc {
	policy = g.resolve(policy)
	allow := strings.Join(policy.Methods, ", ")

	return func(c *gin.Context) {
		allowedOrigin, ok := g.origin.Decide(c.GetHeader("Origin"), c.Request.Host)
		if !ok {
			g.reject(c, policy.Purpose, StageOrigin, guardDomain.ErrOriginNotAllowed)
			return
		}
		g.record(c, policy.Purpose, StageOrigin, OutcomeAllowed)

		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", allowedOrigin)
		header.Add("Vary", "Origin")
		header.Set("Access-Control-Allow-Methods", guardService.AllowedMethods)
		header.Set("Access-Control-Allow-Headers", guardService.AllowedHeaders)

		if c.Request.Method == http.MethodOptions {
			g.record(c, policy.Purpose, StagePreflight, OutcomeAllowed)
			c.AbortWithStatus(http.StatusOK)
			return
		}

		if !slices.Contains(policy.Methods, c.Request.Method) {
			header.Set("Allow", allow)
			g.reject(c, policy.Purpose, StageMethod, guardDomain.ErrMethodNotAllowed)
			return
		}

		result := g.limiter.Check(
			policy.Purpose,
			guardService.ClientID(c.Request),
			policy.MaxRequests,
			policy.Window,
		)
		if !result.Allowed {
			header.Set("Retry-After", strconv.Itoa(result.RetryAfterSeconds))
			g.reject(c, policy.Purpose, StageRateLimit, guardDomain.ErrRateLimitExceeded)
			return
		}
		g.record(c, policy.Purpose, StageRateLimit, OutcomeAllowed)

		required := g.auth.Required()
		if policy.RequireAuth != nil {
			required = *policy.RequireAuth
		}
		if _, ok := g.auth.Enforce(c, required); !ok {
			outcome := OutcomeDenied
			if c.Writer.Status() >= http.StatusInternalServerError {
				outcome = OutcomeError
			}
			g.record(c, policy.Purpose, StageAuth, outcome)
			return
		}
		g.record(c, policy.Purpose, StageAuth, OutcomeAllowed)

		c.Next()
	}
}

func (g *RequestGuard) resolve(policy Policy) Policy {
	if policy.MaxRequests <= 0 {
		policy.MaxRequests = g.defaults.MaxRequests
	}
	if policy.Window <= 0 {
		policy.Window = g.defaults.Window
	}
	if len(policy.Methods) == 0 {
		policy.Methods = g.defaults.Methods
	}
	if len(policy.Methods) == 0 {
		policy.Methods = []string{http.MethodGet}
	}
	if policy.RequireAuth == nil {
		policy.RequireAuth = g.defaults.RequireAuth
	}
	return policy
}

func (g *RequestGuard) reject(c *gin.Context, purpose, stage string, err error) {
	g.record(c, purpose, stage, OutcomeDenied)
	httputil.HandleErrorGin(c, err, g.logger)
}

func (g *RequestGuard) record(c *gin.Context, purpose, stage, outcome string) {
	g.businessMetrics.RecordGuardDecision(c.Request.Context(), purpose, stage, outcome)
}
