package service

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	guardDomain "github.com/allisson/requestguard/internal/guard/domain"
)

// DefaultSweepThreshold is the table size above which expired entries are swept.
const DefaultSweepThreshold = 1000

// UnknownClientID identifies callers with neither a forwarded-for header nor a peer address.
const UnknownClientID = "unknown"

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) {
		l.now = now
	}
}

// WithSweepThreshold overrides DefaultSweepThreshold. Non-positive values are ignored.
func WithSweepThreshold(threshold int) RateLimiterOption {
	return func(l *RateLimiter) {
		if threshold > 0 {
			l.sweepThreshold = threshold
		}
	}
}

// WithLogger sets the logger used for sweep summaries.
func WithLogger(logger *slog.Logger) RateLimiterOption {
	return func(l *RateLimiter) {
		l.logger = logger
	}
}

// RateLimiter is a process-local fixed-window counter keyed by purpose and client.
//
// Each key gets a window that starts on its first request and lasts for the window
// passed to Check. Requests beyond max within the window are rejected until it resets;
// the reset replaces the entry, it never extends it. Expired entries are swept
// opportunistically when the table grows past the sweep threshold, so no background
// goroutine is needed. Counters are not shared across instances.
type RateLimiter struct {
	mu             sync.Mutex
	entries        map[string]*guardDomain.RateLimitEntry
	sweepThreshold int
	now            func() time.Time
	logger         *slog.Logger
	sweepLog       rate.Sometimes
}

// NewRateLimiter creates an empty RateLimiter.
func NewRateLimiter(opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{
		entries:        make(map[string]*guardDomain.RateLimitEntry),
		sweepThreshold: DefaultSweepThreshold,
		now:            time.Now,
		sweepLog:       rate.Sometimes{First: 1, Interval: time.Minute},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check counts one request for purpose:clientID and reports whether it is within
// maxRequests per window.
func (l *RateLimiter) Check(
	purpose, clientID string,
	maxRequests int,
	window time.Duration,
) guardDomain.RateLimitResult {
	key := guardDomain.RateLimitKey(purpose, clientID)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.entries) > l.sweepThreshold {
		l.sweep(now)
	}

	entry, ok := l.entries[key]
	if !ok || entry.Expired(now) {
		l.entries[key] = &guardDomain.RateLimitEntry{Count: 1, ResetAt: now.Add(window)}
		return guardDomain.RateLimitResult{Allowed: true, Remaining: maxRequests - 1}
	}

	if entry.Count >= maxRequests {
		return guardDomain.RateLimitResult{
			Allowed:           false,
			Remaining:         0,
			RetryAfterSeconds: entry.RetryAfterSeconds(now),
		}
	}

	entry.Count++
	return guardDomain.RateLimitResult{Allowed: true, Remaining: maxRequests - entry.Count}
}

// Len returns the number of tracked keys.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// sweep deletes every expired entry. Callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	before := len(l.entries)
	for key, entry := range l.entries {
		if entry.Expired(now) {
			delete(l.entries, key)
		}
	}

	if l.logger != nil {
		l.sweepLog.Do(func() {
			l.logger.Debug("rate limiter swept expired entries",
				slog.Int("removed", before-len(l.entries)),
				slog.Int("remaining", len(l.entries)))
		})
	}
}

// ClientID derives the rate limit identity of a request: the first X-Forwarded-For
// element, else the peer address without port, else UnknownClientID.
func ClientID(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	return UnknownClientID
}
