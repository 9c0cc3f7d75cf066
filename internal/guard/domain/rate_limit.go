package domain

import (
	"math"
	"time"
)

// RateLimitEntry is the counter state for one purpose:client key within a window.
type RateLimitEntry struct {
	Count   int
	ResetAt time.Time
}

// Expired reports whether the window of the entry has elapsed at now.
func (e *RateLimitEntry) Expired(now time.Time) bool {
	return !now.Before(e.ResetAt)
}

// RetryAfterSeconds is the whole number of seconds until the window resets, never less than 1.
func (e *RateLimitEntry) RetryAfterSeconds(now time.Time) int {
	seconds := int(math.Ceil(e.ResetAt.Sub(now).Seconds()))
	return max(seconds, 1)
}

// RateLimitResult is the outcome of a single rate limit check.
type RateLimitResult struct {
	Allowed           bool
	Remaining         int
	RetryAfterSeconds int
}

// RateLimitKey builds the table key for a purpose and client identifier.
func RateLimitKey(purpose, clientID string) string {
	return purpose + ":" + clientID
}
