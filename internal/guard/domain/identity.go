// Package domain defines the core types of the request guard: authenticated identities
// and fixed-window rate limit state.
package domain

// Identity is the caller verified by the identity provider.
//
// Only ID is interpreted by this service. Attributes carries whatever else the provider
// returned and is never persisted.
type Identity struct {
	ID         string
	Attributes map[string]any
}
