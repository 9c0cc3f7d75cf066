package service

import "time"

// IdentityProviderConfig holds the settings used to select an IdentityProvider.
type IdentityProviderConfig struct {
	URL       string
	PublicKey string
	JWTSecret string
	Timeout   time.Duration
}

// NewIdentityProvider selects local JWT verification when a signing secret is configured,
// the remote GoTrue lookup when URL and public key are configured, and nil otherwise.
func NewIdentityProvider(cfg IdentityProviderConfig) IdentityProvider {
	switch {
	case cfg.JWTSecret != "":
		return NewJWTIdentityProvider(cfg.JWTSecret)
	case cfg.URL != "" && cfg.PublicKey != "":
		return NewGoTrueIdentityProvider(cfg.URL, cfg.PublicKey, cfg.Timeout)
	default:
		return nil
	}
}
