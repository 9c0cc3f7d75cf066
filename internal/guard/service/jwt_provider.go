package service

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	guardDomain "github.com/allisson/requestguard/internal/guard/domain"
)

// JWTIdentityProvider verifies HS256 tokens locally with the identity provider's signing secret.
type JWTIdentityProvider struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTIdentityProvider creates a provider that trusts tokens signed with secret.
func NewJWTIdentityProvider(secret string) *JWTIdentityProvider {
	return &JWTIdentityProvider{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// VerifyToken validates signature and expiry and returns the identity named by the sub claim.
func (p *JWTIdentityProvider) VerifyToken(
	_ context.Context,
	token string,
) (*guardDomain.Identity, error) {
	claims := jwt.MapClaims{}
	parsed, err := p.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &guardDomain.Identity{ID: subject, Attributes: map[string]any(claims)}, nil
}
