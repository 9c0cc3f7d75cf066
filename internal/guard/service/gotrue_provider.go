package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	guardDomain "github.com/allisson/requestguard/internal/guard/domain"
)

const gotrueUserPath = "/auth/v1/user"

// maxIdentityResponseBytes bounds the identity provider response body.
const maxIdentityResponseBytes = 1 << 20

// GoTrueIdentityProvider verifies tokens against a GoTrue-compatible auth server
// by fetching the user the token belongs to.
type GoTrueIdentityProvider struct {
	baseURL   string
	publicKey string
	client    *http.Client
}

// NewGoTrueIdentityProvider creates a provider for the auth server at baseURL.
// publicKey is sent as the apikey header on every call.
func NewGoTrueIdentityProvider(baseURL, publicKey string, timeout time.Duration) *GoTrueIdentityProvider {
	return &GoTrueIdentityProvider{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		publicKey: publicKey,
		client:    &http.Client{Timeout: timeout},
	}
}

// VerifyToken returns the identity for token, or an error if the auth server rejects it.
func (p *GoTrueIdentityProvider) VerifyToken(
	ctx context.Context,
	token string,
) (*guardDomain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+gotrueUserPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("apikey", p.publicKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxIdentityResponseBytes))
		return nil, fmt.Errorf("identity provider rejected token: status %d", resp.StatusCode)
	}

	var user map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxIdentityResponseBytes)).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}

	id, _ := user["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("identity response has no id")
	}

	return &guardDomain.Identity{ID: id, Attributes: user}, nil
}
