// Package dto provides data transfer objects for the credential endpoints.
package dto

import (
	"strings"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/requestguard/internal/validation"
)

// maxProvidersPerRequest bounds the ?providers= list of a bulk read.
const maxProvidersPerRequest = 50

// SaveCredentialRequest is the body of PUT /v1/credentials/:provider.
type SaveCredentialRequest struct {
	Secret   map[string]any `json:"secret"`
	Metadata map[string]any `json:"metadata"`
}

// Validate checks if the save credential request is valid.
func (r *SaveCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Secret, validation.Required),
	)
}

// ValidateProvider checks a provider path parameter.
func ValidateProvider(provider string) error {
	return validation.Validate(provider,
		validation.Required,
		customValidation.ProviderName,
	)
}

// ParseProviders splits a comma-separated providers query value, dropping blanks and
// duplicates while keeping the first-seen order. An empty value yields nil, meaning
// every stored provider.
func ParseProviders(value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	seen := make(map[string]struct{})
	providers := make([]string, 0)
	for part := range strings.SplitSeq(value, ",") {
		provider := strings.TrimSpace(part)
		if provider == "" {
			continue
		}
		if _, ok := seen[provider]; ok {
			continue
		}
		seen[provider] = struct{}{}
		providers = append(providers, provider)
	}

	err := validation.Validate(providers,
		validation.Length(0, maxProvidersPerRequest),
		validation.Each(customValidation.ProviderName),
	)
	if err != nil {
		return nil, err
	}
	return providers, nil
}
