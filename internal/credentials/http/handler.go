// Package http provides HTTP handlers for the credential vault. Every handler expects the
// request guard to have authenticated the caller; the identity id is the owning user id.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	credentialsDomain "github.com/allisson/requestguard/internal/credentials/domain"
	"github.com/allisson/requestguard/internal/credentials/http/dto"
	credentialsUseCase "github.com/allisson/requestguard/internal/credentials/usecase"
	guardDomain "github.com/allisson/requestguard/internal/guard/domain"
	guardHTTP "github.com/allisson/requestguard/internal/guard/http"
	"github.com/allisson/requestguard/internal/httputil"
	customValidation "github.com/allisson/requestguard/internal/validation"
)

// CredentialHandler handles HTTP requests for the credential vault.
type CredentialHandler struct {
	vaultUseCase credentialsUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewCredentialHandler creates a new credential handler.
func NewCredentialHandler(vaultUseCase credentialsUseCase.VaultUseCase, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{
		vaultUseCase: vaultUseCase,
		logger:       logger,
	}
}

// ListHandler returns the caller's credentials.
// GET /v1/credentials?providers=a,b - every stored provider when the list is omitted.
func (h *CredentialHandler) ListHandler(c *gin.Context) {
	userID, ok := h.owner(c)
	if !ok {
		return
	}

	providers, err := dto.ParseProviders(c.Query("providers"))
	if err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	credentials, err := h.vaultUseCase.GetMany(c.Request.Context(), userID, providers)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialsToListResponse(credentials))
}

// ItemHandler dispatches GET and PUT on /v1/credentials/:provider. The guard has already
// rejected every other method.
func (h *CredentialHandler) ItemHandler(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodPut:
		h.SaveHandler(c)
	default:
		h.GetHandler(c)
	}
}

// GetHandler returns one decrypted credential.
// GET /v1/credentials/:provider - 404 when never saved.
func (h *CredentialHandler) GetHandler(c *gin.Context) {
	userID, ok := h.owner(c)
	if !ok {
		return
	}

	provider := c.Param("provider")
	if err := dto.ValidateProvider(provider); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	credential, err := h.vaultUseCase.Get(c.Request.Context(), userID, provider)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if credential == nil {
		httputil.HandleErrorGin(c, credentialsDomain.ErrCredentialNotFound, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialToResponse(credential))
}

// SaveHandler seals and stores a credential, replacing any previous one.
// PUT /v1/credentials/:provider
func (h *CredentialHandler) SaveHandler(c *gin.Context) {
	userID, ok := h.owner(c)
	if !ok {
		return
	}

	provider := c.Param("provider")
	if err := dto.ValidateProvider(provider); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	var req dto.SaveCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.vaultUseCase.Save(c.Request.Context(), userID, provider, req.Secret, req.Metadata)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSaveResultToResponse(result))
}

// owner resolves the authenticated user id, writing 401 when the route was mounted
// without authentication.
func (h *CredentialHandler) owner(c *gin.Context) (string, bool) {
	identity, ok := guardHTTP.GetIdentity(c.Request.Context())
	if !ok || identity.ID == "" {
		httputil.HandleErrorGin(c, guardDomain.ErrAuthenticationRequired, h.logger)
		return "", false
	}
	return identity.ID, true
}
