package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	credentialsDomain "github.com/allisson/requestguard/internal/credentials/domain"
	"github.com/allisson/requestguard/internal/credentials/http/dto"
	"github.com/allisson/requestguard/internal/credentials/usecase/mocks"
	cryptoDomain "github.com/allisson/requestguard/internal/crypto/domain"
	guardDomain "github.com/allisson/requestguard/internal/guard/domain"
	guardHTTP "github.com/allisson/requestguard/internal/guard/http"
	"github.com/allisson/requestguard/internal/httputil"
)

func setupTestHandler(t *testing.T) (*CredentialHandler, *mocks.MockVaultUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockVault := &mocks.MockVaultUseCase{}
	t.Cleanup(func() { mockVault.AssertExpectations(t) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewCredentialHandler(mockVault, logger), mockVault
}

// createTestContext builds a gin context for userID; an empty userID leaves the request anonymous.
func createTestContext(
	method, path, userID string,
	params gin.Params,
	body any,
) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req = req.WithContext(guardHTTP.WithIdentity(req.Context(), &guardDomain.Identity{ID: userID}))
	}
	c.Request = req
	c.Params = params

	return c, w
}

func providerParam(provider string) gin.Params {
	return gin.Params{{Key: "provider", Value: provider}}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.Error
}

func TestCredentialHandler_GetHandler(t *testing.T) {
	updatedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		handler, mockVault := setupTestHandler(t)
		mockVault.On("Get", mock.Anything, "u1", "openai").
			Return(&credentialsDomain.Credential{
				Provider:  "openai",
				Secret:    map[string]any{"apiKey": "sk-abc"},
				Metadata:  map[string]any{"label": "work"},
				UpdatedAt: updatedAt,
			}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/credentials/openai", "u1", providerParam("openai"), nil)
		handler.ItemHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.CredentialResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "openai", response.Provider)
		assert.Equal(t, "sk-abc", response.Secret["apiKey"])
		assert.Equal(t, "work", response.Metadata["label"])
		assert.True(t, updatedAt.Equal(response.UpdatedAt))
	})

	t.Run("NotFound", func(t *testing.T) {
		handler, mockVault := setupTestHandler(t)
		mockVault.On("Get", mock.Anything, "u1", "stripe").Return(nil, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/credentials/stripe", "u1", providerParam("stripe"), nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DecryptionFailed", func(t *testing.T) {
		handler, mockVault := setupTestHandler(t)
		mockVault.On("Get", mock.Anything, "u1", "openai").
			Return(nil, cryptoDomain.ErrDecryptionFailed).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/credentials/openai", "u1", providerParam("openai"), nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "An internal error occurred", decodeError(t, w))
	})

	t.Run("InvalidProvider", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/credentials/-bad", "u1", providerParam("-bad"), nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Anonymous", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/credentials/openai", "", providerParam("openai"), nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCredentialHandler_SaveHandler(t *testing.T) {
	updatedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		handler, mockVault := setupTestHandler(t)
		mockVault.On("Save", mock.Anything, "u1", "openai",
			map[string]any{"apiKey": "sk-abc"},
			map[string]any{"label": "work"},
		).
			Return(&credentialsDomain.SaveResult{Provider: "openai", UpdatedAt: updatedAt}, nil).
			Once()

		body := dto.SaveCredentialRequest{
			Secret:   map[string]any{"apiKey": "sk-abc"},
			Metadata: map[string]any{"label": "work"},
		}
		c, w := createTestContext(http.MethodPut, "/v1/credentials/openai", "u1", providerParam("openai"), body)
		handler.ItemHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.SaveCredentialResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "openai", response.Provider)
		assert.True(t, updatedAt.Equal(response.UpdatedAt))
	})

	t.Run("EmptySecret", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		body := dto.SaveCredentialRequest{Secret: map[string]any{}}
		c, w := createTestContext(http.MethodPut, "/v1/credentials/openai", "u1", providerParam("openai"), body)
		handler.SaveHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w), "secret")
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPut, "/v1/credentials/openai", "u1", providerParam("openai"), nil)
		c.Request.Body = io.NopCloser(bytes.NewBufferString(`{"secret":`))
		handler.SaveHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MissingMasterKey", func(t *testing.T) {
		handler, mockVault := setupTestHandler(t)
		mockVault.On("Save", mock.Anything, "u1", "openai", mock.Anything, mock.Anything).
			Return(nil, cryptoDomain.ErrMasterKeyNotSet).
			Once()

		body := dto.SaveCredentialRequest{Secret: map[string]any{"apiKey": "sk-abc"}}
		c, w := createTestContext(http.MethodPut, "/v1/credentials/openai", "u1", providerParam("openai"), body)
		handler.SaveHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Server is not configured", decodeError(t, w))
	})
}

func TestCredentialHandler_ListHandler(t *testing.T) {
	t.Run("AllProviders", func(t *testing.T) {
		handler, mockVault := setupTestHandler(t)
		mockVault.On("GetMany", mock.Anything, "u1", []string(nil)).
			Return(map[string]*credentialsDomain.Credential{
				"openai": {Provider: "openai", Secret: map[string]any{"apiKey": "a"}, Metadata: map[string]any{}},
			}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/credentials", "u1", nil, nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ListCredentialsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Credentials, 1)
		assert.Equal(t, "a", response.Credentials["openai"].Secret["apiKey"])
	})

	t.Run("SelectedProviders", func(t *testing.T) {
		handler, mockVault := setupTestHandler(t)
		mockVault.On("GetMany", mock.Anything, "u1", []string{"openai", "stripe"}).
			Return(map[string]*credentialsDomain.Credential{}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/credentials?providers=openai,%20stripe,openai", "u1", nil, nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"credentials":{}}`, w.Body.String())
	})

	t.Run("InvalidProviders", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/credentials?providers=ok,bad%20name", "u1", nil, nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		handler, mockVault := setupTestHandler(t)
		mockVault.On("GetMany", mock.Anything, "u1", []string(nil)).
			Return(nil, errors.New("connection refused")).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/credentials", "u1", nil, nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
