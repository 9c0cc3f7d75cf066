package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/requestguard/internal/errors"
)

func TestHandleErrorGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "invalid input exposes validation message",
			err:             apperrors.Wrap(apperrors.ErrInvalidInput, "provider is required"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "provider is required: invalid input",
		},
		{
			name:            "unauthorized",
			err:             apperrors.ErrUnauthorized,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Authentication required",
		},
		{
			name:            "forbidden",
			err:             apperrors.ErrForbidden,
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "Origin not allowed",
		},
		{
			name:            "not found",
			err:             apperrors.ErrNotFound,
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Not found",
		},
		{
			name:            "method not allowed",
			err:             apperrors.ErrMethodNotAllowed,
			expectedStatus:  http.StatusMethodNotAllowed,
			expectedMessage: "Method not allowed",
		},
		{
			name:            "rate limited",
			err:             apperrors.ErrRateLimited,
			expectedStatus:  http.StatusTooManyRequests,
			expectedMessage: "Too many requests. Please retry later.",
		},
		{
			name:            "misconfigured",
			err:             apperrors.Wrap(apperrors.ErrMisconfigured, "SECRETS_MASTER_KEY is not set"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Server is not configured",
		},
		{
			name: "store failure is generic",
			err: apperrors.WrapKind(
				apperrors.ErrStoreFailure,
				errors.New("pq: relation app_data does not exist"),
				"failed to load app data",
			),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "An internal error occurred",
		},
		{
			name:            "unknown error is generic",
			err:             fmt.Errorf("boom"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "An internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/v1/credentials", nil)

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, c.IsAborted())

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Len(t, body, 1)
			assert.Equal(t, tt.expectedMessage, body["error"])
		})
	}
}

func TestHandleErrorGin_NilErrorWritesNothing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleErrorGin(c, nil, nil)

	assert.False(t, c.IsAborted())
	assert.Empty(t, w.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/v1/credentials/shopify", nil)

	HandleBadRequestGin(c, errors.New("unexpected EOF"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"unexpected EOF"}`, w.Body.String())
}
