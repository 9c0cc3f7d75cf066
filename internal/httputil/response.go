// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/requestguard/internal/errors"
)

// ErrorResponse is the body of every rejection: a single human-readable message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON error body.
//
// Policy denials and rate limiting are expected outcomes and are logged at debug level.
// Server-side failures are logged at error level with the full error chain, while the
// response carries only a generic message so internals never leak to the caller.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var message string
	level := slog.LevelDebug

	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
		level = slog.LevelWarn

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Authentication required"

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		message = "Origin not allowed"

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Not found"

	case apperrors.Is(err, apperrors.ErrMethodNotAllowed):
		statusCode = http.StatusMethodNotAllowed
		message = "Method not allowed"

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		message = "A conflict occurred with existing data"

	case apperrors.Is(err, apperrors.ErrRateLimited):
		statusCode = http.StatusTooManyRequests
		message = "Too many requests. Please retry later."

	case apperrors.Is(err, apperrors.ErrMisconfigured):
		statusCode = http.StatusInternalServerError
		message = "Server is not configured"
		level = slog.LevelError

	default:
		// For store, crypto and unknown errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		message = "An internal error occurred"
		level = slog.LevelError
	}

	if logger != nil {
		logger.Log(c.Request.Context(), level, "request rejected",
			slog.Int("status_code", statusCode),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
