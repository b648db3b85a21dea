// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: the structured error envelope, a translation from service
// sentinel errors to HTTP responses, and success helpers. Uniform shapes
// keep the API predictable for the front-desk client.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "child not found"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitadesk/kitadesk-backend/internal/http/middleware"
	"github.com/kitadesk/kitadesk-backend/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// RequestID correlates server logs and client errors.
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Code is a stable, machine-readable string (see errors.go constants).
	Code string `json:"code" example:"not_found"`
	// Message is human-readable and safe to show to users.
	Message string `json:"message" example:"child not found"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failFromService maps a service-layer error to the response taxonomy.
// Validation sentinels become 400, lookups 404, conflicts 409, credential
// failures 401, and anything unrecognized is treated as a persistence or
// dependency failure: a generic 500 that leaks no internal detail.
func failFromService(c *gin.Context, err error) {
	switch {
	case isValidationErr(err):
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, services.ErrChildNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	default:
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("operation failed")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

// isValidationErr reports whether err is one of the input-validation sentinels.
func isValidationErr(err error) bool {
	for _, sentinel := range []error{
		services.ErrNameRequired,
		services.ErrParentPhoneRequired,
		services.ErrPickupTimeRequired,
		services.ErrPickupTimeInvalid,
		services.ErrStatusInvalid,
		services.ErrChildIDRequired,
		services.ErrChildNameRequired,
		services.ErrActionTypeRequired,
		services.ErrMessageRequired,
		services.ErrSettingKeyRequired,
		services.ErrUsernameRequired,
		services.ErrPasswordRequired,
		services.ErrPasswordTooShort,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// ok writes a success JSON response with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
