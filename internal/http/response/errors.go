package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/gatherly/internal/domain"
	"github.com/diagnosis/gatherly/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// Common error codes
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeRateLimit        = "RATE_LIMIT_EXCEEDED"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeEmailExists      = "EMAIL_EXISTS"
	CodeDeadlinePassed   = "DEADLINE_PASSED"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
	CodeEventLimit       = "EVENT_LIMIT_REACHED"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

// Domain maps a business-rule rejection from the service layer to its
// user-displayable error kind. Store failures become a generic 503 so no
// driver detail leaks to the client.
func Domain(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, ve.Error(), CodeInvalidInput)
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrRSVPNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), CodeNotFound)
	case errors.Is(err, domain.ErrDeadlinePassed):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), CodeDeadlinePassed)
	case errors.Is(err, domain.ErrCapacityExceeded):
		WriteError(w, http.StatusConflict, err.Error(), CodeCapacityExceeded)
	case errors.Is(err, domain.ErrIdentityRequired):
		WriteError(w, http.StatusUnauthorized, err.Error(), CodeUnauthorized)
	case errors.Is(err, domain.ErrNotOrganizer):
		WriteError(w, http.StatusForbidden, err.Error(), CodeForbidden)
	case errors.Is(err, domain.ErrEmailTaken):
		WriteError(w, http.StatusConflict, err.Error(), CodeEmailExists)
	case errors.Is(err, domain.ErrEventLimit):
		WriteError(w, http.StatusForbidden, err.Error(), CodeEventLimit)
	case errors.Is(err, domain.ErrStoreUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "service temporarily unavailable", CodeStoreUnavailable)
	default:
		WriteError(w, http.StatusInternalServerError, "internal error", CodeInternalError)
	}
}

// JSON writes a JSON body with the given status.
func JSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
