package dto

import (
	"errors"
	"net/http"

	"github.com/backoffice/backend/internal/domain/shared"
)

// Error codes used across the API.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// statusByCode maps error codes to HTTP status codes.
var statusByCode = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusUnprocessableEntity,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code,
// defaulting to 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// MapDomainError translates a domain error into an API error code and
// HTTP status.
func MapDomainError(err error) (status int, code string, message string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "resource not found"
	case errors.Is(err, shared.ErrAlreadyExists):
		return http.StatusConflict, ErrCodeConflict, "resource already exists"
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized"
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden, "forbidden"
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error()
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return http.StatusUnprocessableEntity, domainErr.Code, domainErr.Message
	}
	return http.StatusInternalServerError, ErrCodeInternal, "internal server error"
}
