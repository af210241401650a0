package dto

import (
	"errors"
	"net/http"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
)

// Transport-level error codes. Domain errors keep their own codes
// (INVALID_AMOUNT, PAYMENT_EXCEEDS_DUE, ...) and are mapped by kind.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// KindHTTPStatus maps a domain error kind to its HTTP status
var KindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:        http.StatusBadRequest,
	shared.KindNotFound:          http.StatusNotFound,
	shared.KindForbidden:         http.StatusForbidden,
	shared.KindConflict:          http.StatusConflict,
	shared.KindInsufficientFunds: http.StatusUnprocessableEntity,
	shared.KindInternal:          http.StatusInternalServerError,
}

// ErrorCodeHTTPStatus maps the transport-level codes to HTTP statuses
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeDuplicateRequest: http.StatusConflict,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// GetHTTPStatus returns the status for a domain error kind. Unknown kinds are 500.
func GetHTTPStatus(kind shared.ErrorKind) int {
	if status, ok := KindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// StatusForCode returns the status for a transport-level code. Unknown codes are 500.
func StatusForCode(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts err to a status and the error body. Anything that is not
// a DomainError is reported as INTERNAL_ERROR without leaking its message.
func FromError(err error) (int, ErrorInfo) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		kind := de.Kind
		if kind == "" {
			kind = shared.KindValidation
		}
		return GetHTTPStatus(kind), ErrorInfo{Code: de.Code, Message: de.Message}
	}
	return http.StatusInternalServerError, ErrorInfo{Code: ErrCodeInternal, Message: "An unexpected error occurred"}
}
