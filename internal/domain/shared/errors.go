package shared

import "errors"

// ErrorKind classifies a DomainError so the transport layer can map it to a
// status code without knowing every individual code.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindConflict          ErrorKind = "CONFLICT"
	KindInsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"
	KindInternal          ErrorKind = "INTERNAL"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on Code, so a DomainError created with a custom message still
// satisfies errors.Is against the package-level sentinel with the same code.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a validation-kind domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Kind:    KindValidation,
	}
}

// NewDomainErrorWithKind creates a domain error of the given kind
func NewDomainErrorWithKind(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Kind:    kind,
	}
}

// NewNotFoundError creates a NOT_FOUND error with a specific message
func NewNotFoundError(message string) *DomainError {
	return NewDomainErrorWithKind(KindNotFound, "NOT_FOUND", message)
}

// NewConflictError creates a conflict-kind error
func NewConflictError(code, message string) *DomainError {
	return NewDomainErrorWithKind(KindConflict, code, message)
}

// KindOf returns the kind of err, or KindInternal for anything that is not a
// DomainError.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		if de.Kind == "" {
			return KindValidation
		}
		return de.Kind
	}
	return KindInternal
}

// Common domain errors
var (
	ErrNotFound            = NewDomainErrorWithKind(KindNotFound, "NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainErrorWithKind(KindConflict, "ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainErrorWithKind(KindConflict, "CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainErrorWithKind(KindForbidden, "UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainErrorWithKind(KindForbidden, "FORBIDDEN", "Access to this resource is forbidden")
	ErrInsufficientFunds   = NewDomainErrorWithKind(KindInsufficientFunds, "INSUFFICIENT_FUNDS", "Insufficient funds in the selected channel")
)
