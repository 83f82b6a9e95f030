package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors surfaced over HTTP.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

// NewUnauthenticated returns the uniform 401. The message is deliberately
// identical for missing, malformed, expired, and unknown-identity cases so
// callers cannot probe which identities exist.
func NewUnauthenticated() error {
	return NewDomainError("UNAUTHENTICATED", "authentication required", http.StatusUnauthorized, nil)
}

// NewForbidden returns the uniform 403 used for identity-mismatch and
// ownership failures. It carries no detail about why access was denied.
func NewForbidden() error {
	return NewDomainError("FORBIDDEN", "access denied", http.StatusForbidden, nil)
}

func NewConflict(message string) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, nil)
}

// NewProviderRegistrationFailed reports a failure to provision the external
// identity. Nothing was persisted locally; the caller may retry.
func NewProviderRegistrationFailed(err error) error {
	return &DomainError{
		Code:       "PROVIDER_REGISTRATION_FAILED",
		Message:    "registration is temporarily unavailable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewDatabaseRegistrationFailed reports a local persistence failure whose
// remote side effect was rolled back. Safe for the caller to retry.
func NewDatabaseRegistrationFailed(err error) error {
	return &DomainError{
		Code:       "DATABASE_REGISTRATION_FAILED",
		Message:    "registration failed, please try again",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewRegistrationRollbackFailed reports the double failure: local persistence
// failed and the compensating delete of the external identity also failed.
// The outward message stays generic; the orphaned identity id and both
// underlying errors live only in server-side logs and the wrapped error.
func NewRegistrationRollbackFailed(err error) error {
	return &DomainError{
		Code:       "REGISTRATION_ROLLBACK_FAILED",
		Message:    "registration failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
