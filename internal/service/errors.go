package service

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenIdentityMismatch is returned when a valid token's subject does
	// not match the external identity the caller asked to sync. The caller
	// sees a uniform denial; the mismatch detail stays in server logs.
	ErrTokenIdentityMismatch = errors.New("token subject does not match requested identity")

	// ErrNotAccountOwner is returned when an authenticated caller tries to
	// sync an external identity other than their own.
	ErrNotAccountOwner = errors.New("caller does not own requested identity")
)

// RegistrationFailureKind tags the outcome of a failed registration saga so
// the double-failure case is a first-class branch rather than a nested
// error chain.
type RegistrationFailureKind string

const (
	// KindProviderFailed: Step A failed. Nothing was created anywhere.
	KindProviderFailed RegistrationFailureKind = "provider_failed"

	// KindDatabaseFailed: Step B failed and the compensating delete of the
	// external identity succeeded. Retryable by the caller.
	KindDatabaseFailed RegistrationFailureKind = "database_failed"

	// KindRollbackFailed: Step B failed and the compensating delete also
	// failed. An external identity now exists with no local account;
	// operator cleanup is required.
	KindRollbackFailed RegistrationFailureKind = "rollback_failed"
)

// RegistrationError is the tagged failure result of the registration saga.
type RegistrationError struct {
	Kind RegistrationFailureKind

	// Err is the Step A or Step B failure.
	Err error

	// RollbackErr and OrphanedExternalID are set only for KindRollbackFailed.
	RollbackErr        error
	OrphanedExternalID string
}

func (e *RegistrationError) Error() string {
	switch e.Kind {
	case KindProviderFailed:
		return fmt.Sprintf("registration: identity provider step failed: %v", e.Err)
	case KindDatabaseFailed:
		return fmt.Sprintf("registration: database step failed, external identity rolled back: %v", e.Err)
	case KindRollbackFailed:
		return fmt.Sprintf("registration: database step failed (%v) and rollback of external identity %s failed (%v)",
			e.Err, e.OrphanedExternalID, e.RollbackErr)
	}
	return fmt.Sprintf("registration failed: %v", e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
