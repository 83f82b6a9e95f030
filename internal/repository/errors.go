package repository

import "errors"

var (
	// ErrAccountNotFound is returned when no account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateExternalID is returned when Create races a concurrent
	// creation for the same external identity. Callers reconcile it away by
	// re-fetching; it is never surfaced to API clients.
	ErrDuplicateExternalID = errors.New("external id already registered")
)
