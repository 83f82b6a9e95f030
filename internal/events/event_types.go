package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountProvisioned         EventType = "account_provisioned"
	EventProfileSynced              EventType = "profile_synced"
	EventRegistrationRollbackFailed EventType = "registration_rollback_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountProvisionedPayload payload.
type AccountProvisionedPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ProfileSyncedPayload payload.
type ProfileSyncedPayload struct {
	Email string `json:"email"`
}

// RegistrationRollbackFailedPayload carries the full diagnostic context of
// a failed compensation: the external identity now orphaned at the provider,
// plus both underlying errors. Operator intervention is required.
type RegistrationRollbackFailedPayload struct {
	OrphanedExternalID string `json:"orphaned_external_id"`
	Email              string `json:"email"`
	DatabaseError      string `json:"database_error"`
	DeleteError        string `json:"delete_error"`
}
