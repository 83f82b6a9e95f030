package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/events"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/identity"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/repository"
)

// RegisterInput carries the caller-supplied registration fields. There is
// no role field anywhere in this flow.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    *string
}

// RegistrationSaga orchestrates the two-step registration: create the
// external identity, then persist the local account, compensating with a
// best-effort delete of the external identity on partial failure.
type RegistrationSaga struct {
	provider        identity.Client
	accounts        repository.AccountRepository
	dispatcher      events.Dispatcher
	logger          *zap.Logger
	rollbackTimeout time.Duration
}

// NewRegistrationSaga builds the coordinator.
func NewRegistrationSaga(
	provider identity.Client,
	accounts repository.AccountRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	rollbackTimeout time.Duration,
) *RegistrationSaga {
	if rollbackTimeout <= 0 {
		rollbackTimeout = 15 * time.Second
	}
	return &RegistrationSaga{
		provider:        provider,
		accounts:        accounts,
		dispatcher:      dispatcher,
		logger:          logger,
		rollbackTimeout: rollbackTimeout,
	}
}

// Register runs the saga. Each attempt provisions a fresh external identity;
// retries after a lost response can therefore leave a duplicate identity at
// the provider. Callers retry by simply calling Register again.
func (s *RegistrationSaga) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	// Step A: remote identity. On failure nothing exists yet, so there is
	// nothing to compensate.
	externalID, err := s.provider.CreateIdentity(ctx, identity.CreateInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.FullName,
		Metadata:    map[string]any{"source": "registration"},
	})
	if err != nil {
		return nil, &RegistrationError{Kind: KindProviderFailed, Err: err}
	}

	// Step B: local account. Any failure past this point, including caller
	// cancellation, must still attempt the compensating delete.
	claims := &domain.ExternalIdentity{
		Subject:     externalID,
		Email:       input.Email,
		DisplayName: input.FullName,
	}
	first, last := claims.FirstLast()
	account, err := s.accounts.Create(ctx, externalID, domain.Profile{
		Email:     input.Email,
		FirstName: first,
		LastName:  last,
		Phone:     input.Phone,
	})
	if err != nil {
		return nil, s.compensate(ctx, externalID, input.Email, err)
	}

	return account, nil
}

// compensate deletes the external identity created in Step A and tags the
// resulting failure. It runs detached from the caller's context so that
// cancellation of the request cannot skip the rollback attempt.
func (s *RegistrationSaga) compensate(ctx context.Context, externalID, email string, stepBErr error) *RegistrationError {
	rollbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.rollbackTimeout)
	defer cancel()

	deleteErr := s.provider.DeleteIdentity(rollbackCtx, externalID)
	if deleteErr == nil {
		s.logger.Warn("registration rolled back after database failure",
			zap.String("external_id", externalID),
			zap.Error(stepBErr),
		)
		return &RegistrationError{Kind: KindDatabaseFailed, Err: stepBErr}
	}

	// Failed compensation is never swallowed: the system now holds an
	// external identity with no local account, which only an operator can
	// clean up.
	s.logger.Error("registration rollback failed, external identity orphaned",
		zap.String("orphaned_external_id", externalID),
		zap.NamedError("database_error", stepBErr),
		zap.NamedError("delete_error", deleteErr),
	)

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(context.WithoutCancel(ctx), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRegistrationRollbackFailed,
			Timestamp: time.Now(),
			Payload: events.RegistrationRollbackFailedPayload{
				OrphanedExternalID: externalID,
				Email:              email,
				DatabaseError:      stepBErr.Error(),
				DeleteError:        deleteErr.Error(),
			},
		})
	}

	return &RegistrationError{
		Kind:               KindRollbackFailed,
		Err:                stepBErr,
		RollbackErr:        deleteErr,
		OrphanedExternalID: externalID,
	}
}
