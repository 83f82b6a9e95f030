package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/auth"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/events"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/identity"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/observability"
)

// Session is the issued internal credential.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthResult bundles what every successful auth flow returns.
type AuthResult struct {
	Session Session
	Account *domain.Account
}

// AuthService is the public entry point composing token validation,
// reconciliation, the registration saga, and session issuance.
type AuthService struct {
	provider   identity.Client
	reconciler *Reconciler
	saga       *RegistrationSaga
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborator requirements for the facade.
type AuthDependencies struct {
	Provider   identity.Client
	Reconciler *Reconciler
	Saga       *RegistrationSaga
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAuthService builds the facade.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		provider:   deps.Provider,
		reconciler: deps.Reconciler,
		saga:       deps.Saga,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// ValidateTokenLogin logs in a caller who already holds a provider-issued
// bearer token: validate, reconcile, issue.
func (s *AuthService) ValidateTokenLogin(ctx context.Context, bearerToken string) (*AuthResult, error) {
	claims, err := s.provider.ValidateToken(ctx, bearerToken)
	if err != nil {
		s.metrics.RecordAuthFlow("login", "unauthenticated")
		return nil, err
	}

	account, created, err := s.reconciler.Reconcile(ctx, claims, nil)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuthFlow("login", "ok")
	s.publishReconciled(ctx, account, created)
	return s.issue(account)
}

// SyncOnAuth validates the bearer token and requires its subject to match
// the external identity the caller claims to sync. A mismatch performs no
// write.
func (s *AuthService) SyncOnAuth(ctx context.Context, bearerToken, claimedExternalID string, profile *domain.Profile) (*AuthResult, error) {
	claims, err := s.provider.ValidateToken(ctx, bearerToken)
	if err != nil {
		s.metrics.RecordAuthFlow("sync", "unauthenticated")
		return nil, err
	}

	if claims.Subject != claimedExternalID {
		s.logger.Warn("token identity mismatch on sync",
			zap.String("token_subject", claims.Subject),
			zap.String("claimed_external_id", claimedExternalID),
		)
		s.metrics.RecordAuthFlow("sync", "identity_mismatch")
		return nil, ErrTokenIdentityMismatch
	}

	account, created, err := s.reconciler.Reconcile(ctx, claims, profile)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuthFlow("sync", "ok")
	s.publishReconciled(ctx, account, created)
	return s.issue(account)
}

// SyncAuthenticated refreshes the profile of an already-authenticated
// caller. It can only ever touch the caller's own account.
func (s *AuthService) SyncAuthenticated(ctx context.Context, caller *domain.Account, claimedExternalID string, profile *domain.Profile) (*AuthResult, error) {
	if caller == nil || caller.ExternalID != claimedExternalID {
		s.logger.Warn("authenticated sync denied for foreign identity",
			zap.String("claimed_external_id", claimedExternalID),
		)
		s.metrics.RecordAuthFlow("sync_authenticated", "not_owner")
		return nil, ErrNotAccountOwner
	}

	claims := &domain.ExternalIdentity{
		Subject: caller.ExternalID,
		Email:   caller.Email,
	}
	account, created, err := s.reconciler.Reconcile(ctx, claims, profile)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuthFlow("sync_authenticated", "ok")
	s.publishReconciled(ctx, account, created)
	return s.issue(account)
}

// Register runs the registration saga and issues a session for the new
// account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	account, err := s.saga.Register(ctx, input)
	if err != nil {
		if regErr, ok := err.(*RegistrationError); ok {
			s.metrics.RecordAuthFlow("register", string(regErr.Kind))
		}
		return nil, err
	}

	s.metrics.RecordAuthFlow("register", "ok")
	s.publishReconciled(ctx, account, true)
	return s.issue(account)
}

func (s *AuthService) issue(account *domain.Account) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Session: Session{Token: token, ExpiresAt: expiresAt},
		Account: account,
	}, nil
}

func (s *AuthService) publishReconciled(ctx context.Context, account *domain.Account, created bool) {
	if s.dispatcher == nil {
		return
	}

	event := events.Event{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Timestamp: time.Now(),
	}
	if created {
		event.Type = events.EventAccountProvisioned
		event.Payload = events.AccountProvisionedPayload{
			Email: account.Email,
			Role:  string(account.Role),
		}
	} else {
		event.Type = events.EventProfileSynced
		event.Payload = events.ProfileSyncedPayload{Email: account.Email}
	}
	_ = s.dispatcher.Publish(ctx, event)
}
