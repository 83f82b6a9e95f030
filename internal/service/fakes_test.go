package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/identity"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/repository"
)

// fakeAccountRepo is an in-memory AccountRepository enforcing the same
// uniqueness constraint on external_id as the real schema.
type fakeAccountRepo struct {
	mu         sync.Mutex
	byExternal map[string]*domain.Account

	createErr error
	updateErr error
	findErr   error

	// findMissesRemaining forces lookups to report not-found while positive,
	// simulating the window where a concurrent creator has not yet become
	// visible to this caller.
	findMissesRemaining int

	createCalls int
	updateCalls int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byExternal: make(map[string]*domain.Account)}
}

func (f *fakeAccountRepo) FindByExternalID(_ context.Context, externalID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.findMissesRemaining > 0 {
		f.findMissesRemaining--
		return nil, repository.ErrAccountNotFound
	}
	account, ok := f.byExternal[externalID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.byExternal {
		if account.ID == id {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (f *fakeAccountRepo) Create(ctx context.Context, externalID string, profile domain.Profile) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.byExternal[externalID]; exists {
		return nil, repository.ErrDuplicateExternalID
	}

	now := time.Now()
	account := &domain.Account{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		Email:      profile.Email,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Phone:      profile.Phone,
		Avatar:     profile.Avatar,
		Role:       domain.RoleCustomer,
		Status:     domain.AccountStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.byExternal[externalID] = account
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepo) UpdateProfile(_ context.Context, externalID string, profile domain.Profile) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	account, ok := f.byExternal[externalID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	account.Email = profile.Email
	account.FirstName = profile.FirstName
	account.LastName = profile.LastName
	account.Phone = profile.Phone
	account.Avatar = profile.Avatar
	account.UpdatedAt = time.Now()
	copied := *account
	return &copied, nil
}

// setRole backdates an out-of-band administrative role change.
func (f *fakeAccountRepo) setRole(externalID string, role domain.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.byExternal[externalID]; ok {
		account.Role = role
	}
}

func (f *fakeAccountRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byExternal)
}

// fakeProviderClient is an in-memory identity.Client tracking remote
// identities and rollback attempts.
type fakeProviderClient struct {
	mu         sync.Mutex
	identities map[string]identity.CreateInput
	tokens     map[string]*domain.ExternalIdentity

	validateErr error
	createErr   error
	deleteErr   error

	deleteCalls   []string
	deleteCtxErrs []error
}

func newFakeProviderClient() *fakeProviderClient {
	return &fakeProviderClient{
		identities: make(map[string]identity.CreateInput),
		tokens:     make(map[string]*domain.ExternalIdentity),
	}
}

func (f *fakeProviderClient) ValidateToken(_ context.Context, bearerToken string) (*domain.ExternalIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	claims, ok := f.tokens[bearerToken]
	if !ok {
		return nil, identity.ErrUnauthenticated
	}
	copied := *claims
	return &copied, nil
}

func (f *fakeProviderClient) CreateIdentity(_ context.Context, input identity.CreateInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	id := uuid.NewString()
	f.identities[id] = input
	return id, nil
}

func (f *fakeProviderClient) DeleteIdentity(ctx context.Context, externalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, externalID)
	f.deleteCtxErrs = append(f.deleteCtxErrs, ctx.Err())
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.identities, externalID)
	return nil
}

// grantToken registers a bearer token the fake provider will accept.
func (f *fakeProviderClient) grantToken(token string, claims *domain.ExternalIdentity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = claims
}

func (f *fakeProviderClient) identityCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.identities)
}
