package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/service"
)

func testClaims() *domain.ExternalIdentity {
	return &domain.ExternalIdentity{
		Subject:     "ext-42",
		Email:       "jane@example.com",
		DisplayName: "Jane Doe",
	}
}

func TestReconcileCreatesCustomerAccount(t *testing.T) {
	repo := newFakeAccountRepo()
	reconciler := service.NewReconciler(repo, zap.NewNop())

	account, created, err := reconciler.Reconcile(context.Background(), testClaims(), nil)
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "ext-42", account.ExternalID)
	assert.Equal(t, "jane@example.com", account.Email)
	assert.Equal(t, "Jane", account.FirstName)
	assert.Equal(t, "Doe", account.LastName)
	assert.Equal(t, domain.RoleCustomer, account.Role)
	assert.True(t, account.IsActive())
}

func TestReconcileIsIdempotent(t *testing.T) {
	repo := newFakeAccountRepo()
	reconciler := service.NewReconciler(repo, zap.NewNop())
	ctx := context.Background()

	first, created, err := reconciler.Reconcile(ctx, testClaims(), nil)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := reconciler.Reconcile(ctx, testClaims(), nil)
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Role, second.Role)
	assert.Equal(t, "jane@example.com", second.Email)
	assert.Equal(t, 1, repo.count())
}

func TestReconcileNeverTouchesRole(t *testing.T) {
	repo := newFakeAccountRepo()
	reconciler := service.NewReconciler(repo, zap.NewNop())
	ctx := context.Background()

	_, _, err := reconciler.Reconcile(ctx, testClaims(), nil)
	require.NoError(t, err)

	// Role elevation happens out of band; a later sync must preserve it.
	repo.setRole("ext-42", domain.RoleAdmin)

	account, _, err := reconciler.Reconcile(ctx, testClaims(), &domain.Profile{FirstName: "Janet"})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleAdmin, account.Role)
	assert.Equal(t, "Janet", account.FirstName)
}

func TestReconcileAppliesProfileOverride(t *testing.T) {
	repo := newFakeAccountRepo()
	reconciler := service.NewReconciler(repo, zap.NewNop())
	phone := "+15550100"

	account, _, err := reconciler.Reconcile(context.Background(), testClaims(), &domain.Profile{
		FirstName: "Janet",
		LastName:  "Doeson",
		Phone:     &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, "Janet", account.FirstName)
	assert.Equal(t, "Doeson", account.LastName)
	require.NotNil(t, account.Phone)
	assert.Equal(t, phone, *account.Phone)
	// Email always comes from the validated claims.
	assert.Equal(t, "jane@example.com", account.Email)
}

func TestReconcileAdoptsWinnerOnDuplicateRace(t *testing.T) {
	repo := newFakeAccountRepo()
	reconciler := service.NewReconciler(repo, zap.NewNop())
	ctx := context.Background()

	// Seed the winner as if a concurrent caller committed between our
	// lookup and create, then force our own lookup to miss once so the
	// create path runs and hits the unique constraint.
	winner, err := repo.Create(ctx, "ext-42", domain.Profile{Email: "jane@example.com"})
	require.NoError(t, err)
	repo.findMissesRemaining = 1

	account, created, err := reconciler.Reconcile(ctx, testClaims(), nil)
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, winner.ID, account.ID)
	assert.Equal(t, 1, repo.count())
}

func TestConcurrentFirstSyncProducesOneAccount(t *testing.T) {
	repo := newFakeAccountRepo()
	reconciler := service.NewReconciler(repo, zap.NewNop())

	const callers = 16
	ids := make([]string, callers)
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			account, _, err := reconciler.Reconcile(context.Background(), testClaims(), nil)
			if assert.NoError(t, err) {
				ids[i] = account.ID
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, repo.count())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}
