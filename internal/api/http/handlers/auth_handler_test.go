package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/identity"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/service"
	apperrors "github.com/SIRI-bit-tech/MSE-Logistics-sub000/pkg/util"
)

func asDomainError(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr
}

func TestMapAuthErrorUnauthenticated(t *testing.T) {
	mapped := asDomainError(t, mapAuthError(identity.ErrUnauthenticated))
	assert.Equal(t, http.StatusUnauthorized, mapped.HTTPStatus)
	assert.Equal(t, "UNAUTHENTICATED", mapped.Code)
}

func TestMapAuthErrorSecurityDenialsAreUniform(t *testing.T) {
	mismatch := asDomainError(t, mapAuthError(service.ErrTokenIdentityMismatch))
	notOwner := asDomainError(t, mapAuthError(service.ErrNotAccountOwner))

	// A caller must not be able to tell the two denial causes apart.
	assert.Equal(t, mismatch.Code, notOwner.Code)
	assert.Equal(t, mismatch.Message, notOwner.Message)
	assert.Equal(t, http.StatusForbidden, mismatch.HTTPStatus)
}

func TestMapAuthErrorRegistrationKinds(t *testing.T) {
	cases := []struct {
		kind       service.RegistrationFailureKind
		wantCode   string
		wantStatus int
	}{
		{service.KindProviderFailed, "PROVIDER_REGISTRATION_FAILED", http.StatusBadGateway},
		{service.KindDatabaseFailed, "DATABASE_REGISTRATION_FAILED", http.StatusServiceUnavailable},
		{service.KindRollbackFailed, "REGISTRATION_ROLLBACK_FAILED", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		mapped := asDomainError(t, mapAuthError(&service.RegistrationError{
			Kind: tc.kind,
			Err:  errors.New("boom"),
		}))
		assert.Equal(t, tc.wantCode, mapped.Code)
		assert.Equal(t, tc.wantStatus, mapped.HTTPStatus)
	}
}

func TestMapAuthErrorRollbackDetailStaysInternal(t *testing.T) {
	regErr := &service.RegistrationError{
		Kind:               service.KindRollbackFailed,
		Err:                errors.New("insert failed"),
		RollbackErr:        errors.New("delete timed out"),
		OrphanedExternalID: "ext-99",
	}

	mapped := asDomainError(t, mapAuthError(regErr))

	// The outward message never leaks the orphaned identity; the wrapped
	// error retains it for server-side logs.
	assert.NotContains(t, mapped.Message, "ext-99")
	assert.ErrorAs(t, mapped, &regErr)
}

func TestMapAuthErrorFallsBackToInternal(t *testing.T) {
	mapped := asDomainError(t, mapAuthError(errors.New("unexpected")))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}
