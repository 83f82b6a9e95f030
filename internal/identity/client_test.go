package identity_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/identity"
)

func newClient(t *testing.T, baseURL string) identity.Client {
	t.Helper()
	client, err := identity.NewHTTPClient(identity.Config{
		BaseURL:    baseURL,
		ServiceKey: "service-key",
	}, nil, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestValidateTokenReturnsClaims(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "ext-42",
			"email": "jane@example.com",
			"user_metadata": map[string]any{
				"full_name": "Jane Doe",
			},
		})
	}))
	defer srv.Close()

	claims, err := newClient(t, srv.URL).ValidateToken(context.Background(), "user-token")
	require.NoError(t, err)

	assert.Equal(t, "ext-42", claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "Jane Doe", claims.DisplayName)
}

func TestValidateTokenRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).ValidateToken(context.Background(), "bad-token")
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestValidateTokenRejectsMissingSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"email": "jane@example.com"})
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).ValidateToken(context.Background(), "user-token")
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestValidateTokenRejectsUnreachableProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := newClient(t, srv.URL).ValidateToken(context.Background(), "user-token")
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestValidateTokenRejectsEmptyToken(t *testing.T) {
	_, err := newClient(t, "http://127.0.0.1:1").ValidateToken(context.Background(), "")
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestCreateIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body["email"])
		assert.Equal(t, true, body["email_confirm"])
		meta, ok := body["user_metadata"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Jane Doe", meta["full_name"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ext-99"})
	}))
	defer srv.Close()

	id, err := newClient(t, srv.URL).CreateIdentity(context.Background(), identity.CreateInput{
		Email:       "a@b.com",
		Password:    "secret1",
		DisplayName: "Jane Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "ext-99", id)
}

func TestCreateIdentityReportsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).CreateIdentity(context.Background(), identity.CreateInput{
		Email:    "a@b.com",
		Password: "secret1",
	})

	var provErr *identity.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnprocessableEntity, provErr.Status)
}

func TestDeleteIdentity(t *testing.T) {
	var deletedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		deletedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newClient(t, srv.URL).DeleteIdentity(context.Background(), "ext-99")
	require.NoError(t, err)
	assert.Equal(t, "/auth/v1/admin/users/ext-99", deletedPath)
}

func TestDeleteIdentityReportsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newClient(t, srv.URL).DeleteIdentity(context.Background(), "ext-99")

	var provErr *identity.ProviderError
	assert.True(t, errors.As(err, &provErr))
}

type mapClaimsCache struct {
	store map[string]*domain.ExternalIdentity
}

func (m *mapClaimsCache) Get(_ context.Context, token string) (*domain.ExternalIdentity, bool) {
	claims, ok := m.store[token]
	return claims, ok
}

func (m *mapClaimsCache) Set(_ context.Context, token string, claims *domain.ExternalIdentity) {
	m.store[token] = claims
}

func TestValidateTokenUsesCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ext-42", "email": "jane@example.com"})
	}))
	defer srv.Close()

	cache := &mapClaimsCache{store: make(map[string]*domain.ExternalIdentity)}
	client, err := identity.NewHTTPClient(identity.Config{
		BaseURL:    srv.URL,
		ServiceKey: "service-key",
	}, cache, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		claims, err := client.ValidateToken(context.Background(), "user-token")
		require.NoError(t, err)
		assert.Equal(t, "ext-42", claims.Subject)
	}
	assert.Equal(t, 1, hits)
}
