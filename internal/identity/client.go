package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
)

// Client wraps outbound calls to the external identity provider. It returns
// identity facts only; account decisions are made by the callers.
type Client interface {
	// ValidateToken presents a bearer token to the provider's identity-info
	// endpoint and returns the claims it asserts. Any rejection, transport
	// failure, or missing subject yields ErrUnauthenticated.
	ValidateToken(ctx context.Context, bearerToken string) (*domain.ExternalIdentity, error)

	// CreateIdentity provisions a brand-new external identity. The remote
	// registration is durable and outlives this call.
	CreateIdentity(ctx context.Context, input CreateInput) (string, error)

	// DeleteIdentity removes an external identity. Best-effort; used only
	// for registration rollback.
	DeleteIdentity(ctx context.Context, externalID string) error
}

// CreateInput carries the fields for provisioning a new external identity.
type CreateInput struct {
	Email       string
	Password    string
	DisplayName string
	Metadata    map[string]any
}

// Config holds the explicit provider settings; there is no ambient client
// singleton.
type Config struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration
}

type httpClient struct {
	baseURL    string
	serviceKey string
	http       *http.Client
	cache      ClaimsCache
	logger     *zap.Logger
}

// NewHTTPClient builds a provider client from explicit configuration. The
// cache is optional; when present, validated claims are served from it for
// a short TTL and a cache outage degrades to a live provider call.
func NewHTTPClient(cfg Config, cache ClaimsCache, logger *zap.Logger) (Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("identity provider base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		baseURL:    base,
		serviceKey: cfg.ServiceKey,
		http:       &http.Client{Timeout: timeout},
		cache:      cache,
		logger:     logger,
	}, nil
}

type userInfoResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

func (c *httpClient) ValidateToken(ctx context.Context, bearerToken string) (*domain.ExternalIdentity, error) {
	if strings.TrimSpace(bearerToken) == "" {
		return nil, ErrUnauthenticated
	}

	if c.cache != nil {
		if claims, ok := c.cache.Get(ctx, bearerToken); ok {
			return claims, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("identity-info call failed", zap.Error(err))
		return nil, ErrUnauthenticated
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("identity-info rejected token", zap.Int("status", resp.StatusCode))
		return nil, ErrUnauthenticated
	}

	var payload userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, ErrUnauthenticated
	}
	if payload.ID == "" {
		return nil, ErrUnauthenticated
	}

	claims := &domain.ExternalIdentity{
		Subject:     payload.ID,
		Email:       payload.Email,
		DisplayName: payload.UserMetadata.FullName,
	}

	if c.cache != nil {
		c.cache.Set(ctx, bearerToken, claims)
	}
	return claims, nil
}

func (c *httpClient) CreateIdentity(ctx context.Context, input CreateInput) (string, error) {
	body := map[string]any{
		"email":         input.Email,
		"password":      input.Password,
		"email_confirm": true,
		"user_metadata": map[string]any{
			"full_name": input.DisplayName,
		},
	}
	for k, v := range input.Metadata {
		body["user_metadata"].(map[string]any)[k] = v
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", &ProviderError{Op: "create user", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/admin/users", bytes.NewReader(encoded))
	if err != nil {
		return "", &ProviderError{Op: "create user", Err: err}
	}
	c.setAdminHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &ProviderError{Op: "create user", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logProviderFailure("create user", resp)
		return "", &ProviderError{Op: "create user", Status: resp.StatusCode}
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", &ProviderError{Op: "create user", Err: err}
	}
	if created.ID == "" {
		return "", &ProviderError{Op: "create user", Err: fmt.Errorf("provider returned no identity id")}
	}
	return created.ID, nil
}

func (c *httpClient) DeleteIdentity(ctx context.Context, externalID string) error {
	endpoint := c.baseURL + "/auth/v1/admin/users/" + url.PathEscape(externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return &ProviderError{Op: "delete user", Err: err}
	}
	c.setAdminHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &ProviderError{Op: "delete user", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logProviderFailure("delete user", resp)
		return &ProviderError{Op: "delete user", Status: resp.StatusCode}
	}
	return nil
}

func (c *httpClient) setAdminHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
}

// logProviderFailure keeps provider response bodies in server-side logs
// only; they are never propagated to API clients.
func (c *httpClient) logProviderFailure(op string, resp *http.Response) {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.logger.Warn("identity provider call failed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", snippet),
	)
}
