package dto

import (
	"time"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
)

// LoginRequest payload for provider-token login.
type LoginRequest struct {
	AccessToken string `json:"access_token"`
}

// SyncRequest payload for the token-owned sync flow.
type SyncRequest struct {
	AccessToken string  `json:"access_token"`
	ExternalID  string  `json:"external_id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       *string `json:"phone,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

// AuthenticatedSyncRequest payload for refreshing the caller's own profile.
type AuthenticatedSyncRequest struct {
	ExternalID string  `json:"external_id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Phone      *string `json:"phone,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
}

// RegisterRequest payload for new registrations. Note the absence of any
// role field.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
}

// SessionResponse standard response for auth endpoints.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Profile converts the sync request fields into the domain profile.
func (r SyncRequest) Profile() *domain.Profile {
	return &domain.Profile{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Avatar:    r.Avatar,
	}
}

// Profile converts the authenticated sync request fields into the domain profile.
func (r AuthenticatedSyncRequest) Profile() *domain.Profile {
	return &domain.Profile{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Avatar:    r.Avatar,
	}
}
