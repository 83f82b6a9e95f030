package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
)

// TokenManager issues and validates the internal session credential. The
// signing key is loaded once at startup and read-only afterwards.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. An empty secret is a configuration
// error and fatal at startup, not per-request.
func NewTokenManager(secret string, ttlHours int) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("session signing key is required")
	}
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlHours) * time.Hour}, nil
}

// SessionClaims describes the session credential payload. Subject is the
// account's internal id.
type SessionClaims struct {
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	ExternalID string      `json:"external_id"`
	jwt.RegisteredClaims
}

// Issue builds and signs a session credential for the account. Pure function
// of the account plus the signing key; no side effects.
func (tm *TokenManager) Issue(account *domain.Account) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &SessionClaims{
		Email:      account.Email,
		Role:       account.Role,
		ExternalID: account.ExternalID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates a session credential and returns its claims.
func (tm *TokenManager) Parse(tokenStr string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
