package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/repository"
	apperrors "github.com/SIRI-bit-tech/MSE-Logistics-sub000/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller on subsequent requests.
type Principal struct {
	Account *domain.Account
	Claims  *SessionClaims
}

// Middleware validates internal session credentials and loads the caller's
// account.
type Middleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, accounts repository.AccountRepository) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts}
}

// Handle enforces authentication for protected routes. All rejection paths
// return the same uniform message.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated()
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return apperrors.NewUnauthenticated()
	}

	account, err := m.accounts.FindByID(c.UserContext(), claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return apperrors.NewUnauthenticated()
		}
		return apperrors.MapError(err)
	}
	if !account.IsActive() {
		return apperrors.NewUnauthenticated()
	}

	c.Locals(principalKey, &Principal{Account: account, Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
