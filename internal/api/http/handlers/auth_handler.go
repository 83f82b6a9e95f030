package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/api/dto"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/auth"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/identity"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/service"
	apperrors "github.com/SIRI-bit-tech/MSE-Logistics-sub000/pkg/util"
)

// AuthHandler exposes the identity federation endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login: exchange a provider-issued bearer token
// for an internal session.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.AccessToken) == "" {
		return apperrors.NewValidationError("access_token required", nil)
	}

	result, err := h.auth.ValidateTokenLogin(c.UserContext(), req.AccessToken)
	if err != nil {
		return mapAuthError(err)
	}
	return c.JSON(authPayload(result))
}

// Sync handles POST /auth/sync: first-time login/registration sync where no
// prior session exists. The token must belong to the identity being synced.
func (h *AuthHandler) Sync(c *fiber.Ctx) error {
	var req dto.SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.AccessToken) == "" || strings.TrimSpace(req.ExternalID) == "" {
		return apperrors.NewValidationError("access_token and external_id required", nil)
	}

	result, err := h.auth.SyncOnAuth(c.UserContext(), req.AccessToken, req.ExternalID, req.Profile())
	if err != nil {
		return mapAuthError(err)
	}
	return c.JSON(authPayload(result))
}

// SyncMe handles POST /auth/me/sync: an authenticated caller refreshing
// their own profile.
func (h *AuthHandler) SyncMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated()
	}

	var req dto.AuthenticatedSyncRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.ExternalID) == "" {
		return apperrors.NewValidationError("external_id required", nil)
	}

	result, err := h.auth.SyncAuthenticated(c.UserContext(), principal.Account, req.ExternalID, req.Profile())
	if err != nil {
		return mapAuthError(err)
	}
	return c.JSON(authPayload(result))
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return apperrors.NewValidationError("email, password, full_name required", nil)
	}
	if len(req.Password) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	result, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return mapAuthError(err)
	}
	return c.Status(http.StatusCreated).JSON(authPayload(result))
}

func authPayload(result *service.AuthResult) fiber.Map {
	return fiber.Map{
		"data": fiber.Map{
			"account": result.Account.View(),
			"auth": dto.SessionResponse{
				Token:     result.Session.Token,
				ExpiresAt: result.Session.ExpiresAt,
			},
		},
	}
}

// mapAuthError converts service-layer failures into caller-facing errors.
// Security denials collapse into uniform messages here; the detailed cause
// was already logged by the service layer.
func mapAuthError(err error) error {
	if errors.Is(err, identity.ErrUnauthenticated) {
		return apperrors.NewUnauthenticated()
	}
	if errors.Is(err, service.ErrTokenIdentityMismatch) || errors.Is(err, service.ErrNotAccountOwner) {
		return apperrors.NewForbidden()
	}

	var regErr *service.RegistrationError
	if errors.As(err, &regErr) {
		switch regErr.Kind {
		case service.KindProviderFailed:
			return apperrors.NewProviderRegistrationFailed(regErr)
		case service.KindDatabaseFailed:
			return apperrors.NewDatabaseRegistrationFailed(regErr)
		case service.KindRollbackFailed:
			return apperrors.NewRegistrationRollbackFailed(regErr)
		}
	}
	return apperrors.MapError(err)
}
