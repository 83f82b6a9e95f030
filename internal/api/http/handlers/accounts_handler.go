package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/auth"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/repository"
	apperrors "github.com/SIRI-bit-tech/MSE-Logistics-sub000/pkg/util"
)

// AccountsHandler exposes account read endpoints.
type AccountsHandler struct {
	accounts repository.AccountRepository
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accounts repository.AccountRepository) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// Me handles GET /auth/me for the authenticated caller.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated()
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"account": principal.Account.View()}})
}

// Get handles GET /admin/accounts/:id, available to admin roles only.
func (h *AccountsHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("account id required", nil)
	}

	account, err := h.accounts.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return apperrors.NewNotFound("account")
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"account": account.View()}})
}
