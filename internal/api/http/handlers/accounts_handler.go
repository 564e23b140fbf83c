package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/orbita-consulting/platform/internal/api/dto"
	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/auth"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/service"
)

// AccountsHandler exposes profile endpoints and the admin directory.
type AccountsHandler struct {
	service *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{service: accountService}
}

// Me GET /accounts/me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(actor)})
}

// UpdateMe PATCH /accounts/me.
func (h *AccountsHandler) UpdateMe(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.UpdateProfile(c.UserContext(), actor, service.ProfilePatch{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ListUsers GET /accounts (admin).
func (h *AccountsHandler) ListUsers(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var role *domain.Role
	if raw := c.Query("role"); raw != "" {
		parsed := domain.Role(raw)
		role = &parsed
	}
	limit, offset := paginationParams(c)
	users, err := h.service.ListUsers(c.UserContext(), actor, role, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserListResponse(users)})
}

// GetUser GET /accounts/:id.
func (h *AccountsHandler) GetUser(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	user, err := h.service.GetUser(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ChangeRole PUT /accounts/:id/role (admin).
func (h *AccountsHandler) ChangeRole(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.RoleChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.ChangeRole(c.UserContext(), actor, c.Params("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ChangeStatus PUT /accounts/:id/status (admin).
func (h *AccountsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.SetStatus(c.UserContext(), actor, c.Params("id"), domain.UserStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

func paginationParams(c *fiber.Ctx) (limit, offset int) {
	limit = 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
