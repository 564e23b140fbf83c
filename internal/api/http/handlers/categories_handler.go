package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orbita-consulting/platform/internal/api/dto"
	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/auth"
	"github.com/orbita-consulting/platform/internal/service"
)

// CategoriesHandler manages the ticket category taxonomy.
type CategoriesHandler struct {
	service *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{service: categoryService}
}

// List GET /categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryListResponse(categories)})
}

// Create POST /categories (admin).
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.Create(c.UserContext(), actor, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CategoryResponse{ID: category.ID, Name: category.Name}})
}

// Rename PUT /categories/:id (admin).
func (h *CategoriesHandler) Rename(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.Rename(c.UserContext(), actor, c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CategoryResponse{ID: category.ID, Name: category.Name}})
}

// Delete DELETE /categories/:id (admin).
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
