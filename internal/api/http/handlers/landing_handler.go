package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orbita-consulting/platform/internal/api/dto"
	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/auth"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/service"
)

// LandingHandler serves the public landing content and its admin editing
// endpoints.
type LandingHandler struct {
	service *service.LandingService
}

// NewLandingHandler constructs handler.
func NewLandingHandler(landingService *service.LandingService) *LandingHandler {
	return &LandingHandler{service: landingService}
}

// Content GET /landing. Public.
func (h *LandingHandler) Content(c *fiber.Ctx) error {
	content, err := h.service.PublicContent(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLandingResponse(content.Sections, content.ServiceLines, content.SuccessCases)})
}

// UpsertSection PUT /landing/sections (admin).
func (h *LandingHandler) UpsertSection(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.SectionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	section, err := h.service.UpsertSection(c.UserContext(), actor, domain.Section{
		Type:     domain.SectionType(req.Type),
		Title:    req.Title,
		Content:  req.Content,
		ImageKey: req.ImageKey,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SectionResponse{
		ID:       section.ID,
		Type:     string(section.Type),
		Title:    section.Title,
		Content:  section.Content,
		ImageKey: section.ImageKey,
	}})
}

// AddServiceLine POST /landing/services (admin).
func (h *LandingHandler) AddServiceLine(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.ServiceLineRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	line, err := h.service.AddServiceLine(c.UserContext(), actor, domain.ServiceLine{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewServiceLineView(line)})
}

// AddSuccessCase POST /landing/success-cases (admin).
func (h *LandingHandler) AddSuccessCase(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.SuccessCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	sc, err := h.service.AddSuccessCase(c.UserContext(), actor, domain.SuccessCase{
		Title:       req.Title,
		Description: req.Description,
		ClientName:  req.ClientName,
		ImageKey:    req.ImageKey,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSuccessCaseView(sc)})
}

// SubmitContact POST /landing/contact. Public.
func (h *LandingHandler) SubmitContact(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	msg, err := h.service.SubmitContactMessage(c.UserContext(), domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": msg.ID}})
}

// ListContactMessages GET /landing/contact (admin).
func (h *LandingHandler) ListContactMessages(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	limit, offset := paginationParams(c)
	msgs, err := h.service.ListContactMessages(c.UserContext(), actor, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewContactMessageListResponse(msgs)})
}
