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

// ReportsHandler manages report templates, instances and exports.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// CreateTemplate POST /reports/templates.
func (h *ReportsHandler) CreateTemplate(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	template, err := h.service.CreateTemplate(c.UserContext(), actor, domain.ReportTemplate{
		Name:         req.Name,
		Description:  req.Description,
		Format:       domain.ReportFormat(req.Format),
		TemplateData: req.TemplateData,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TemplateResponse{
		ID:          template.ID,
		Name:        template.Name,
		Description: template.Description,
		Format:      string(template.Format),
		CreatedAt:   template.CreatedAt,
	}})
}

// ListTemplates GET /reports/templates.
func (h *ReportsHandler) ListTemplates(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	templates, err := h.service.ListTemplates(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTemplateListResponse(templates)})
}

// QueueReport POST /reports.
func (h *ReportsHandler) QueueReport(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.ReportQueueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	var target *domain.TargetRef
	if req.TargetKind != nil && req.TargetID != nil {
		target = &domain.TargetRef{Kind: domain.TargetKind(*req.TargetKind), ID: *req.TargetID}
	}
	report, err := h.service.QueueReport(c.UserContext(), actor, req.TemplateID, req.Name, req.Parameters, target)
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// GetReport GET /reports/:id.
func (h *ReportsHandler) GetReport(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	report, err := h.service.GetReport(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// ListReports GET /reports.
func (h *ReportsHandler) ListReports(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	limit, offset := paginationParams(c)
	reports, err := h.service.ListReports(c.UserContext(), actor, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportListResponse(reports)})
}

// QueueExport POST /reports/exports (admin).
func (h *ReportsHandler) QueueExport(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	var req dto.ExportQueueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.NewValidationError("invalid payload", nil)
	}
	export, err := h.service.QueueExport(c.UserContext(), actor, req.Name, domain.ExportKind(req.Kind))
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": dto.ExportResponse{
		ID:        export.ID,
		Name:      export.Name,
		Kind:      string(export.Kind),
		Status:    string(export.Status),
		FileKey:   export.FileKey,
		CreatedAt: export.CreatedAt,
	}})
}

// ListExports GET /reports/exports (admin).
func (h *ReportsHandler) ListExports(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperr.NewUnauthorized("authentication required")
	}
	limit, offset := paginationParams(c)
	exports, err := h.service.ListExports(c.UserContext(), actor, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewExportListResponse(exports)})
}
