package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/repository"
)

// ReportService manages report templates and queues report and export
// records. Generation itself runs out of band; this layer only tracks
// state.
type ReportService struct {
	reports repository.ReportRepository
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

func requireStaff(actor *domain.User) error {
	if actor.IsAdmin() || actor.IsConsultant() {
		return nil
	}
	return apperr.NewDenied("reports are staff only")
}

// CreateTemplate registers a reusable report definition. Staff only.
func (s *ReportService) CreateTemplate(ctx context.Context, actor *domain.User, template domain.ReportTemplate) (*domain.ReportTemplate, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(template.Name) == "" {
		return nil, apperr.NewValidationError("name required", map[string]any{"field": "name"})
	}
	if !template.Format.Valid() {
		return nil, apperr.NewValidationError("unknown format", map[string]any{"format": template.Format})
	}
	template.CreatedByID = &actor.ID
	if err := s.reports.CreateTemplate(ctx, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// ListTemplates returns all report definitions. Staff only.
func (s *ReportService) ListTemplates(ctx context.Context, actor *domain.User) ([]domain.ReportTemplate, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	templates, err := s.reports.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []domain.ReportTemplate{}
	}
	return templates, nil
}

// QueueReport creates a pending report instance from a template.
func (s *ReportService) QueueReport(ctx context.Context, actor *domain.User, templateID, name string, parameters map[string]any, target *domain.TargetRef) (*domain.Report, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	template, err := s.reports.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("report template")
		}
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = template.Name
	}
	report := &domain.Report{
		TemplateID:  template.ID,
		Name:        name,
		Parameters:  parameters,
		Status:      domain.ReportStatusPending,
		Target:      target,
		GeneratedBy: &actor.ID,
	}
	if err := s.reports.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// GetReport returns one report record. Staff only.
func (s *ReportService) GetReport(ctx context.Context, actor *domain.User, reportID string) (*domain.Report, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("report")
		}
		return nil, err
	}
	return report, nil
}

// ListReports returns recently queued reports. Staff only.
func (s *ReportService) ListReports(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Report, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	reports, err := s.reports.ListReports(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return reports, nil
}

// CompleteReport records a finished generation with its output file.
func (s *ReportService) CompleteReport(ctx context.Context, reportID, fileKey string) error {
	return s.reports.UpdateReportStatus(ctx, reportID, domain.ReportStatusCompleted, "", &fileKey)
}

// FailReport records a failed generation.
func (s *ReportService) FailReport(ctx context.Context, reportID, errorMessage string) error {
	return s.reports.UpdateReportStatus(ctx, reportID, domain.ReportStatusFailed, errorMessage, nil)
}

// QueueExport creates a pending bulk export record. Admin only.
func (s *ReportService) QueueExport(ctx context.Context, actor *domain.User, name string, kind domain.ExportKind) (*domain.DataExport, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("exports are admin only")
	}
	switch kind {
	case domain.ExportTickets, domain.ExportUsers, domain.ExportAssessments, domain.ExportNotifications, domain.ExportCustom:
	default:
		return nil, apperr.NewValidationError("unknown export kind", map[string]any{"kind": kind})
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.NewValidationError("name required", map[string]any{"field": "name"})
	}
	export := &domain.DataExport{
		Name:        strings.TrimSpace(name),
		Kind:        kind,
		Status:      domain.ReportStatusPending,
		RequestedBy: &actor.ID,
	}
	if err := s.reports.CreateExport(ctx, export); err != nil {
		return nil, err
	}
	return export, nil
}

// ListExports returns queued exports. Admin only.
func (s *ReportService) ListExports(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.DataExport, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("exports are admin only")
	}
	exports, err := s.reports.ListExports(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if exports == nil {
		exports = []domain.DataExport{}
	}
	return exports, nil
}
