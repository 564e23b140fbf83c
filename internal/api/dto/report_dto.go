package dto

import (
	"time"

	"github.com/orbita-consulting/platform/internal/domain"
)

// TemplateRequest payload for registering a report template.
type TemplateRequest struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Format       string         `json:"format"`
	TemplateData map[string]any `json:"template_data"`
}

// TemplateResponse is the wire view of a report template.
type TemplateResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Format      string    `json:"format"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTemplateListResponse converts a slice of templates.
func NewTemplateListResponse(templates []domain.ReportTemplate) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, TemplateResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Format:      string(t.Format),
			CreatedAt:   t.CreatedAt,
		})
	}
	return out
}

// ReportQueueRequest payload for queueing a report.
type ReportQueueRequest struct {
	TemplateID string         `json:"template_id"`
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
	TargetKind *string        `json:"target_kind"`
	TargetID   *string        `json:"target_id"`
}

// ReportResponse is the wire view of a report instance.
type ReportResponse struct {
	ID           string    `json:"id"`
	TemplateID   string    `json:"template_id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	FileKey      *string   `json:"file_key,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// NewReportResponse converts a domain report.
func NewReportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ID:           r.ID,
		TemplateID:   r.TemplateID,
		Name:         r.Name,
		Status:       string(r.Status),
		ErrorMessage: r.ErrorMessage,
		FileKey:      r.FileKey,
		GeneratedAt:  r.GeneratedAt,
	}
}

// NewReportListResponse converts a slice of reports.
func NewReportListResponse(reports []domain.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, NewReportResponse(&reports[i]))
	}
	return out
}

// ExportQueueRequest payload for queueing a bulk export.
type ExportQueueRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ExportResponse is the wire view of a data export.
type ExportResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	FileKey   *string   `json:"file_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewExportListResponse converts a slice of exports.
func NewExportListResponse(exports []domain.DataExport) []ExportResponse {
	out := make([]ExportResponse, 0, len(exports))
	for _, e := range exports {
		out = append(out, ExportResponse{
			ID:        e.ID,
			Name:      e.Name,
			Kind:      string(e.Kind),
			Status:    string(e.Status),
			FileKey:   e.FileKey,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
