package domain

import "time"

// ReportFormat enumerates supported report outputs.
type ReportFormat string

const (
	ReportFormatPDF    ReportFormat = "pdf"
	ReportFormatExcel  ReportFormat = "excel"
	ReportFormatCSV    ReportFormat = "csv"
	ReportFormatCustom ReportFormat = "custom"
)

// Valid reports whether the format is known.
func (f ReportFormat) Valid() bool {
	switch f {
	case ReportFormatPDF, ReportFormatExcel, ReportFormatCSV, ReportFormatCustom:
		return true
	}
	return false
}

// ReportStatus tracks generation progress.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

// ReportTemplate configures a reusable report definition.
type ReportTemplate struct {
	ID           string
	Name         string
	Description  string
	Format       ReportFormat
	TemplateData map[string]any
	CreatedByID  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Report is one queued or generated report instance. Generation itself is
// handled out of band; records are created in pending state.
type Report struct {
	ID           string
	TemplateID   string
	Name         string
	Description  string
	Parameters   map[string]any
	Status       ReportStatus
	ErrorMessage string
	FileKey      *string
	Target       *TargetRef
	GeneratedBy  *string
	GeneratedAt  time.Time
}

// ExportKind enumerates bulk data exports.
type ExportKind string

const (
	ExportTickets       ExportKind = "tickets"
	ExportUsers         ExportKind = "users"
	ExportAssessments   ExportKind = "assessments"
	ExportNotifications ExportKind = "notifications"
	ExportCustom        ExportKind = "custom"
)

// DataExport is one queued bulk export.
type DataExport struct {
	ID          string
	Name        string
	Description string
	Kind        ExportKind
	Status      ReportStatus
	FileKey     *string
	RequestedBy *string
	CreatedAt   time.Time
}
