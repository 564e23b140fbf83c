package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbita-consulting/platform/internal/domain"
)

// ReportRepository persists report templates, queued reports and exports.
type ReportRepository interface {
	CreateTemplate(ctx context.Context, template *domain.ReportTemplate) error
	GetTemplate(ctx context.Context, id string) (*domain.ReportTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.ReportTemplate, error)
	CreateReport(ctx context.Context, report *domain.Report) error
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	ListReports(ctx context.Context, limit, offset int) ([]domain.Report, error)
	UpdateReportStatus(ctx context.Context, id string, status domain.ReportStatus, errorMessage string, fileKey *string) error
	CreateExport(ctx context.Context, export *domain.DataExport) error
	ListExports(ctx context.Context, limit, offset int) ([]domain.DataExport, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository constructs repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) CreateTemplate(ctx context.Context, template *domain.ReportTemplate) error {
	const query = `
        INSERT INTO report_templates (name, description, format, template_data, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		template.Name,
		template.Description,
		template.Format,
		template.TemplateData,
		template.CreatedByID,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
}

func (r *reportRepository) GetTemplate(ctx context.Context, id string) (*domain.ReportTemplate, error) {
	const query = `
        SELECT id, name, description, format, template_data, created_by, created_at, updated_at
        FROM report_templates WHERE id=$1`
	var template domain.ReportTemplate
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&template.ID,
		&template.Name,
		&template.Description,
		&template.Format,
		&template.TemplateData,
		&template.CreatedByID,
		&template.CreatedAt,
		&template.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *reportRepository) ListTemplates(ctx context.Context) ([]domain.ReportTemplate, error) {
	const query = `
        SELECT id, name, description, format, template_data, created_by, created_at, updated_at
        FROM report_templates ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReportTemplate
	for rows.Next() {
		var template domain.ReportTemplate
		if err := rows.Scan(
			&template.ID,
			&template.Name,
			&template.Description,
			&template.Format,
			&template.TemplateData,
			&template.CreatedByID,
			&template.CreatedAt,
			&template.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, template)
	}
	return result, rows.Err()
}

const reportColumns = `id, template_id, name, description, parameters, status, error_message, file_key, target_kind, target_id, generated_by, generated_at`

func (r *reportRepository) CreateReport(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (template_id, name, description, parameters, status, target_kind, target_id, generated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, generated_at`
	var kind, targetID *string
	if report.Target != nil {
		k := string(report.Target.Kind)
		kind = &k
		targetID = &report.Target.ID
	}
	return r.pool.QueryRow(ctx, query,
		report.TemplateID,
		report.Name,
		report.Description,
		report.Parameters,
		report.Status,
		kind,
		targetID,
		report.GeneratedBy,
	).Scan(&report.ID, &report.GeneratedAt)
}

func (r *reportRepository) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id=$1`
	return scanReport(r.pool.QueryRow(ctx, query, id))
}

func (r *reportRepository) ListReports(ctx context.Context, limit, offset int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY generated_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}

func (r *reportRepository) UpdateReportStatus(ctx context.Context, id string, status domain.ReportStatus, errorMessage string, fileKey *string) error {
	const query = `UPDATE reports SET status=$1, error_message=$2, file_key=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, status, errorMessage, fileKey, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) CreateExport(ctx context.Context, export *domain.DataExport) error {
	const query = `
        INSERT INTO data_exports (name, description, kind, status, requested_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		export.Name,
		export.Description,
		export.Kind,
		export.Status,
		export.RequestedBy,
	).Scan(&export.ID, &export.CreatedAt)
}

func (r *reportRepository) ListExports(ctx context.Context, limit, offset int) ([]domain.DataExport, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, name, description, kind, status, file_key, requested_by, created_at
        FROM data_exports ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DataExport
	for rows.Next() {
		var export domain.DataExport
		if err := rows.Scan(
			&export.ID,
			&export.Name,
			&export.Description,
			&export.Kind,
			&export.Status,
			&export.FileKey,
			&export.RequestedBy,
			&export.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, export)
	}
	return result, rows.Err()
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var report domain.Report
	var kind, targetID *string
	if err := row.Scan(
		&report.ID,
		&report.TemplateID,
		&report.Name,
		&report.Description,
		&report.Parameters,
		&report.Status,
		&report.ErrorMessage,
		&report.FileKey,
		&kind,
		&targetID,
		&report.GeneratedBy,
		&report.GeneratedAt,
	); err != nil {
		return nil, err
	}
	if kind != nil && targetID != nil {
		report.Target = &domain.TargetRef{Kind: domain.TargetKind(*kind), ID: *targetID}
	}
	return &report, nil
}
