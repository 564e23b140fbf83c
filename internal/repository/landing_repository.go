package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbita-consulting/platform/internal/domain"
)

// LandingRepository persists the marketing/landing page content.
type LandingRepository interface {
	UpsertSection(ctx context.Context, section *domain.Section) error
	ListSections(ctx context.Context) ([]domain.Section, error)
	CreateServiceLine(ctx context.Context, line *domain.ServiceLine) error
	ListServiceLines(ctx context.Context) ([]domain.ServiceLine, error)
	CreateSuccessCase(ctx context.Context, sc *domain.SuccessCase) error
	ListSuccessCases(ctx context.Context) ([]domain.SuccessCase, error)
	CreateContactMessage(ctx context.Context, msg *domain.ContactMessage) error
	ListContactMessages(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error)
}

type landingRepository struct {
	pool *pgxpool.Pool
}

// NewLandingRepository constructs repository.
func NewLandingRepository(pool *pgxpool.Pool) LandingRepository {
	return &landingRepository{pool: pool}
}

func (r *landingRepository) UpsertSection(ctx context.Context, section *domain.Section) error {
	// One section per type; admin edits replace the existing block.
	const query = `
        INSERT INTO sections (type, title, content, image_key)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (type) DO UPDATE SET
            title=EXCLUDED.title, content=EXCLUDED.content, image_key=EXCLUDED.image_key, updated_at=NOW()
        RETURNING id, updated_at`
	return r.pool.QueryRow(ctx, query,
		section.Type,
		section.Title,
		section.Content,
		section.ImageKey,
	).Scan(&section.ID, &section.UpdatedAt)
}

func (r *landingRepository) ListSections(ctx context.Context) ([]domain.Section, error) {
	const query = `SELECT id, type, title, content, image_key, updated_at FROM sections ORDER BY type ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Section
	for rows.Next() {
		var section domain.Section
		if err := rows.Scan(
			&section.ID,
			&section.Type,
			&section.Title,
			&section.Content,
			&section.ImageKey,
			&section.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, section)
	}
	return result, rows.Err()
}

func (r *landingRepository) CreateServiceLine(ctx context.Context, line *domain.ServiceLine) error {
	const query = `
        INSERT INTO service_lines (title, description, icon)
        VALUES ($1,$2,$3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, line.Title, line.Description, line.Icon).Scan(&line.ID)
}

func (r *landingRepository) ListServiceLines(ctx context.Context) ([]domain.ServiceLine, error) {
	const query = `SELECT id, title, description, icon FROM service_lines ORDER BY title ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceLine
	for rows.Next() {
		var line domain.ServiceLine
		if err := rows.Scan(&line.ID, &line.Title, &line.Description, &line.Icon); err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

func (r *landingRepository) CreateSuccessCase(ctx context.Context, sc *domain.SuccessCase) error {
	const query = `
        INSERT INTO success_cases (title, description, client_name, image_key)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, sc.Title, sc.Description, sc.ClientName, sc.ImageKey).Scan(&sc.ID)
}

func (r *landingRepository) ListSuccessCases(ctx context.Context) ([]domain.SuccessCase, error) {
	const query = `SELECT id, title, description, client_name, image_key FROM success_cases ORDER BY title ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SuccessCase
	for rows.Next() {
		var sc domain.SuccessCase
		if err := rows.Scan(&sc.ID, &sc.Title, &sc.Description, &sc.ClientName, &sc.ImageKey); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (r *landingRepository) CreateContactMessage(ctx context.Context, msg *domain.ContactMessage) error {
	const query = `
        INSERT INTO contact_messages (name, email, message)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, msg.Name, msg.Email, msg.Message).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *landingRepository) ListContactMessages(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, name, email, message, created_at
        FROM contact_messages ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContactMessage
	for rows.Next() {
		var msg domain.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
