package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbita-consulting/platform/internal/domain"
)

// AssessmentRepository persists self-assessment quizzes and submissions.
type AssessmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.SelfAssessment, error)
	List(ctx context.Context) ([]domain.SelfAssessment, error)
	ListQuestions(ctx context.Context, assessmentID string) ([]domain.AssessmentQuestion, error)
	// CreateResult writes the aggregate result and its per-question
	// responses in one transaction.
	CreateResult(ctx context.Context, result *domain.AssessmentResult, responses []*domain.AssessmentResponse) error
	GetResult(ctx context.Context, id string) (*domain.AssessmentResult, error)
}

type assessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository constructs repository.
func NewAssessmentRepository(pool *pgxpool.Pool) AssessmentRepository {
	return &assessmentRepository{pool: pool}
}

func (r *assessmentRepository) GetByID(ctx context.Context, id string) (*domain.SelfAssessment, error) {
	const query = `SELECT id, title, description, created_at, updated_at FROM self_assessments WHERE id=$1`
	var assessment domain.SelfAssessment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&assessment.ID,
		&assessment.Title,
		&assessment.Description,
		&assessment.CreatedAt,
		&assessment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]domain.SelfAssessment, error) {
	const query = `SELECT id, title, description, created_at, updated_at FROM self_assessments ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SelfAssessment
	for rows.Next() {
		var assessment domain.SelfAssessment
		if err := rows.Scan(
			&assessment.ID,
			&assessment.Title,
			&assessment.Description,
			&assessment.CreatedAt,
			&assessment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, assessment)
	}
	return result, rows.Err()
}

func (r *assessmentRepository) ListQuestions(ctx context.Context, assessmentID string) ([]domain.AssessmentQuestion, error) {
	const query = `
        SELECT id, assessment_id, position, question_text, options
        FROM assessment_questions WHERE assessment_id=$1 ORDER BY position ASC`
	rows, err := r.pool.Query(ctx, query, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssessmentQuestion
	for rows.Next() {
		var question domain.AssessmentQuestion
		if err := rows.Scan(
			&question.ID,
			&question.AssessmentID,
			&question.Position,
			&question.QuestionText,
			&question.Options,
		); err != nil {
			return nil, err
		}
		result = append(result, question)
	}
	return result, rows.Err()
}

func (r *assessmentRepository) CreateResult(ctx context.Context, result *domain.AssessmentResult, responses []*domain.AssessmentResponse) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertResult = `
        INSERT INTO assessment_results (assessment_id, user_id, answered)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertResult,
		result.AssessmentID,
		result.UserID,
		result.Answered,
	).Scan(&result.ID, &result.CreatedAt); err != nil {
		return err
	}

	const insertResponse = `
        INSERT INTO assessment_responses (result_id, question_id, response)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	for _, response := range responses {
		response.ResultID = result.ID
		if err := tx.QueryRow(ctx, insertResponse,
			response.ResultID,
			response.QuestionID,
			response.Response,
		).Scan(&response.ID, &response.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *assessmentRepository) GetResult(ctx context.Context, id string) (*domain.AssessmentResult, error) {
	const query = `SELECT id, assessment_id, user_id, answered, created_at FROM assessment_results WHERE id=$1`
	var result domain.AssessmentResult
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.AssessmentID,
		&result.UserID,
		&result.Answered,
		&result.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &result, nil
}
