package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/authz"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/events"
	"github.com/orbita-consulting/platform/internal/repository"
)

// AssessmentService serves the public self-assessment quizzes and their
// submissions.
type AssessmentService struct {
	assessments repository.AssessmentRepository
	dispatcher  events.Dispatcher
}

// NewAssessmentService constructs the service.
func NewAssessmentService(assessments repository.AssessmentRepository, dispatcher events.Dispatcher) *AssessmentService {
	return &AssessmentService{assessments: assessments, dispatcher: dispatcher}
}

// AssessmentDetail is an assessment with its ordered questions.
type AssessmentDetail struct {
	Assessment domain.SelfAssessment
	Questions  []domain.AssessmentQuestion
}

// AnswerInput is one submitted answer.
type AnswerInput struct {
	QuestionID string
	Response   string
}

// ListAssessments returns all published assessments. Public.
func (s *AssessmentService) ListAssessments(ctx context.Context) ([]domain.SelfAssessment, error) {
	items, err := s.assessments.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.SelfAssessment{}
	}
	return items, nil
}

// GetAssessment returns one assessment with its questions. Public.
func (s *AssessmentService) GetAssessment(ctx context.Context, assessmentID string) (*AssessmentDetail, error) {
	assessment, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("assessment")
		}
		return nil, err
	}
	questions, err := s.assessments.ListQuestions(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return &AssessmentDetail{Assessment: *assessment, Questions: questions}, nil
}

// Submit records a completed assessment. Actor may be nil for anonymous
// visitors; every answer must reference a question of this assessment and
// pick one of its option keys.
func (s *AssessmentService) Submit(ctx context.Context, actor *domain.User, assessmentID string, answers []AnswerInput) (*domain.AssessmentResult, error) {
	assessment, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("assessment")
		}
		return nil, err
	}
	if len(answers) == 0 {
		return nil, apperr.NewValidationError("answers required", map[string]any{"field": "answers"})
	}

	questions, err := s.assessments.ListQuestions(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.AssessmentQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	seen := make(map[string]bool, len(answers))
	responses := make([]*domain.AssessmentResponse, 0, len(answers))
	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			return nil, apperr.NewValidationError("unknown question", map[string]any{"question_id": answer.QuestionID})
		}
		if seen[answer.QuestionID] {
			return nil, apperr.NewValidationError("duplicate answer", map[string]any{"question_id": answer.QuestionID})
		}
		if _, ok := question.Options[answer.Response]; !ok {
			return nil, apperr.NewValidationError("unknown option", map[string]any{
				"question_id": answer.QuestionID,
				"response":    answer.Response,
			})
		}
		seen[answer.QuestionID] = true
		responses = append(responses, &domain.AssessmentResponse{
			QuestionID: answer.QuestionID,
			Response:   answer.Response,
		})
	}

	result := &domain.AssessmentResult{
		AssessmentID: assessment.ID,
		Answered:     len(responses),
	}
	if actor != nil {
		result.UserID = &actor.ID
	}
	if err := s.assessments.CreateResult(ctx, result, responses); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		event := events.Event{
			Type:      events.EventAssessmentCompleted,
			Timestamp: time.Now(),
			Payload: events.AssessmentCompletedPayload{
				AssessmentID: assessment.ID,
				ResultID:     result.ID,
				Title:        assessment.Title,
				UserID:       result.UserID,
				Answered:     result.Answered,
			},
		}
		if actor != nil {
			event.Actor = events.Actor{ID: actor.ID, Role: actor.Role}
		}
		_ = s.dispatcher.Publish(ctx, event)
	}
	return result, nil
}

// GetResult returns one submission. Owners see their own; consultants and
// admins see all, anonymous results included.
func (s *AssessmentService) GetResult(ctx context.Context, actor *domain.User, resultID string) (*domain.AssessmentResult, error) {
	result, err := s.assessments.GetResult(ctx, resultID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("assessment result")
		}
		return nil, err
	}
	if !authz.CanAccessOwned(actor, result) {
		return nil, apperr.NewDenied("no access to this result")
	}
	return result, nil
}
