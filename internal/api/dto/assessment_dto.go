package dto

import (
	"time"

	"github.com/orbita-consulting/platform/internal/domain"
)

// AssessmentResponse is the wire view of one assessment summary.
type AssessmentResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewAssessmentListResponse converts a slice of assessments.
func NewAssessmentListResponse(assessments []domain.SelfAssessment) []AssessmentResponse {
	out := make([]AssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, AssessmentResponse{ID: a.ID, Title: a.Title, Description: a.Description})
	}
	return out
}

// QuestionResponse is the wire view of one question.
type QuestionResponse struct {
	ID       string            `json:"id"`
	Position int               `json:"position"`
	Text     string            `json:"text"`
	Options  map[string]string `json:"options"`
}

// AssessmentDetailResponse is an assessment with its questions.
type AssessmentDetailResponse struct {
	AssessmentResponse
	Questions []QuestionResponse `json:"questions"`
}

// NewAssessmentDetailResponse converts an assessment and its questions.
func NewAssessmentDetailResponse(assessment domain.SelfAssessment, questions []domain.AssessmentQuestion) AssessmentDetailResponse {
	qs := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		qs = append(qs, QuestionResponse{
			ID:       q.ID,
			Position: q.Position,
			Text:     q.QuestionText,
			Options:  q.Options,
		})
	}
	return AssessmentDetailResponse{
		AssessmentResponse: AssessmentResponse{
			ID:          assessment.ID,
			Title:       assessment.Title,
			Description: assessment.Description,
		},
		Questions: qs,
	}
}

// AnswerRequest is one submitted answer.
type AnswerRequest struct {
	QuestionID string `json:"question_id"`
	Response   string `json:"response"`
}

// SubmissionRequest payload for completing an assessment.
type SubmissionRequest struct {
	Answers []AnswerRequest `json:"answers"`
}

// ResultResponse is the wire view of a completed submission.
type ResultResponse struct {
	ID           string    `json:"id"`
	AssessmentID string    `json:"assessment_id"`
	UserID       *string   `json:"user_id,omitempty"`
	Answered     int       `json:"answered"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewResultResponse converts a domain result.
func NewResultResponse(r *domain.AssessmentResult) ResultResponse {
	return ResultResponse{
		ID:           r.ID,
		AssessmentID: r.AssessmentID,
		UserID:       r.UserID,
		Answered:     r.Answered,
		CreatedAt:    r.CreatedAt,
	}
}
