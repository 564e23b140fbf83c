package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/events"
)

type fakeAssessmentRepo struct {
	mu          sync.Mutex
	assessments map[string]*domain.SelfAssessment
	questions   map[string][]domain.AssessmentQuestion
	results     map[string]*domain.AssessmentResult
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{
		assessments: map[string]*domain.SelfAssessment{},
		questions:   map[string][]domain.AssessmentQuestion{},
		results:     map[string]*domain.AssessmentResult{},
	}
}

func (r *fakeAssessmentRepo) GetByID(_ context.Context, id string) (*domain.SelfAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assessment, ok := r.assessments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *assessment
	return &clone, nil
}

func (r *fakeAssessmentRepo) List(_ context.Context) ([]domain.SelfAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SelfAssessment
	for _, assessment := range r.assessments {
		out = append(out, *assessment)
	}
	return out, nil
}

func (r *fakeAssessmentRepo) ListQuestions(_ context.Context, assessmentID string) ([]domain.AssessmentQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AssessmentQuestion{}, r.questions[assessmentID]...), nil
}

func (r *fakeAssessmentRepo) CreateResult(_ context.Context, result *domain.AssessmentResult, responses []*domain.AssessmentResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	result.ID = ids.id("result")
	for _, response := range responses {
		response.ID = ids.id("response")
		response.ResultID = result.ID
	}
	clone := *result
	r.results[result.ID] = &clone
	return nil
}

func (r *fakeAssessmentRepo) GetResult(_ context.Context, id string) (*domain.AssessmentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *result
	return &clone, nil
}

func seededAssessmentService() (*AssessmentService, *recordingDispatcher) {
	repo := newFakeAssessmentRepo()
	repo.assessments["a1"] = &domain.SelfAssessment{ID: "a1", Title: "Readiness check"}
	repo.questions["a1"] = []domain.AssessmentQuestion{
		{ID: "q1", AssessmentID: "a1", Position: 1, QuestionText: "How large is the team?",
			Options: map[string]string{"A": "1-10", "B": "11-50"}},
		{ID: "q2", AssessmentID: "a1", Position: 2, QuestionText: "Budget defined?",
			Options: map[string]string{"A": "yes", "B": "no"}},
	}
	dispatcher := &recordingDispatcher{}
	return NewAssessmentService(repo, dispatcher), dispatcher
}

func TestSubmitRecordsResultAndEmitsEvent(t *testing.T) {
	svc, dispatcher := seededAssessmentService()

	result, err := svc.Submit(context.Background(), clientUser, "a1", []AnswerInput{
		{QuestionID: "q1", Response: "A"},
		{QuestionID: "q2", Response: "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Answered)
	require.NotNil(t, result.UserID)
	assert.Equal(t, clientUser.ID, *result.UserID)
	assert.Len(t, dispatcher.published(events.EventAssessmentCompleted), 1)
}

func TestSubmitAnonymous(t *testing.T) {
	svc, _ := seededAssessmentService()

	result, err := svc.Submit(context.Background(), nil, "a1", []AnswerInput{
		{QuestionID: "q1", Response: "B"},
	})
	require.NoError(t, err)
	assert.Nil(t, result.UserID)
}

func TestSubmitValidatesAnswers(t *testing.T) {
	svc, _ := seededAssessmentService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, nil, "a1", nil)
	require.Error(t, err)

	_, err = svc.Submit(ctx, nil, "a1", []AnswerInput{{QuestionID: "ghost", Response: "A"}})
	require.Error(t, err)

	_, err = svc.Submit(ctx, nil, "a1", []AnswerInput{{QuestionID: "q1", Response: "Z"}})
	require.Error(t, err)

	_, err = svc.Submit(ctx, nil, "a1", []AnswerInput{
		{QuestionID: "q1", Response: "A"},
		{QuestionID: "q1", Response: "B"},
	})
	require.Error(t, err)

	_, err = svc.Submit(ctx, nil, "missing", []AnswerInput{{QuestionID: "q1", Response: "A"}})
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetResultVisibility(t *testing.T) {
	svc, _ := seededAssessmentService()
	ctx := context.Background()

	result, err := svc.Submit(ctx, nil, "a1", []AnswerInput{{QuestionID: "q1", Response: "A"}})
	require.NoError(t, err)

	// Anonymous results are visible to staff but to no client.
	_, err = svc.GetResult(ctx, consultantUser, result.ID)
	assert.NoError(t, err)
	_, err = svc.GetResult(ctx, adminUser, result.ID)
	assert.NoError(t, err)
	_, err = svc.GetResult(ctx, clientUser, result.ID)
	assert.True(t, apperr.IsDenied(err))

	owned, err := svc.Submit(ctx, clientUser, "a1", []AnswerInput{{QuestionID: "q1", Response: "A"}})
	require.NoError(t, err)
	_, err = svc.GetResult(ctx, clientUser, owned.ID)
	assert.NoError(t, err)
}
