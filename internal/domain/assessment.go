package domain

import "time"

// SelfAssessment is a public quiz visitors and clients can complete.
type SelfAssessment struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssessmentQuestion belongs to one assessment. Options map a letter key
// ("A", "B", ...) to its display text.
type AssessmentQuestion struct {
	ID           string
	AssessmentID string
	Position     int
	QuestionText string
	Options      map[string]string
}

// AssessmentResponse records one answer letter for one question.
type AssessmentResponse struct {
	ID         string
	ResultID   string
	QuestionID string
	Response   string
	CreatedAt  time.Time
}

// AssessmentResult aggregates a completed submission. UserID is nil for
// anonymous visitors.
type AssessmentResult struct {
	ID           string
	AssessmentID string
	UserID       *string
	Answered     int
	CreatedAt    time.Time
}

// OwnerID satisfies the authz ownership probe; anonymous results resolve
// to an empty owner, leaving them visible to consultants and admins only.
func (r *AssessmentResult) OwnerID() string {
	if r.UserID == nil {
		return ""
	}
	return *r.UserID
}
