package service

import (
	"context"
	"strings"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/repository"
)

// LandingService serves the public landing-page content and the contact
// inbox. Reads are public; writes are admin only.
type LandingService struct {
	landing repository.LandingRepository
}

// NewLandingService constructs the service.
func NewLandingService(landing repository.LandingRepository) *LandingService {
	return &LandingService{landing: landing}
}

// LandingContent is everything the public page renders.
type LandingContent struct {
	Sections     []domain.Section
	ServiceLines []domain.ServiceLine
	SuccessCases []domain.SuccessCase
}

// PublicContent returns the full landing page payload.
func (s *LandingService) PublicContent(ctx context.Context) (*LandingContent, error) {
	sections, err := s.landing.ListSections(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := s.landing.ListServiceLines(ctx)
	if err != nil {
		return nil, err
	}
	cases, err := s.landing.ListSuccessCases(ctx)
	if err != nil {
		return nil, err
	}
	content := &LandingContent{Sections: sections, ServiceLines: lines, SuccessCases: cases}
	if content.Sections == nil {
		content.Sections = []domain.Section{}
	}
	if content.ServiceLines == nil {
		content.ServiceLines = []domain.ServiceLine{}
	}
	if content.SuccessCases == nil {
		content.SuccessCases = []domain.SuccessCase{}
	}
	return content, nil
}

// UpsertSection creates or replaces the single section of the given type.
func (s *LandingService) UpsertSection(ctx context.Context, actor *domain.User, section domain.Section) (*domain.Section, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("only admins can edit landing content")
	}
	if !section.Type.Valid() {
		return nil, apperr.NewValidationError("unknown section type", map[string]any{"type": section.Type})
	}
	if strings.TrimSpace(section.Title) == "" {
		return nil, apperr.NewValidationError("title required", map[string]any{"field": "title"})
	}
	if err := s.landing.UpsertSection(ctx, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

// AddServiceLine publishes one consulting service entry.
func (s *LandingService) AddServiceLine(ctx context.Context, actor *domain.User, line domain.ServiceLine) (*domain.ServiceLine, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("only admins can edit landing content")
	}
	if strings.TrimSpace(line.Title) == "" {
		return nil, apperr.NewValidationError("title required", map[string]any{"field": "title"})
	}
	if err := s.landing.CreateServiceLine(ctx, &line); err != nil {
		return nil, err
	}
	return &line, nil
}

// AddSuccessCase publishes one success story.
func (s *LandingService) AddSuccessCase(ctx context.Context, actor *domain.User, sc domain.SuccessCase) (*domain.SuccessCase, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("only admins can edit landing content")
	}
	if strings.TrimSpace(sc.Title) == "" {
		return nil, apperr.NewValidationError("title required", map[string]any{"field": "title"})
	}
	if err := s.landing.CreateSuccessCase(ctx, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// SubmitContactMessage records a visitor inquiry. Public.
func (s *LandingService) SubmitContactMessage(ctx context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.ToLower(strings.TrimSpace(msg.Email))
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.Name == "" {
		return nil, apperr.NewValidationError("name required", map[string]any{"field": "name"})
	}
	if msg.Email == "" || !strings.Contains(msg.Email, "@") {
		return nil, apperr.NewValidationError("valid email required", map[string]any{"field": "email"})
	}
	if msg.Message == "" {
		return nil, apperr.NewValidationError("message required", map[string]any{"field": "message"})
	}
	if err := s.landing.CreateContactMessage(ctx, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListContactMessages returns the inquiry inbox. Admin only.
func (s *LandingService) ListContactMessages(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.ContactMessage, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("only admins can read the contact inbox")
	}
	msgs, err := s.landing.ListContactMessages(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.ContactMessage{}
	}
	return msgs, nil
}
