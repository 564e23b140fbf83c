package dto

import (
	"time"

	"github.com/orbita-consulting/platform/internal/domain"
)

// SectionRequest payload for editing a landing section.
type SectionRequest struct {
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageKey *string `json:"image_key"`
}

// SectionResponse is the wire view of a landing section.
type SectionResponse struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageKey *string `json:"image_key,omitempty"`
}

// ServiceLineRequest payload for publishing a service entry.
type ServiceLineRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// SuccessCaseRequest payload for publishing a success story.
type SuccessCaseRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ClientName  string  `json:"client_name"`
	ImageKey    *string `json:"image_key"`
}

// ContactRequest payload for the public contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// LandingResponse is the full public landing payload.
type LandingResponse struct {
	Sections     []SectionResponse `json:"sections"`
	ServiceLines []ServiceLineView `json:"service_lines"`
	SuccessCases []SuccessCaseView `json:"success_cases"`
}

// ServiceLineView is the wire view of a service entry.
type ServiceLineView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// NewServiceLineView converts a domain service line.
func NewServiceLineView(line *domain.ServiceLine) ServiceLineView {
	return ServiceLineView{ID: line.ID, Title: line.Title, Description: line.Description, Icon: line.Icon}
}

// SuccessCaseView is the wire view of a success story.
type SuccessCaseView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ClientName  string  `json:"client_name"`
	ImageKey    *string `json:"image_key,omitempty"`
}

// NewLandingResponse converts the aggregated landing content.
func NewLandingResponse(sections []domain.Section, lines []domain.ServiceLine, cases []domain.SuccessCase) LandingResponse {
	resp := LandingResponse{
		Sections:     make([]SectionResponse, 0, len(sections)),
		ServiceLines: make([]ServiceLineView, 0, len(lines)),
		SuccessCases: make([]SuccessCaseView, 0, len(cases)),
	}
	for i := range lines {
		resp.ServiceLines = append(resp.ServiceLines, NewServiceLineView(&lines[i]))
	}
	for _, s := range sections {
		resp.Sections = append(resp.Sections, SectionResponse{
			ID:       s.ID,
			Type:     string(s.Type),
			Title:    s.Title,
			Content:  s.Content,
			ImageKey: s.ImageKey,
		})
	}
	for i := range cases {
		resp.SuccessCases = append(resp.SuccessCases, NewSuccessCaseView(&cases[i]))
	}
	return resp
}

// NewSuccessCaseView converts a domain success story.
func NewSuccessCaseView(sc *domain.SuccessCase) SuccessCaseView {
	return SuccessCaseView{
		ID:          sc.ID,
		Title:       sc.Title,
		Description: sc.Description,
		ClientName:  sc.ClientName,
		ImageKey:    sc.ImageKey,
	}
}

// ContactMessageView is the wire view of a visitor inquiry.
type ContactMessageView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewContactMessageListResponse converts the admin inquiry inbox.
func NewContactMessageListResponse(msgs []domain.ContactMessage) []ContactMessageView {
	out := make([]ContactMessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ContactMessageView{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
