package domain

import "time"

// SectionType identifies the fixed landing-page sections; at most one
// section exists per type.
type SectionType string

const (
	SectionAbout    SectionType = "about"
	SectionServices SectionType = "services"
	SectionContact  SectionType = "contact"
)

// Valid reports whether the section type is known.
func (s SectionType) Valid() bool {
	switch s {
	case SectionAbout, SectionServices, SectionContact:
		return true
	}
	return false
}

// Section is a landing-page content block.
type Section struct {
	ID        string
	Type      SectionType
	Title     string
	Content   string
	ImageKey  *string
	UpdatedAt time.Time
}

// ServiceLine describes one offered consulting service.
type ServiceLine struct {
	ID          string
	Title       string
	Description string
	Icon        string
}

// SuccessCase is a published client success story.
type SuccessCase struct {
	ID          string
	Title       string
	Description string
	ClientName  string
	ImageKey    *string
}

// ContactMessage is an inquiry submitted by an anonymous visitor.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
