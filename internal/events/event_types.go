package events

import (
	"time"

	"github.com/orbita-consulting/platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventMessageAppended     EventType = "message_appended"
	EventAssessmentCompleted EventType = "assessment_completed"
)

// Actor identifies who triggered an event. ID is empty for anonymous
// visitors (assessment submissions).
type Actor struct {
	ID   string      `json:"id,omitempty"`
	Role domain.Role `json:"role,omitempty"`
}

// Event is a domain event emitted by services. Delivery is fire-and-forget
// and at least once; no ordering is guaranteed across distinct tickets.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload carries enough of the new ticket for subscribers to
// pick recipients without a lookup.
type TicketCreatedPayload struct {
	TicketID     string                `json:"ticket_id"`
	Subject      string                `json:"subject"`
	Priority     domain.TicketPriority `json:"priority"`
	ClientID     string                `json:"client_id"`
	ConsultantID *string               `json:"consultant_id,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID     string              `json:"ticket_id"`
	Subject      string              `json:"subject"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	ClientID     string              `json:"client_id"`
	ConsultantID *string             `json:"consultant_id,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID     string  `json:"ticket_id"`
	Subject      string  `json:"subject"`
	ClientID     string  `json:"client_id"`
	ConsultantID *string `json:"consultant_id,omitempty"`
}

// MessageAppendedPayload payload.
type MessageAppendedPayload struct {
	TicketID     string  `json:"ticket_id"`
	Subject      string  `json:"subject"`
	MessageID    string  `json:"message_id"`
	SenderID     string  `json:"sender_id"`
	ClientID     string  `json:"client_id"`
	ConsultantID *string `json:"consultant_id,omitempty"`
	Preview      string  `json:"preview"`
}

// AssessmentCompletedPayload payload.
type AssessmentCompletedPayload struct {
	AssessmentID string  `json:"assessment_id"`
	ResultID     string  `json:"result_id"`
	Title        string  `json:"title"`
	UserID       *string `json:"user_id,omitempty"`
	Answered     int     `json:"answered"`
}
