package dto

import (
	"time"

	"github.com/orbita-consulting/platform/internal/domain"
)

// NotificationResponse is the wire view of one inbox record.
type NotificationResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message,omitempty"`
	Read       bool      `json:"read"`
	TargetKind *string   `json:"target_kind,omitempty"`
	TargetID   *string   `json:"target_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewNotificationResponse converts a domain notification.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.Target != nil {
		kind := string(n.Target.Kind)
		resp.TargetKind = &kind
		resp.TargetID = &n.Target.ID
	}
	return resp
}

// NewNotificationListResponse converts a slice of notifications.
func NewNotificationListResponse(notifications []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, NewNotificationResponse(&notifications[i]))
	}
	return out
}

// PreferencesPayload carries notification preferences both ways.
type PreferencesPayload struct {
	TicketCreated       bool `json:"ticket_created"`
	TicketUpdated       bool `json:"ticket_updated"`
	TicketClosed        bool `json:"ticket_closed"`
	MessageCreated      bool `json:"message_created"`
	AssessmentCompleted bool `json:"assessment_completed"`
}

// NewPreferencesPayload converts domain preferences.
func NewPreferencesPayload(prefs domain.NotificationPreferences) PreferencesPayload {
	return PreferencesPayload{
		TicketCreated:       prefs.WebTicketCreated,
		TicketUpdated:       prefs.WebTicketUpdated,
		TicketClosed:        prefs.WebTicketClosed,
		MessageCreated:      prefs.WebMessageCreated,
		AssessmentCompleted: prefs.WebAssessmentCompleted,
	}
}

// ToDomain converts the payload back to domain preferences.
func (p PreferencesPayload) ToDomain() domain.NotificationPreferences {
	return domain.NotificationPreferences{
		WebTicketCreated:       p.TicketCreated,
		WebTicketUpdated:       p.TicketUpdated,
		WebTicketClosed:        p.TicketClosed,
		WebMessageCreated:      p.MessageCreated,
		WebAssessmentCompleted: p.AssessmentCompleted,
	}
}
