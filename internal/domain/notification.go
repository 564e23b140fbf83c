package domain

import "time"

// NotificationType enumerates the events a notification can describe.
type NotificationType string

const (
	NotifyTicketCreated       NotificationType = "ticket_created"
	NotifyTicketUpdated       NotificationType = "ticket_updated"
	NotifyTicketClosed        NotificationType = "ticket_closed"
	NotifyMessageCreated      NotificationType = "message_created"
	NotifyAssessmentCompleted NotificationType = "assessment_completed"
)

// TargetKind is the closed set of entities a notification or report can
// point at.
type TargetKind string

const (
	TargetTicket           TargetKind = "ticket"
	TargetMessage          TargetKind = "message"
	TargetAssessmentResult TargetKind = "assessment_result"
	TargetReport           TargetKind = "report"
)

// TargetRef is a typed reference to another entity.
type TargetRef struct {
	Kind TargetKind
	ID   string
}

// Notification is an in-platform record addressed to a single user.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Read      bool
	Target    *TargetRef
	CreatedAt time.Time
}

// OwnerID returns the recipient, satisfying the authz ownership probe.
func (n *Notification) OwnerID() string { return n.UserID }

// NotificationPreferences gates which in-platform records are created for
// a user. Absent rows default to everything enabled.
type NotificationPreferences struct {
	UserID                 string
	WebTicketCreated       bool
	WebTicketUpdated       bool
	WebTicketClosed        bool
	WebMessageCreated      bool
	WebAssessmentCompleted bool
}

// DefaultNotificationPreferences returns the all-enabled defaults.
func DefaultNotificationPreferences(userID string) NotificationPreferences {
	return NotificationPreferences{
		UserID:                 userID,
		WebTicketCreated:       true,
		WebTicketUpdated:       true,
		WebTicketClosed:        true,
		WebMessageCreated:      true,
		WebAssessmentCompleted: true,
	}
}

// Allows reports whether records of the given type should be created.
func (p NotificationPreferences) Allows(t NotificationType) bool {
	switch t {
	case NotifyTicketCreated:
		return p.WebTicketCreated
	case NotifyTicketUpdated:
		return p.WebTicketUpdated
	case NotifyTicketClosed:
		return p.WebTicketClosed
	case NotifyMessageCreated:
		return p.WebMessageCreated
	case NotifyAssessmentCompleted:
		return p.WebAssessmentCompleted
	}
	return false
}
