package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Any status may
// move to any other; the only derived behavior is ClosedAt stamping on
// entry to closed.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is a known value.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusOpen, TicketStatusInProgress,
		TicketStatusPending, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Rank orders priorities for sorting, lowest first.
func (p TicketPriority) Rank() int {
	switch p {
	case TicketPriorityLow:
		return 0
	case TicketPriorityMedium:
		return 1
	case TicketPriorityHigh:
		return 2
	case TicketPriorityUrgent:
		return 3
	}
	return -1
}

// TicketCategory is an optional named label tickets may reference.
type TicketCategory struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ticket is the aggregate for support cases. ClientID never changes after
// creation; ConsultantID is settable only by an admin.
type Ticket struct {
	ID           string
	Subject      string
	Description  string
	Status       TicketStatus
	Priority     TicketPriority
	Resolution   string
	ClientID     string
	ConsultantID *string
	CategoryID   *string
	DueDate      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ClosedAt     *time.Time
}

// ApplyStatus moves the ticket to next and stamps ClosedAt when the ticket
// enters closed from a non-closed state. ClosedAt is sticky: re-opening a
// closed ticket leaves the last closure time in place.
func (t *Ticket) ApplyStatus(next TicketStatus, now time.Time) {
	if next == TicketStatusClosed && t.Status != TicketStatusClosed {
		closedAt := now
		t.ClosedAt = &closedAt
	}
	t.Status = next
}

// ClientOwnerID satisfies the authz ownership probe through the client
// relation.
func (t *Ticket) ClientOwnerID() string { return t.ClientID }

// IsAssignedTo reports whether the ticket's consultant is the given user.
func (t *Ticket) IsAssignedTo(userID string) bool {
	return t.ConsultantID != nil && *t.ConsultantID == userID
}

// TicketOrder enumerates supported list orderings.
type TicketOrder string

const (
	OrderCreatedAtDesc TicketOrder = "-created_at"
	OrderCreatedAtAsc  TicketOrder = "created_at"
	OrderUpdatedAtDesc TicketOrder = "-updated_at"
	OrderUpdatedAtAsc  TicketOrder = "updated_at"
	OrderPriorityDesc  TicketOrder = "-priority"
	OrderPriorityAsc   TicketOrder = "priority"
	OrderDueDateDesc   TicketOrder = "-due_date"
	OrderDueDateAsc    TicketOrder = "due_date"
)

// Valid reports whether the ordering is supported.
func (o TicketOrder) Valid() bool {
	switch o {
	case OrderCreatedAtDesc, OrderCreatedAtAsc, OrderUpdatedAtDesc, OrderUpdatedAtAsc,
		OrderPriorityDesc, OrderPriorityAsc, OrderDueDateDesc, OrderDueDateAsc:
		return true
	}
	return false
}
