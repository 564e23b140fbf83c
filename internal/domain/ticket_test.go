package domain

import (
	"testing"
	"time"
)

func TestApplyStatusStampsClosedAt(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := base.Add(48 * time.Hour)

	tests := []struct {
		name       string
		start      TicketStatus
		startClose *time.Time
		next       TicketStatus
		at         time.Time
		wantClose  *time.Time
	}{
		{
			name:      "entering closed stamps the time",
			start:     TicketStatusOpen,
			next:      TicketStatusClosed,
			at:        base,
			wantClose: &base,
		},
		{
			name:       "closed to closed keeps the original stamp",
			start:      TicketStatusClosed,
			startClose: &base,
			next:       TicketStatusClosed,
			at:         later,
			wantClose:  &base,
		},
		{
			name:       "reopening never clears the stamp",
			start:      TicketStatusClosed,
			startClose: &base,
			next:       TicketStatusOpen,
			at:         later,
			wantClose:  &base,
		},
		{
			name:       "closing again moves the stamp forward",
			start:      TicketStatusOpen,
			startClose: &base,
			next:       TicketStatusClosed,
			at:         later,
			wantClose:  &later,
		},
		{
			name:  "non-closing transitions leave it unset",
			start: TicketStatusNew,
			next:  TicketStatusInProgress,
			at:    base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &Ticket{Status: tt.start, ClosedAt: tt.startClose}
			ticket.ApplyStatus(tt.next, tt.at)

			if ticket.Status != tt.next {
				t.Fatalf("status = %s, want %s", ticket.Status, tt.next)
			}
			switch {
			case tt.wantClose == nil && ticket.ClosedAt != nil:
				t.Fatalf("closed_at = %v, want nil", ticket.ClosedAt)
			case tt.wantClose != nil && ticket.ClosedAt == nil:
				t.Fatalf("closed_at = nil, want %v", *tt.wantClose)
			case tt.wantClose != nil && !ticket.ClosedAt.Equal(*tt.wantClose):
				t.Fatalf("closed_at = %v, want %v", *ticket.ClosedAt, *tt.wantClose)
			}
		})
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	order := []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Fatalf("%s should rank above %s", order[i], order[i-1])
		}
	}
}

func TestTicketOrderValid(t *testing.T) {
	valid := []TicketOrder{"created_at", "-created_at", "updated_at", "-updated_at", "priority", "-priority", "due_date", "-due_date"}
	for _, o := range valid {
		if !o.Valid() {
			t.Fatalf("%q should be valid", o)
		}
	}
	if TicketOrder("subject").Valid() {
		t.Fatal("arbitrary columns must not be orderable")
	}
}
