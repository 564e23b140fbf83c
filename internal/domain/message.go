package domain

import "time"

// Message is one entry in a ticket's conversation log. Messages are
// append-only: no update or delete path exists.
type Message struct {
	ID        string
	TicketID  string
	SenderID  string
	Content   string
	Timestamp time.Time
}

// TicketAttachment is a stored file owned by a ticket and optionally by
// one message within that ticket. FileName, MimeType and SizeBytes are
// derived once at creation and never recomputed; UploadedBy is immutable.
type TicketAttachment struct {
	ID         string
	TicketID   string
	MessageID  *string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	UploadedBy string
	CreatedAt  time.Time
}
