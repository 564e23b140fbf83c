package dto

import (
	"time"

	"github.com/orbita-consulting/platform/internal/domain"
)

// TicketCreateRequest payload for opening a ticket. Status, client and
// consultant are never accepted on this endpoint.
type TicketCreateRequest struct {
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	CategoryID  *string    `json:"category_id"`
	DueDate     *time.Time `json:"due_date"`
}

// TicketUpdateRequest is a partial update. Omitted fields stay untouched;
// the Clear/Unassign flags express explicit nulls.
type TicketUpdateRequest struct {
	Subject       *string    `json:"subject"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	Priority      *string    `json:"priority"`
	Resolution    *string    `json:"resolution"`
	ConsultantID  *string    `json:"consultant_id"`
	Unassign      bool       `json:"unassign"`
	CategoryID    *string    `json:"category_id"`
	ClearCategory bool       `json:"clear_category"`
	DueDate       *time.Time `json:"due_date"`
	ClearDueDate  bool       `json:"clear_due_date"`
}

// TicketResponse is the wire view of a ticket.
type TicketResponse struct {
	ID           string     `json:"id"`
	Subject      string     `json:"subject"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	Resolution   string     `json:"resolution,omitempty"`
	ClientID     string     `json:"client_id"`
	ConsultantID *string    `json:"consultant_id"`
	CategoryID   *string    `json:"category_id"`
	DueDate      *time.Time `json:"due_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at"`
}

// NewTicketResponse converts a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           t.ID,
		Subject:      t.Subject,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		Resolution:   t.Resolution,
		ClientID:     t.ClientID,
		ConsultantID: t.ConsultantID,
		CategoryID:   t.CategoryID,
		DueDate:      t.DueDate,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		ClosedAt:     t.ClosedAt,
	}
}

// NewTicketListResponse converts a slice of tickets.
func NewTicketListResponse(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// MessageCreateRequest payload for appending to a conversation.
type MessageCreateRequest struct {
	Content     string              `json:"content"`
	Attachments []AttachmentRequest `json:"attachments"`
}

// AttachmentRequest references an already uploaded file. Metadata fields
// are optional; missing ones are derived from the stored file.
type AttachmentRequest struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// AttachmentBindRequest payload for binding an upload to a ticket.
type AttachmentBindRequest struct {
	AttachmentRequest
	MessageID *string `json:"message_id"`
}

// MessageResponse is the wire view of one conversation entry.
type MessageResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessageResponse converts a domain message.
func NewMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		TicketID:  m.TicketID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}

// NewMessageListResponse converts a slice of messages.
func NewMessageListResponse(messages []domain.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, NewMessageResponse(&messages[i]))
	}
	return out
}

// AttachmentResponse is the wire view of an attachment.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	MessageID  *string   `json:"message_id"`
	StorageKey string    `json:"storage_key"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAttachmentResponse converts a domain attachment.
func NewAttachmentResponse(a *domain.TicketAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		TicketID:   a.TicketID,
		MessageID:  a.MessageID,
		StorageKey: a.StorageKey,
		FileName:   a.FileName,
		MimeType:   a.MimeType,
		SizeBytes:  a.SizeBytes,
		UploadedBy: a.UploadedBy,
		CreatedAt:  a.CreatedAt,
	}
}

// NewAttachmentListResponse converts a slice of attachments.
func NewAttachmentListResponse(attachments []domain.TicketAttachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		out = append(out, NewAttachmentResponse(&attachments[i]))
	}
	return out
}

// CategoryRequest payload for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse is the wire view of a category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewCategoryListResponse converts a slice of categories.
func NewCategoryListResponse(categories []domain.TicketCategory) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out
}
