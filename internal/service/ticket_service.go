package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/authz"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/events"
	"github.com/orbita-consulting/platform/internal/ratelimit"
	"github.com/orbita-consulting/platform/internal/repository"
	"github.com/orbita-consulting/platform/internal/storage"
)

// TicketService owns the ticket lifecycle, the conversation log and
// attachment association.
type TicketService struct {
	tickets     repository.TicketRepository
	messages    repository.MessageRepository
	attachments repository.AttachmentRepository
	categories  repository.CategoryRepository
	users       repository.UserRepository
	files       storage.Store
	dispatcher  events.Dispatcher
	limiter     ratelimit.Limiter
	rateCfg     ratelimit.Config
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	MessageRepo    repository.MessageRepository
	AttachmentRepo repository.AttachmentRepository
	CategoryRepo   repository.CategoryRepository
	UserRepo       repository.UserRepository
	Files          storage.Store
	Dispatcher     events.Dispatcher
	Limiter        ratelimit.Limiter
	OpsPerMinute   int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		messages:    deps.MessageRepo,
		attachments: deps.AttachmentRepo,
		categories:  deps.CategoryRepo,
		users:       deps.UserRepo,
		files:       deps.Files,
		dispatcher:  deps.Dispatcher,
		limiter:     deps.Limiter,
		rateCfg:     ratelimit.Config{RequestsPerMinute: deps.OpsPerMinute},
	}
}

// TicketCreateInput describes ticket creation payload. Status, client and
// consultant are not accepted here: they are forced by the engine.
type TicketCreateInput struct {
	Subject     string
	Description string
	Priority    domain.TicketPriority
	CategoryID  *string
	DueDate     *time.Time
}

// TicketListInput describes listing filters. Scoping is derived from the
// actor, never from the input.
type TicketListInput struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	CategoryID *string
	Search     *string
	Order      domain.TicketOrder
	Limit      int
	Offset     int
}

// ConsultantPatch requests an assignment change; a nil UserID unassigns.
type ConsultantPatch struct {
	UserID *string
}

// CategoryPatch requests a category change; a nil CategoryID clears it.
type CategoryPatch struct {
	CategoryID *string
}

// DueDatePatch requests a due-date change; a nil Date clears it.
type DueDatePatch struct {
	Date *time.Time
}

// TicketPatch is a partial update; nil fields are untouched.
type TicketPatch struct {
	Subject     *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Resolution  *string
	Consultant  *ConsultantPatch
	Category    *CategoryPatch
	DueDate     *DueDatePatch
}

// AttachmentInput references a stored file. Empty metadata fields are
// derived from the stored file once, at creation.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// CreateTicket opens a ticket for a client actor. The created ticket's
// client is bound to the actor, status is forced to new and consultant to
// unassigned regardless of caller input.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if err := s.checkRate(actor); err != nil {
		return nil, err
	}
	if !authz.CanCreateTicket(actor) {
		return nil, apperr.NewDenied("only clients can open tickets")
	}

	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperr.NewValidationError("subject required", map[string]any{"field": "subject"})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperr.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperr.NewNotFound("category")
			}
			return nil, err
		}
	}

	ticket := &domain.Ticket{
		Subject:     subject,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusNew,
		Priority:    priority,
		ClientID:    actor.ID,
		CategoryID:  input.CategoryID,
		DueDate:     input.DueDate,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, actor, events.EventTicketCreated, events.TicketCreatedPayload{
		TicketID:     ticket.ID,
		Subject:      ticket.Subject,
		Priority:     ticket.Priority,
		ClientID:     ticket.ClientID,
		ConsultantID: ticket.ConsultantID,
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the actor: admins see all,
// consultants only their assignments, clients only their own. The list
// path never fails for authorization reasons.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, input TicketListInput) ([]domain.Ticket, error) {
	if err := s.checkRate(actor); err != nil {
		return nil, err
	}

	filter := repository.TicketFilter{
		Statuses:   input.Statuses,
		Priorities: input.Priorities,
		CategoryID: input.CategoryID,
		SearchTerm: input.Search,
		Order:      input.Order,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	switch actor.Role {
	case domain.RoleAdmin:
		// unscoped
	case domain.RoleConsultant:
		filter.ConsultantID = &actor.ID
	case domain.RoleClient:
		filter.ClientID = &actor.ID
	default:
		return []domain.Ticket{}, nil
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// GetTicket returns one ticket or an explicit denial. Unlike the list
// paths, missing tickets surface as not-found and unauthorized access as
// denied.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("ticket")
		}
		return nil, err
	}
	if !authz.CanAccessTicket(actor, ticket, authz.ActionView) {
		return nil, apperr.NewDenied("no access to this ticket")
	}
	return ticket, nil
}

// UpdateTicket applies a partial update under the role matrix: admins may
// change any field, consultants their assigned tickets' status, resolution
// and unassignment, clients only descriptive fields of their own tickets.
// Entering closed stamps closed_at inside the same transactional write.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.User, ticketID string, patch TicketPatch) (*domain.Ticket, error) {
	if err := validatePatchShape(patch); err != nil {
		return nil, err
	}

	var oldStatus domain.TicketStatus
	var oldConsultant *string

	ticket, err := s.tickets.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		if !authz.CanAccessTicket(actor, t, authz.ActionUpdate) {
			return apperr.NewDenied("no access to this ticket")
		}
		if err := s.validatePatchRefs(ctx, patch); err != nil {
			return err
		}
		oldStatus = t.Status
		oldConsultant = t.ConsultantID
		return applyPatch(actor, t, patch, time.Now())
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("ticket")
		}
		return nil, err
	}

	if ticket.Status != oldStatus {
		s.publish(ctx, actor, events.EventTicketStatusChanged, events.TicketStatusChangedPayload{
			TicketID:     ticket.ID,
			Subject:      ticket.Subject,
			OldStatus:    oldStatus,
			NewStatus:    ticket.Status,
			ClientID:     ticket.ClientID,
			ConsultantID: ticket.ConsultantID,
		})
	}
	if !sameConsultant(oldConsultant, ticket.ConsultantID) {
		s.publish(ctx, actor, events.EventTicketAssigned, events.TicketAssignedPayload{
			TicketID:     ticket.ID,
			Subject:      ticket.Subject,
			ClientID:     ticket.ClientID,
			ConsultantID: ticket.ConsultantID,
		})
	}
	return ticket, nil
}

// validatePatchShape checks the parts of a patch that need no lookups:
// enum values must be known and the subject non-empty.
func validatePatchShape(patch TicketPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return apperr.NewValidationError("unknown status", map[string]any{"status": *patch.Status})
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return apperr.NewValidationError("unknown priority", map[string]any{"priority": *patch.Priority})
	}
	if patch.Subject != nil && strings.TrimSpace(*patch.Subject) == "" {
		return apperr.NewValidationError("subject required", map[string]any{"field": "subject"})
	}
	return nil
}

// validatePatchRefs resolves referenced consultants and categories. It
// runs inside the mutation, after the actor's access to the ticket is
// established, so the existence of other records is never revealed to
// actors without access.
func (s *TicketService) validatePatchRefs(ctx context.Context, patch TicketPatch) error {
	if patch.Consultant != nil && patch.Consultant.UserID != nil {
		target, err := s.users.GetByID(ctx, *patch.Consultant.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NewNotFound("consultant")
			}
			return err
		}
		if !target.IsConsultant() {
			return apperr.NewValidationError("assignee is not a consultant", map[string]any{"user_id": target.ID})
		}
	}
	if patch.Category != nil && patch.Category.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *patch.Category.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NewNotFound("category")
			}
			return err
		}
	}
	return nil
}

// applyPatch enforces the per-role field matrix against the locked row and
// mutates it. The client relation is never writable.
func applyPatch(actor *domain.User, t *domain.Ticket, patch TicketPatch, now time.Time) error {
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleConsultant:
		if patch.Subject != nil || patch.Description != nil || patch.Priority != nil ||
			patch.Category != nil || patch.DueDate != nil {
			return apperr.NewDenied("consultants may only change status, resolution and unassign themselves")
		}
		if patch.Consultant != nil && patch.Consultant.UserID != nil {
			return apperr.NewDenied("only admins can assign consultants")
		}
	case domain.RoleClient:
		if patch.Status != nil || patch.Consultant != nil || patch.Category != nil ||
			patch.Priority != nil || patch.Resolution != nil {
			return apperr.NewDenied("clients may only edit descriptive fields")
		}
	default:
		return apperr.NewDenied("unknown role")
	}

	if patch.Subject != nil {
		t.Subject = strings.TrimSpace(*patch.Subject)
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Resolution != nil {
		t.Resolution = *patch.Resolution
	}
	if patch.Consultant != nil {
		t.ConsultantID = patch.Consultant.UserID
	}
	if patch.Category != nil {
		t.CategoryID = patch.Category.CategoryID
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate.Date
	}
	if patch.Status != nil {
		t.ApplyStatus(*patch.Status, now)
	}
	return nil
}

// AppendMessage adds one entry to the ticket's conversation, with any
// attachments created in the same transaction.
func (s *TicketService) AppendMessage(ctx context.Context, actor *domain.User, ticketID, content string, files []AttachmentInput) (*domain.Message, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("ticket")
		}
		return nil, err
	}
	if !authz.CanAccessTicket(actor, ticket, authz.ActionMessage) {
		return nil, apperr.NewDenied("no access to this ticket")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.NewValidationError("content required", map[string]any{"field": "content"})
	}

	msg := &domain.Message{
		TicketID: ticket.ID,
		SenderID: actor.ID,
		Content:  strings.TrimSpace(content),
	}
	attachments := make([]*domain.TicketAttachment, 0, len(files))
	for _, file := range files {
		att, err := s.materializeAttachment(ticket.ID, actor.ID, file)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, att)
	}
	if err := s.messages.CreateWithAttachments(ctx, msg, attachments); err != nil {
		return nil, err
	}

	s.publish(ctx, actor, events.EventMessageAppended, events.MessageAppendedPayload{
		TicketID:     ticket.ID,
		Subject:      ticket.Subject,
		MessageID:    msg.ID,
		SenderID:     msg.SenderID,
		ClientID:     ticket.ClientID,
		ConsultantID: ticket.ConsultantID,
		Preview:      preview(msg.Content, 120),
	})
	return msg, nil
}

// ListMessages returns the conversation in timestamp order. Unauthorized
// actors and nonexistent tickets both get an empty result; this path never
// reveals whether the ticket exists.
func (s *TicketService) ListMessages(ctx context.Context, actor *domain.User, ticketID string) ([]domain.Message, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Message{}, nil
		}
		return nil, err
	}
	if !authz.CanAccessTicket(actor, ticket, authz.ActionView) {
		return []domain.Message{}, nil
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// AttachFile binds a stored file to a ticket, and optionally to one
// message within it.
func (s *TicketService) AttachFile(ctx context.Context, actor *domain.User, ticketID string, file AttachmentInput, messageID *string) (*domain.TicketAttachment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("ticket")
		}
		return nil, err
	}
	if !authz.CanAccessTicket(actor, ticket, authz.ActionAttach) {
		return nil, apperr.NewDenied("no access to this ticket")
	}

	att, err := s.materializeAttachment(ticket.ID, actor.ID, file)
	if err != nil {
		return nil, err
	}
	if messageID != nil {
		msg, err := s.messages.GetByID(ctx, *messageID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperr.NewNotFound("message")
			}
			return nil, err
		}
		if msg.TicketID != ticket.ID {
			return nil, apperr.NewValidationError("message belongs to a different ticket", nil)
		}
		att.MessageID = messageID
	}

	if err := s.attachments.Create(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

// ListAttachments returns the ticket's attachments under the same access
// rule as the ticket itself.
func (s *TicketService) ListAttachments(ctx context.Context, actor *domain.User, ticketID string) ([]domain.TicketAttachment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("ticket")
		}
		return nil, err
	}
	if !authz.CanAccessTicket(actor, ticket, authz.ActionView) {
		return nil, apperr.NewDenied("no access to this ticket")
	}
	atts, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if atts == nil {
		atts = []domain.TicketAttachment{}
	}
	return atts, nil
}

// materializeAttachment fills metadata from the stored file when the
// caller did not supply it. Metadata is computed here once and becomes
// immutable on the record.
func (s *TicketService) materializeAttachment(ticketID, uploaderID string, file AttachmentInput) (*domain.TicketAttachment, error) {
	if file.StorageKey == "" {
		return nil, apperr.NewValidationError("storage key required", map[string]any{"field": "storage_key"})
	}
	att := &domain.TicketAttachment{
		TicketID:   ticketID,
		StorageKey: file.StorageKey,
		FileName:   file.FileName,
		MimeType:   file.MimeType,
		SizeBytes:  file.SizeBytes,
		UploadedBy: uploaderID,
	}
	if att.FileName == "" || att.MimeType == "" || att.SizeBytes == 0 {
		if s.files == nil {
			return nil, apperr.NewValidationError("attachment metadata required", nil)
		}
		stored, err := s.files.Stat(file.StorageKey)
		if err != nil {
			return nil, apperr.NewNotFound("stored file")
		}
		if att.FileName == "" {
			att.FileName = stored.FileName
		}
		if att.MimeType == "" {
			att.MimeType = stored.MimeType
		}
		if att.SizeBytes == 0 {
			att.SizeBytes = stored.SizeBytes
		}
	}
	return att, nil
}

// checkRate applies the per-actor throughput cap on the create/list paths.
// A limiter outage never blocks ticket work.
func (s *TicketService) checkRate(actor *domain.User) error {
	if s.limiter == nil || actor == nil {
		return nil
	}
	allowed, err := s.limiter.Allow("tickets:"+actor.ID, s.rateCfg)
	if err != nil {
		return nil
	}
	if !allowed {
		return apperr.NewRateLimited("ticket operation limit exceeded", 60)
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, actor *domain.User, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if actor != nil {
		event.Actor = events.Actor{ID: actor.ID, Role: actor.Role}
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func sameConsultant(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// preview truncates on rune boundaries so multi-byte content never ends
// up split mid-character in a notification.
func preview(body string, max int) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
