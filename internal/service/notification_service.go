package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/events"
	"github.com/orbita-consulting/platform/internal/repository"
)

// NotificationService materializes domain events into per-user records and
// serves the notification inbox.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	logger        *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, logger: logger}
}

// HandleEvent is the dispatcher subscription point. Fan-out failures are
// logged and swallowed so event delivery never blocks the emitting
// operation.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	switch payload := event.Payload.(type) {
	case events.TicketCreatedPayload:
		if payload.ConsultantID != nil {
			s.deliver(ctx, *payload.ConsultantID, domain.NotifyTicketCreated,
				fmt.Sprintf("New ticket: %s", payload.Subject),
				ticketTarget(payload.TicketID))
		}
	case events.TicketStatusChangedPayload:
		kind := domain.NotifyTicketUpdated
		title := fmt.Sprintf("Ticket updated: %s", payload.Subject)
		if payload.NewStatus == domain.TicketStatusClosed {
			kind = domain.NotifyTicketClosed
			title = fmt.Sprintf("Ticket closed: %s", payload.Subject)
		}
		if event.Actor.ID != payload.ClientID {
			s.deliver(ctx, payload.ClientID, kind, title, ticketTarget(payload.TicketID))
		}
	case events.TicketAssignedPayload:
		if payload.ConsultantID != nil && event.Actor.ID != *payload.ConsultantID {
			s.deliver(ctx, *payload.ConsultantID, domain.NotifyTicketUpdated,
				fmt.Sprintf("Ticket assigned to you: %s", payload.Subject),
				ticketTarget(payload.TicketID))
		}
	case events.MessageAppendedPayload:
		title := fmt.Sprintf("New message on %s: %s", payload.Subject, payload.Preview)
		if payload.SenderID != payload.ClientID {
			s.deliver(ctx, payload.ClientID, domain.NotifyMessageCreated, title, ticketTarget(payload.TicketID))
		}
		if payload.ConsultantID != nil && payload.SenderID != *payload.ConsultantID {
			s.deliver(ctx, *payload.ConsultantID, domain.NotifyMessageCreated, title, ticketTarget(payload.TicketID))
		}
	case events.AssessmentCompletedPayload:
		consultants, err := s.users.ListByRole(ctx, domain.RoleConsultant)
		if err != nil {
			s.logger.Warn("consultant fan-out failed", zap.Error(err))
			return nil
		}
		target := &domain.TargetRef{Kind: domain.TargetAssessmentResult, ID: payload.ResultID}
		for _, consultant := range consultants {
			s.deliver(ctx, consultant.ID, domain.NotifyAssessmentCompleted,
				fmt.Sprintf("Assessment completed: %s", payload.Title), target)
		}
	}
	return nil
}

// deliver creates one record if the recipient's preferences allow the
// type.
func (s *NotificationService) deliver(ctx context.Context, userID string, kind domain.NotificationType, title string, target *domain.TargetRef) {
	prefs, err := s.notifications.GetPreferences(ctx, userID)
	if err != nil {
		s.logger.Warn("preference lookup failed", zap.String("user_id", userID), zap.Error(err))
		prefs = domain.DefaultNotificationPreferences(userID)
	}
	if !prefs.Allows(kind) {
		return
	}
	notification := &domain.Notification{
		UserID: userID,
		Type:   kind,
		Title:  title,
		Target: target,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Warn("notification create failed",
			zap.String("user_id", userID),
			zap.String("type", string(kind)),
			zap.Error(err))
	}
}

// List returns the actor's own inbox, newest first.
func (s *NotificationService) List(ctx context.Context, actor *domain.User, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	items, err := s.notifications.ListByUser(ctx, actor.ID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return items, nil
}

// UnreadCount returns the actor's unread total.
func (s *NotificationService) UnreadCount(ctx context.Context, actor *domain.User) (int64, error) {
	return s.notifications.CountUnread(ctx, actor.ID)
}

// MarkRead marks one of the actor's notifications read. Notifications are
// strictly owner-scoped; even admins do not read other inboxes.
func (s *NotificationService) MarkRead(ctx context.Context, actor *domain.User, notificationID string) error {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NewNotFound("notification")
		}
		return err
	}
	if notification.UserID != actor.ID {
		return apperr.NewDenied("no access to this notification")
	}
	return s.notifications.MarkRead(ctx, notificationID)
}

// MarkAllRead clears the actor's unread set.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor *domain.User) error {
	return s.notifications.MarkAllRead(ctx, actor.ID)
}

// Preferences returns the actor's delivery preferences, defaults included.
func (s *NotificationService) Preferences(ctx context.Context, actor *domain.User) (domain.NotificationPreferences, error) {
	return s.notifications.GetPreferences(ctx, actor.ID)
}

// UpdatePreferences replaces the actor's delivery preferences.
func (s *NotificationService) UpdatePreferences(ctx context.Context, actor *domain.User, prefs domain.NotificationPreferences) (domain.NotificationPreferences, error) {
	prefs.UserID = actor.ID
	if err := s.notifications.SavePreferences(ctx, prefs); err != nil {
		return domain.NotificationPreferences{}, err
	}
	return prefs, nil
}

func ticketTarget(ticketID string) *domain.TargetRef {
	return &domain.TargetRef{Kind: domain.TargetTicket, ID: ticketID}
}
