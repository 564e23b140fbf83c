package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/events"
	"github.com/orbita-consulting/platform/internal/ratelimit"
	"github.com/orbita-consulting/platform/internal/repository"
)

type fakeIDSource struct {
	mu   sync.Mutex
	next int
}

func (f *fakeIDSource) id(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return fmt.Sprintf("%s-%d", prefix, f.next)
}

var ids fakeIDSource

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = ids.id("ticket")
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) Mutate(_ context.Context, id string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	if err := fn(&clone); err != nil {
		return nil, err
	}
	clone.UpdatedAt = time.Now()
	r.tickets[id] = &clone
	result := clone
	return &result, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.ClientID != nil && ticket.ClientID != *filter.ClientID {
			continue
		}
		if filter.ConsultantID != nil {
			if ticket.ConsultantID == nil || *ticket.ConsultantID != *filter.ConsultantID {
				continue
			}
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(*filter.SearchTerm)
			if !strings.Contains(strings.ToLower(ticket.Subject), term) &&
				!strings.Contains(strings.ToLower(ticket.Description), term) {
				continue
			}
		}
		out = append(out, *ticket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[string]*domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[string]*domain.Message{}}
}

func (r *fakeMessageRepo) CreateWithAttachments(_ context.Context, msg *domain.Message, attachments []*domain.TicketAttachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = ids.id("message")
	msg.Timestamp = time.Now()
	clone := *msg
	r.messages[msg.ID] = &clone
	for _, att := range attachments {
		att.ID = ids.id("attachment")
		att.MessageID = &msg.ID
	}
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *msg
	return &clone, nil
}

func (r *fakeMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, msg := range r.messages {
		if msg.TicketID == ticketID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type fakeAttachmentRepo struct {
	mu          sync.Mutex
	attachments map[string]*domain.TicketAttachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: map[string]*domain.TicketAttachment{}}
}

func (r *fakeAttachmentRepo) Create(_ context.Context, att *domain.TicketAttachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	att.ID = ids.id("attachment")
	att.CreatedAt = time.Now()
	clone := *att
	r.attachments[att.ID] = &clone
	return nil
}

func (r *fakeAttachmentRepo) GetByID(_ context.Context, id string) (*domain.TicketAttachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	att, ok := r.attachments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *att
	return &clone, nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketAttachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.TicketAttachment
	for _, att := range r.attachments {
		if att.TicketID == ticketID {
			out = append(out, *att)
		}
	}
	return out, nil
}

func (r *fakeAttachmentRepo) ListByMessage(_ context.Context, messageID string) ([]domain.TicketAttachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.TicketAttachment
	for _, att := range r.attachments {
		if att.MessageID != nil && *att.MessageID == messageID {
			out = append(out, *att)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*domain.TicketCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*domain.TicketCategory{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.TicketCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	category.ID = ids.id("category")
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.TicketCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.TicketCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *category
	return &clone, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.TicketCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.TicketCategory
	for _, category := range r.categories {
		out = append(out, *category)
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, user := range users {
		clone := *user
		repo.users[user.ID] = &clone
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = ids.id("user")
	}
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, role *domain.Role, limit, offset int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, user := range r.users {
		if role != nil && user.Role != *role {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return r.List(ctx, &role, 0, 0)
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*domain.Notification
	preferences   map[string]domain.NotificationPreferences
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		notifications: map[string]*domain.Notification{},
		preferences:   map[string]domain.NotificationPreferences{},
	}
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = ids.id("notification")
	notification.CreatedAt = time.Now()
	clone := *notification
	r.notifications[notification.ID] = &clone
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.notifications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *notification
	return &clone, nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, notification := range r.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.Read {
			continue
		}
		out = append(out, *notification)
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.notifications[id]
	if !ok {
		return pgx.ErrNoRows
	}
	notification.Read = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			notification.Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetPreferences(_ context.Context, userID string) (domain.NotificationPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prefs, ok := r.preferences[userID]; ok {
		return prefs, nil
	}
	return domain.DefaultNotificationPreferences(userID), nil
}

func (r *fakeNotificationRepo) SavePreferences(_ context.Context, prefs domain.NotificationPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preferences[prefs.UserID] = prefs
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

type fakeLimiter struct {
	mu      sync.Mutex
	allowed bool
	err     error
	keys    []string
}

func (l *fakeLimiter) Allow(key string, _ ratelimit.Config) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	return l.allowed, l.err
}

func (l *fakeLimiter) GetRemaining(string, time.Duration) (int64, error) { return 0, nil }

func (l *fakeLimiter) Reset(string) error { return nil }
