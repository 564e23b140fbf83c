package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/events"
)

var (
	adminUser      = &domain.User{ID: "admin-1", Role: domain.RoleAdmin, Status: domain.UserStatusActive}
	consultantUser = &domain.User{ID: "consultant-1", Role: domain.RoleConsultant, Status: domain.UserStatusActive}
	otherConsult   = &domain.User{ID: "consultant-2", Role: domain.RoleConsultant, Status: domain.UserStatusActive}
	clientUser     = &domain.User{ID: "client-1", Role: domain.RoleClient, Status: domain.UserStatusActive}
	otherClient    = &domain.User{ID: "client-2", Role: domain.RoleClient, Status: domain.UserStatusActive}
)

func newTestTicketService() (*TicketService, *fakeTicketRepo, *recordingDispatcher) {
	tickets := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		MessageRepo:    newFakeMessageRepo(),
		AttachmentRepo: newFakeAttachmentRepo(),
		CategoryRepo:   newFakeCategoryRepo(),
		UserRepo:       newFakeUserRepo(adminUser, consultantUser, otherConsult, clientUser, otherClient),
		Dispatcher:     dispatcher,
	})
	return svc, tickets, dispatcher
}

func TestCreateTicketForcesInitialState(t *testing.T) {
	svc, _, dispatcher := newTestTicketService()

	ticket, err := svc.CreateTicket(context.Background(), clientUser, TicketCreateInput{
		Subject:     "Billing discrepancy",
		Description: "Invoice total looks wrong",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.Equal(t, clientUser.ID, ticket.ClientID)
	assert.Nil(t, ticket.ConsultantID)
	assert.Nil(t, ticket.ClosedAt)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Len(t, dispatcher.published(events.EventTicketCreated), 1)
}

func TestCreateTicketDeniedForNonClients(t *testing.T) {
	svc, _, _ := newTestTicketService()

	for _, actor := range []*domain.User{adminUser, consultantUser} {
		_, err := svc.CreateTicket(context.Background(), actor, TicketCreateInput{Subject: "x"})
		assert.True(t, apperr.IsDenied(err), "role %s should not create tickets", actor.Role)
	}
}

func TestCreateTicketRequiresSubject(t *testing.T) {
	svc, _, _ := newTestTicketService()

	_, err := svc.CreateTicket(context.Background(), clientUser, TicketCreateInput{Subject: "   "})
	require.Error(t, err)
	assert.False(t, apperr.IsDenied(err))
}

func TestListTicketsScopesByRole(t *testing.T) {
	svc, _, _ := newTestTicketService()
	ctx := context.Background()

	mine, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "mine"})
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, otherClient, TicketCreateInput{Subject: "theirs"})
	require.NoError(t, err)

	_, err = svc.UpdateTicket(ctx, adminUser, mine.ID, TicketPatch{
		Consultant: &ConsultantPatch{UserID: &consultantUser.ID},
	})
	require.NoError(t, err)

	all, err := svc.ListTickets(ctx, adminUser, TicketListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.ListTickets(ctx, clientUser, TicketListInput{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	assigned, err := svc.ListTickets(ctx, consultantUser, TicketListInput{})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, mine.ID, assigned[0].ID)

	unassigned, err := svc.ListTickets(ctx, otherConsult, TicketListInput{})
	require.NoError(t, err)
	assert.Empty(t, unassigned)
}

func TestGetTicketDeniesExplicitly(t *testing.T) {
	svc, _, _ := newTestTicketService()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "private"})
	require.NoError(t, err)

	_, err = svc.GetTicket(ctx, otherClient, ticket.ID)
	assert.True(t, apperr.IsDenied(err))

	_, err = svc.GetTicket(ctx, otherConsult, ticket.ID)
	assert.True(t, apperr.IsDenied(err))

	_, err = svc.GetTicket(ctx, adminUser, ticket.ID)
	assert.NoError(t, err)

	_, err = svc.GetTicket(ctx, adminUser, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestListMessagesFailsClosed(t *testing.T) {
	svc, _, _ := newTestTicketService()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "chat"})
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, clientUser, ticket.ID, "hello", nil)
	require.NoError(t, err)

	// Unauthorized viewers and missing tickets both get an empty list, not
	// an error.
	msgs, err := svc.ListMessages(ctx, otherClient, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = svc.ListMessages(ctx, clientUser, "missing")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = svc.ListMessages(ctx, clientUser, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestAppendMessageAuthorization(t *testing.T) {
	svc, _, dispatcher := newTestTicketService()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "chat"})
	require.NoError(t, err)

	_, err = svc.AppendMessage(ctx, otherConsult, ticket.ID, "hi", nil)
	assert.True(t, apperr.IsDenied(err))

	_, err = svc.AppendMessage(ctx, clientUser, ticket.ID, "   ", nil)
	require.Error(t, err)

	msg, err := svc.AppendMessage(ctx, clientUser, ticket.ID, "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, clientUser.ID, msg.SenderID)
	assert.Len(t, dispatcher.published(events.EventMessageAppended), 1)
}

func TestUpdateTicketRoleMatrix(t *testing.T) {
	svc, _, _ := newTestTicketService()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "matrix"})
	require.NoError(t, err)

	// Clients may not touch status or assignment.
	open := domain.TicketStatusOpen
	_, err = svc.UpdateTicket(ctx, clientUser, ticket.ID, TicketPatch{Status: &open})
	assert.True(t, apperr.IsDenied(err))
	_, err = svc.UpdateTicket(ctx, clientUser, ticket.ID, TicketPatch{
		Consultant: &ConsultantPatch{UserID: &consultantUser.ID},
	})
	assert.True(t, apperr.IsDenied(err))

	// Clients may edit descriptive fields of their own tickets.
	subject := "matrix, revised"
	updated, err := svc.UpdateTicket(ctx, clientUser, ticket.ID, TicketPatch{Subject: &subject})
	require.NoError(t, err)
	assert.Equal(t, subject, updated.Subject)

	// Consultants cannot assign, not even themselves.
	_, err = svc.UpdateTicket(ctx, adminUser, ticket.ID, TicketPatch{
		Consultant: &ConsultantPatch{UserID: &consultantUser.ID},
	})
	require.NoError(t, err)
	_, err = svc.UpdateTicket(ctx, consultantUser, ticket.ID, TicketPatch{
		Consultant: &ConsultantPatch{UserID: &otherConsult.ID},
	})
	assert.True(t, apperr.IsDenied(err))

	// The assigned consultant may move status and unassign themselves.
	inProgress := domain.TicketStatusInProgress
	updated, err = svc.UpdateTicket(ctx, consultantUser, ticket.ID, TicketPatch{Status: &inProgress})
	require.NoError(t, err)
	assert.Equal(t, inProgress, updated.Status)

	updated, err = svc.UpdateTicket(ctx, consultantUser, ticket.ID, TicketPatch{Consultant: &ConsultantPatch{}})
	require.NoError(t, err)
	assert.Nil(t, updated.ConsultantID)

	// Once unassigned, the consultant has no access at all.
	resolved := domain.TicketStatusResolved
	_, err = svc.UpdateTicket(ctx, consultantUser, ticket.ID, TicketPatch{Status: &resolved})
	assert.True(t, apperr.IsDenied(err))
}

func TestAssignmentRequiresConsultantRole(t *testing.T) {
	svc, _, _ := newTestTicketService()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "assign"})
	require.NoError(t, err)

	_, err = svc.UpdateTicket(ctx, adminUser, ticket.ID, TicketPatch{
		Consultant: &ConsultantPatch{UserID: &otherClient.ID},
	})
	require.Error(t, err)
	assert.False(t, apperr.IsDenied(err))

	_, err = svc.UpdateTicket(ctx, adminUser, ticket.ID, TicketPatch{
		Consultant: &ConsultantPatch{UserID: strPtr("ghost")},
	})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCloseStampsAndReopenKeepsClosedAt(t *testing.T) {
	svc, _, dispatcher := newTestTicketService()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "closing"})
	require.NoError(t, err)

	closed := domain.TicketStatusClosed
	updated, err := svc.UpdateTicket(ctx, adminUser, ticket.ID, TicketPatch{Status: &closed})
	require.NoError(t, err)
	require.NotNil(t, updated.ClosedAt)
	firstClose := *updated.ClosedAt

	// Reopening keeps the closure timestamp.
	open := domain.TicketStatusOpen
	updated, err = svc.UpdateTicket(ctx, adminUser, ticket.ID, TicketPatch{Status: &open})
	require.NoError(t, err)
	require.NotNil(t, updated.ClosedAt)
	assert.Equal(t, firstClose, *updated.ClosedAt)

	// Closing again re-stamps to the most recent closure.
	updated, err = svc.UpdateTicket(ctx, adminUser, ticket.ID, TicketPatch{Status: &closed})
	require.NoError(t, err)
	require.NotNil(t, updated.ClosedAt)
	assert.True(t, !updated.ClosedAt.Before(firstClose))

	changes := dispatcher.published(events.EventTicketStatusChanged)
	assert.Len(t, changes, 3)
}

func TestAttachFileValidatesMessageOwnership(t *testing.T) {
	svc, _, _ := newTestTicketService()
	ctx := context.Background()

	first, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "files"})
	require.NoError(t, err)
	second, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "other"})
	require.NoError(t, err)

	msg, err := svc.AppendMessage(ctx, clientUser, second.ID, "with file", nil)
	require.NoError(t, err)

	input := AttachmentInput{StorageKey: "key-1", FileName: "a.pdf", MimeType: "application/pdf", SizeBytes: 10}

	_, err = svc.AttachFile(ctx, clientUser, first.ID, input, &msg.ID)
	require.Error(t, err)

	att, err := svc.AttachFile(ctx, clientUser, second.ID, input, &msg.ID)
	require.NoError(t, err)
	assert.Equal(t, clientUser.ID, att.UploadedBy)
	assert.Equal(t, &msg.ID, att.MessageID)
}

func strPtr(s string) *string { return &s }

func TestTicketThroughputCapSurfacesRateLimited(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     newFakeTicketRepo(),
		MessageRepo:    newFakeMessageRepo(),
		AttachmentRepo: newFakeAttachmentRepo(),
		CategoryRepo:   newFakeCategoryRepo(),
		UserRepo:       newFakeUserRepo(adminUser, clientUser),
		Dispatcher:     dispatcher,
		Limiter:        limiter,
		OpsPerMinute:   10,
	})
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "capped"})
	require.Error(t, err)
	assert.True(t, apperr.IsRateLimited(err))
	assert.False(t, apperr.IsDenied(err))
	assert.Positive(t, apperr.ToDomainError(err).RetryAfter)

	_, err = svc.ListTickets(ctx, clientUser, TicketListInput{})
	assert.True(t, apperr.IsRateLimited(err))

	require.Len(t, limiter.keys, 2)
	assert.Equal(t, "tickets:"+clientUser.ID, limiter.keys[0])
	assert.Empty(t, dispatcher.published(events.EventTicketCreated))
}

func TestTicketThroughputCapFailsOpenOnLimiterError(t *testing.T) {
	limiter := &fakeLimiter{allowed: false, err: errors.New("redis down")}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     newFakeTicketRepo(),
		MessageRepo:    newFakeMessageRepo(),
		AttachmentRepo: newFakeAttachmentRepo(),
		CategoryRepo:   newFakeCategoryRepo(),
		UserRepo:       newFakeUserRepo(clientUser),
		Dispatcher:     &recordingDispatcher{},
		Limiter:        limiter,
		OpsPerMinute:   10,
	})

	_, err := svc.CreateTicket(context.Background(), clientUser, TicketCreateInput{Subject: "unblocked"})
	require.NoError(t, err)
}

func TestUpdateTicketHidesReferencesFromOutsiders(t *testing.T) {
	svc, _, _ := newTestTicketService()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, clientUser, TicketCreateInput{Subject: "private"})
	require.NoError(t, err)

	// An actor without access gets the same denial whether the referenced
	// consultant exists or not.
	_, err = svc.UpdateTicket(ctx, otherClient, ticket.ID, TicketPatch{
		Consultant: &ConsultantPatch{UserID: strPtr("ghost")},
	})
	assert.True(t, apperr.IsDenied(err))
	assert.False(t, apperr.IsNotFound(err))

	_, err = svc.UpdateTicket(ctx, otherClient, ticket.ID, TicketPatch{
		Consultant: &ConsultantPatch{UserID: &consultantUser.ID},
	})
	assert.True(t, apperr.IsDenied(err))
}

func TestPreviewTruncatesOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("ü", 200)
	got := preview(long, 120)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 120, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))

	assert.Equal(t, "short", preview("  short  ", 120))
}
