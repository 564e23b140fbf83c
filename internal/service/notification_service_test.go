package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/events"
)

func newTestNotificationService() (*NotificationService, *fakeNotificationRepo) {
	repo := newFakeNotificationRepo()
	users := newFakeUserRepo(adminUser, consultantUser, otherConsult, clientUser)
	return NewNotificationService(repo, users, zap.NewNop()), repo
}

func TestTicketClosedNotifiesClient(t *testing.T) {
	svc, _ := newTestNotificationService()
	ctx := context.Background()

	err := svc.HandleEvent(ctx, events.Event{
		Type:  events.EventTicketStatusChanged,
		Actor: events.Actor{ID: adminUser.ID, Role: domain.RoleAdmin},
		Payload: events.TicketStatusChangedPayload{
			TicketID:  "t1",
			Subject:   "printer on fire",
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusClosed,
			ClientID:  clientUser.ID,
		},
	})
	require.NoError(t, err)

	inbox, err := svc.List(ctx, clientUser, false, 20, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, string(domain.NotifyTicketClosed), string(inbox[0].Type))
	require.NotNil(t, inbox[0].Target)
	assert.Equal(t, domain.TargetTicket, inbox[0].Target.Kind)
	assert.Equal(t, "t1", inbox[0].Target.ID)
}

func TestMessageNotifiesOtherPartyOnly(t *testing.T) {
	svc, _ := newTestNotificationService()
	ctx := context.Background()

	consultantID := consultantUser.ID
	err := svc.HandleEvent(ctx, events.Event{
		Type:  events.EventMessageAppended,
		Actor: events.Actor{ID: clientUser.ID, Role: domain.RoleClient},
		Payload: events.MessageAppendedPayload{
			TicketID:     "t1",
			Subject:      "printer on fire",
			MessageID:    "m1",
			SenderID:     clientUser.ID,
			ClientID:     clientUser.ID,
			ConsultantID: &consultantID,
			Preview:      "it is still burning",
		},
	})
	require.NoError(t, err)

	senderInbox, err := svc.List(ctx, clientUser, false, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, senderInbox)

	consultantInbox, err := svc.List(ctx, consultantUser, false, 20, 0)
	require.NoError(t, err)
	assert.Len(t, consultantInbox, 1)
}

func TestAssessmentCompletedFansOutToConsultants(t *testing.T) {
	svc, _ := newTestNotificationService()
	ctx := context.Background()

	err := svc.HandleEvent(ctx, events.Event{
		Type: events.EventAssessmentCompleted,
		Payload: events.AssessmentCompletedPayload{
			AssessmentID: "a1",
			ResultID:     "r1",
			Title:        "Readiness check",
			Answered:     5,
		},
	})
	require.NoError(t, err)

	for _, consultant := range []*domain.User{consultantUser, otherConsult} {
		inbox, err := svc.List(ctx, consultant, false, 20, 0)
		require.NoError(t, err)
		assert.Len(t, inbox, 1, "consultant %s should be notified", consultant.ID)
	}
	clientInbox, err := svc.List(ctx, clientUser, false, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, clientInbox)
}

func TestPreferencesSuppressDelivery(t *testing.T) {
	svc, repo := newTestNotificationService()
	ctx := context.Background()

	prefs := domain.DefaultNotificationPreferences(clientUser.ID)
	prefs.WebTicketUpdated = false
	require.NoError(t, repo.SavePreferences(ctx, prefs))

	err := svc.HandleEvent(ctx, events.Event{
		Type:  events.EventTicketStatusChanged,
		Actor: events.Actor{ID: adminUser.ID, Role: domain.RoleAdmin},
		Payload: events.TicketStatusChangedPayload{
			TicketID:  "t1",
			OldStatus: domain.TicketStatusNew,
			NewStatus: domain.TicketStatusOpen,
			ClientID:  clientUser.ID,
		},
	})
	require.NoError(t, err)

	inbox, err := svc.List(ctx, clientUser, false, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestMarkReadIsOwnerScoped(t *testing.T) {
	svc, repo := newTestNotificationService()
	ctx := context.Background()

	notification := &domain.Notification{UserID: clientUser.ID, Type: domain.NotifyTicketUpdated, Title: "x"}
	require.NoError(t, repo.Create(ctx, notification))

	err := svc.MarkRead(ctx, consultantUser, notification.ID)
	assert.True(t, apperr.IsDenied(err))

	err = svc.MarkRead(ctx, adminUser, notification.ID)
	assert.True(t, apperr.IsDenied(err), "inboxes are private even to admins")

	require.NoError(t, svc.MarkRead(ctx, clientUser, notification.ID))

	count, err := svc.UnreadCount(ctx, clientUser)
	require.NoError(t, err)
	assert.Zero(t, count)
}
