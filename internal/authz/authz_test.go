package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orbita-consulting/platform/internal/domain"
)

var (
	admin      = &domain.User{ID: "a1", Role: domain.RoleAdmin}
	consultant = &domain.User{ID: "c1", Role: domain.RoleConsultant}
	client     = &domain.User{ID: "u1", Role: domain.RoleClient}
	stranger   = &domain.User{ID: "u2", Role: domain.RoleClient}
)

func ownedTicket() *domain.Ticket {
	consultantID := consultant.ID
	return &domain.Ticket{ID: "t1", ClientID: client.ID, ConsultantID: &consultantID}
}

func TestCanAccessTicket(t *testing.T) {
	ticket := ownedTicket()

	tests := []struct {
		name   string
		actor  *domain.User
		action Action
		want   bool
	}{
		{"admin views any ticket", admin, ActionView, true},
		{"owning client views", client, ActionView, true},
		{"assigned consultant views", consultant, ActionView, true},
		{"other client denied", stranger, ActionView, false},
		{"nil actor denied", nil, ActionView, false},
		{"admin assigns", admin, ActionAssignConsultant, true},
		{"assigned consultant cannot assign", consultant, ActionAssignConsultant, false},
		{"owning client cannot assign", client, ActionAssignConsultant, false},
		{"owning client messages", client, ActionMessage, true},
		{"assigned consultant attaches", consultant, ActionAttach, true},
		{"stranger cannot message", stranger, ActionMessage, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessTicket(tt.actor, ticket, tt.action))
		})
	}
}

func TestUnassignedConsultantDenied(t *testing.T) {
	ticket := &domain.Ticket{ID: "t2", ClientID: client.ID}
	other := &domain.User{ID: "c9", Role: domain.RoleConsultant}

	assert.False(t, CanAccessTicket(other, ticket, ActionView))
	assert.False(t, CanAccessTicket(other, ticket, ActionMessage))
	assert.True(t, CanAccessTicket(admin, ticket, ActionView))
}

func TestCanCreateTicket(t *testing.T) {
	assert.True(t, CanCreateTicket(client))
	assert.False(t, CanCreateTicket(admin))
	assert.False(t, CanCreateTicket(consultant))
	assert.False(t, CanCreateTicket(nil))
}

type userOwnedRes struct{ owner string }

func (r userOwnedRes) OwnerID() string { return r.owner }

type clientOwnedRes struct{ owner string }

func (r clientOwnedRes) ClientOwnerID() string { return r.owner }

type unownedRes struct{}

func TestCanAccessOwned(t *testing.T) {
	tests := []struct {
		name     string
		actor    *domain.User
		resource any
		want     bool
	}{
		{"owner reads own", client, userOwnedRes{owner: client.ID}, true},
		{"stranger denied", stranger, userOwnedRes{owner: client.ID}, false},
		{"consultant fallback", consultant, userOwnedRes{owner: client.ID}, true},
		{"admin always", admin, unownedRes{}, true},
		{"unresolvable owner denied", client, unownedRes{}, false},
		{"client relation resolves", client, clientOwnedRes{owner: client.ID}, true},
		{"anonymous owner still reaches consultants", consultant, userOwnedRes{owner: ""}, true},
		{"anonymous owner denies clients", client, userOwnedRes{owner: ""}, false},
		{"nil actor denied", nil, userOwnedRes{owner: client.ID}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessOwned(tt.actor, tt.resource))
		})
	}
}
