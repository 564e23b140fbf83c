// Package authz contains the pure permission evaluator. Every function
// here is side-effect free and total: any (actor, resource, action)
// combination yields an allow/deny answer, with deny as the default.
package authz

import "github.com/orbita-consulting/platform/internal/domain"

// Action identifies what the actor is attempting.
type Action string

const (
	ActionView             Action = "view"
	ActionUpdate           Action = "update"
	ActionCreateTicket     Action = "create_ticket"
	ActionAssignConsultant Action = "assign_consultant"
	ActionMessage          Action = "message"
	ActionAttach           Action = "attach"
)

// userOwned is satisfied by resources exposing a direct owning user.
type userOwned interface {
	OwnerID() string
}

// clientOwned is satisfied by resources owned through a client relation.
type clientOwned interface {
	ClientOwnerID() string
}

// CanAccessTicket evaluates ticket-scoped access: the owning client, the
// assigned consultant, and admins may view, message and attach. Updates
// additionally admit unassigned consultants only through the per-field
// rules enforced by the lifecycle engine, not here.
func CanAccessTicket(actor *domain.User, ticket *domain.Ticket, action Action) bool {
	if actor == nil || ticket == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	switch action {
	case ActionAssignConsultant:
		// Strictly admin; consultants may not self-assign or reassign.
		return false
	case ActionCreateTicket:
		return actor.IsClient()
	}
	if ticket.ClientID == actor.ID {
		return true
	}
	return ticket.IsAssignedTo(actor.ID)
}

// CanCreateTicket enforces the client-only creation path. Admins and
// consultants are deliberately rejected here, before the admin shortcut
// applies anywhere else.
func CanCreateTicket(actor *domain.User) bool {
	return actor != nil && actor.IsClient()
}

// CanAssignConsultant restricts consultant assignment to admins.
func CanAssignConsultant(actor *domain.User) bool {
	return actor.IsAdmin()
}

// CanAccessOwned evaluates access to a resource by ownership. Resolution
// prefers a direct user owner, falls back to a client owner, and denies
// unconditionally when the resource exposes neither. Consultants and
// admins may access any owned resource through this path; it backs the
// endpoints where consultants act with admin-equivalent reach
// (notifications, assessment results).
func CanAccessOwned(actor *domain.User, resource any) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	owner, ok := ownerOf(resource)
	if !ok {
		return false
	}
	if owner == actor.ID {
		return true
	}
	return actor.IsConsultant()
}

// ownerOf resolves the owning user of a resource. A resource exposing a
// direct user owner wins over one owned through a client relation; a
// resource exposing neither reports false. An empty owner ID (for example
// an anonymous assessment result) still counts as resolved so that the
// consultant/admin fallback in CanAccessOwned applies.
func ownerOf(resource any) (string, bool) {
	if res, ok := resource.(userOwned); ok {
		return res.OwnerID(), true
	}
	if res, ok := resource.(clientOwned); ok {
		return res.ClientOwnerID(), true
	}
	return "", false
}
