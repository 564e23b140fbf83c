package domain

import "time"

// Role is the closed set of platform roles. Every authenticated actor
// carries exactly one.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleConsultant Role = "consultant"
	RoleClient     Role = "client"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleConsultant, RoleClient:
		return true
	}
	return false
}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for all platform accounts: clients who open
// tickets, consultants who work them, and administrators.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// IsConsultant reports whether the user holds the consultant role.
func (u *User) IsConsultant() bool { return u != nil && u.Role == RoleConsultant }

// IsClient reports whether the user holds the client role.
func (u *User) IsClient() bool { return u != nil && u.Role == RoleClient }
