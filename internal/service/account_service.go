package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/repository"
)

// AccountService covers profile management and the admin account
// directory.
type AccountService struct {
	users repository.UserRepository
}

// NewAccountService constructs the service.
func NewAccountService(users repository.UserRepository) *AccountService {
	return &AccountService{users: users}
}

// ProfilePatch is a partial self-service profile update.
type ProfilePatch struct {
	Name  *string
	Phone *string
}

// UpdateProfile edits the actor's own name and phone.
func (s *AccountService) UpdateProfile(ctx context.Context, actor *domain.User, patch ProfilePatch) (*domain.User, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperr.NewValidationError("name required", map[string]any{"field": "name"})
		}
		actor.Name = name
	}
	if patch.Phone != nil {
		actor.Phone = strings.TrimSpace(*patch.Phone)
	}
	if err := s.users.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

// ListUsers returns the account directory, optionally filtered by role.
// Admin only.
func (s *AccountService) ListUsers(ctx context.Context, actor *domain.User, role *domain.Role, limit, offset int) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("only admins can list accounts")
	}
	if role != nil && !role.Valid() {
		return nil, apperr.NewValidationError("unknown role", map[string]any{"role": *role})
	}
	users, err := s.users.List(ctx, role, limit, offset)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// GetUser fetches one account. Admins see anyone; others only themselves.
func (s *AccountService) GetUser(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	if !actor.IsAdmin() && actor.ID != userID {
		return nil, apperr.NewDenied("no access to this account")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("user")
		}
		return nil, err
	}
	return user, nil
}

// ChangeRole promotes or demotes an account. Admin only; admins cannot
// demote themselves, which keeps at least one admin reachable.
func (s *AccountService) ChangeRole(ctx context.Context, actor *domain.User, userID string, role domain.Role) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("only admins can change roles")
	}
	if !role.Valid() {
		return nil, apperr.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if actor.ID == userID && role != domain.RoleAdmin {
		return nil, apperr.NewConflict("admins cannot demote themselves")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("user")
		}
		return nil, err
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetStatus suspends or reactivates an account. Admin only; admins cannot
// suspend themselves.
func (s *AccountService) SetStatus(ctx context.Context, actor *domain.User, userID string, status domain.UserStatus) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.NewDenied("only admins can change account status")
	}
	if status != domain.UserStatusActive && status != domain.UserStatusSuspended {
		return nil, apperr.NewValidationError("unknown status", map[string]any{"status": status})
	}
	if actor.ID == userID && status == domain.UserStatusSuspended {
		return nil, apperr.NewConflict("admins cannot suspend themselves")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("user")
		}
		return nil, err
	}
	user.Status = status
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
