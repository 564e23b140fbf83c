package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/domain"
)

func TestUpdateProfileEditsNameAndPhone(t *testing.T) {
	actor := &domain.User{ID: "client-9", Name: "Old Name", Role: domain.RoleClient, Status: domain.UserStatusActive}
	users := newFakeUserRepo(actor)
	svc := NewAccountService(users)
	ctx := context.Background()

	updated, err := svc.UpdateProfile(ctx, actor, ProfilePatch{
		Name:  strPtr("  New Name  "),
		Phone: strPtr("  +49 30 1234567  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "+49 30 1234567", updated.Phone)

	stored, err := users.GetByID(ctx, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "+49 30 1234567", stored.Phone)

	_, err = svc.UpdateProfile(ctx, actor, ProfilePatch{Name: strPtr("   ")})
	require.Error(t, err)
	assert.False(t, apperr.IsDenied(err))
}

func TestChangeRoleGuards(t *testing.T) {
	admin := &domain.User{ID: "admin-9", Role: domain.RoleAdmin, Status: domain.UserStatusActive}
	member := &domain.User{ID: "client-10", Role: domain.RoleClient, Status: domain.UserStatusActive}
	svc := NewAccountService(newFakeUserRepo(admin, member))
	ctx := context.Background()

	promoted, err := svc.ChangeRole(ctx, admin, member.ID, domain.RoleConsultant)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleConsultant, promoted.Role)

	_, err = svc.ChangeRole(ctx, admin, admin.ID, domain.RoleClient)
	require.Error(t, err)
	assert.False(t, apperr.IsDenied(err))

	_, err = svc.ChangeRole(ctx, member, admin.ID, domain.RoleClient)
	assert.True(t, apperr.IsDenied(err))
}
