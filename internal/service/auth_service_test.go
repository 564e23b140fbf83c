package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbita-consulting/platform/internal/auth"
	"github.com/orbita-consulting/platform/internal/config"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/repository"
)

type fakeResetRepo struct {
	mu     sync.Mutex
	resets map[string]*repository.PasswordReset
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{resets: map[string]*repository.PasswordReset{}}
}

func (r *fakeResetRepo) Create(_ context.Context, reset *repository.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reset.ID = ids.id("reset")
	clone := *reset
	r.resets[reset.TokenHash] = &clone
	return nil
}

func (r *fakeResetRepo) GetByTokenHash(_ context.Context, tokenHash string) (*repository.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reset, ok := r.resets[tokenHash]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *reset
	return &clone, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reset := range r.resets {
		if reset.ID == id {
			now := time.Now()
			reset.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func newTestAuthService() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	cfg := config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   15,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              4,
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes)
	return NewAuthService(cfg, users, newFakeResetRepo(), tokens, zap.NewNop()), users
}

func TestRegisterAlwaysCreatesClient(t *testing.T) {
	svc, _ := newTestAuthService()

	session, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Dana",
		Email:    "Dana@Example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, session.User.Role)
	assert.Equal(t, "dana@example.com", session.User.Email)
	assert.NotEmpty(t, session.Token)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "d@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "d@example.com", Password: "hunter2hunter2"})
	require.Error(t, err)
}

func TestLoginVerifiesCredentialsAndStatus(t *testing.T) {
	svc, users := newTestAuthService()
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "d@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "d@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "d@example.com", "wrong")
	require.Error(t, err)

	_, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	require.Error(t, err)

	suspended := *session.User
	suspended.Status = domain.UserStatusSuspended
	require.NoError(t, users.Update(ctx, &suspended))
	_, err = svc.Login(ctx, "d@example.com", "hunter2hunter2")
	require.Error(t, err)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "d@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, "d@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "betterpassword"))

	_, err = svc.Login(ctx, "d@example.com", "betterpassword")
	require.NoError(t, err)

	// A consumed token cannot be replayed.
	err = svc.ResetPassword(ctx, token, "anotherpassword")
	require.Error(t, err)
}

func TestPasswordResetUnknownEmailSucceedsSilently(t *testing.T) {
	svc, _ := newTestAuthService()

	token, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
}
