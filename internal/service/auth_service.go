package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/orbita-consulting/platform/internal/apperr"
	"github.com/orbita-consulting/platform/internal/auth"
	"github.com/orbita-consulting/platform/internal/config"
	"github.com/orbita-consulting/platform/internal/domain"
	"github.com/orbita-consulting/platform/internal/repository"
)

// AuthService handles registration, login and password recovery.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokens     *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, resets repository.PasswordResetRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		resets:     resets,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   time.Duration(cfg.PasswordResetTTLMinutes) * time.Minute,
	}
}

// RegisterInput is the self-service signup payload. Roles are not
// accepted: self-registration always produces a client account.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Session is an issued access token with its subject.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Register creates a client account and logs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.NewValidationError("valid email required", map[string]any{"field": "email"})
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.NewValidationError("name required", map[string]any{"field": "name"})
	}
	if len(input.Password) < 8 {
		return nil, apperr.NewValidationError("password must be at least 8 characters", map[string]any{"field": "password"})
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.NewConflict("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.NewInternalError(err)
	}
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         domain.RoleClient,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("account registered", zap.String("user_id", user.ID))
	return s.issue(user)
}

// Login verifies credentials and issues a token. Suspended accounts
// cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperr.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperr.NewUnauthorized("account suspended")
	}
	return s.issue(user)
}

// ChangePassword rotates the actor's own password after verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.User, current, next string) error {
	if err := auth.ComparePassword(actor.PasswordHash, current); err != nil {
		return apperr.NewUnauthorized("current password does not match")
	}
	if len(next) < 8 {
		return apperr.NewValidationError("password must be at least 8 characters", map[string]any{"field": "password"})
	}
	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperr.NewInternalError(err)
	}
	actor.PasswordHash = hash
	return s.users.Update(ctx, actor)
}

// RequestPasswordReset issues a single-use reset token. The token is
// returned for delivery; only its hash is stored. Unknown emails succeed
// silently so the endpoint does not confirm account existence.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", apperr.NewInternalError(err)
	}
	token := hex.EncodeToString(raw)
	reset := &repository.PasswordReset{
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return "", err
	}
	s.logger.Info("password reset requested", zap.String("user_id", user.ID))
	return token, nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, next string) error {
	if len(next) < 8 {
		return apperr.NewValidationError("password must be at least 8 characters", map[string]any{"field": "password"})
	}
	reset, err := s.resets.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NewUnauthorized("invalid or expired reset token")
		}
		return err
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return apperr.NewUnauthorized("invalid or expired reset token")
	}

	user, err := s.users.GetByID(ctx, reset.UserID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperr.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, reset.ID)
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperr.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
