package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// AuthService coordinates registration, login and profile flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Interest   []string
	Language   domain.Language
	ProfilePic string
}

// ProfileUpdate lists the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name       *string
	Interest   []string
	Language   *domain.Language
	ProfilePic *string
}

// LoginResult is a signed credential and the account it names.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with role user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := NormalizeEmail(input.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, emailTaken(email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := s.hashPassword(input.Password, "password")
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Name:         strings.TrimSpace(input.Name),
		Interest:     input.Interest,
		Language:     input.Language,
		ProfilePic:   strings.TrimSpace(input.ProfilePic),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration won the unique index
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, emailTaken(email)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Login verifies credentials and issues a token carrying the stored role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// GetProfile returns the caller's account.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user", map[string]any{"userId": userID})
	}
	return user, nil
}

// UpdateProfile applies the supplied fields. Email and role cannot be edited.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user", map[string]any{"userId": userID})
	}
	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Interest != nil {
		user.Interest = update.Interest
	}
	if update.Language != nil {
		user.Language = *update.Language
	}
	if update.ProfilePic != nil {
		user.ProfilePic = strings.TrimSpace(*update.ProfilePic)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFoundOr(err, "user", map[string]any{"userId": userID})
	}
	return user, nil
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, "user", map[string]any{"userId": userID})
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}
	hash, err := s.hashPassword(newPassword, "newPassword")
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return notFoundOr(err, "user", map[string]any{"userId": userID})
	}
	return nil
}

// BootstrapAdmin creates the configured admin account unless some admin already
// exists. It reports whether an account was created.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		s.logger.Info("no bootstrap admin configured")
		return false, nil
	}

	exists, err := s.users.ExistsWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	if exists {
		s.logger.Debug("admin account present; skipping bootstrap")
		return false, nil
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return false, errors.New("bootstrap admin email belongs to an existing non-admin account")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	admin := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Name:         name,
		Language:     domain.LanguageEnglish,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("bootstrap admin created", zap.String("user_id", admin.ID), zap.String("email", email))
	return true, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func emailTaken(email string) error {
	return apperrors.NewConflict("email already registered", map[string]any{"email": email})
}

// hashPassword reports an over-long password against field instead of failing internally.
func (s *AuthService) hashPassword(password, field string) (string, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError("invalid password", apperrors.FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %d bytes", field, auth.MaxPasswordBytes),
		})
	}
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}
