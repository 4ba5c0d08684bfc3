package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"teamdesk/internal/auth"
	"teamdesk/internal/cache"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
	"teamdesk/internal/repository"
)

const bcryptCost = 10

// AdminSeed describes the administrator created on first run.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string        `json:"token"`
	User  model.Profile `json:"user"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifySession(token string) (*auth.Session, error)
	Me(ctx context.Context, session *auth.Session) (*model.User, error)
	// SeedAdmin creates the configured administrator unless a user with that
	// email already exists. Safe to call from several processes at once.
	SeedAdmin(ctx context.Context) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	cache      *cache.Client
	admin      AdminSeed
	logger     *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, cache *cache.Client, admin AdminSeed, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		cache:      cache,
		admin:      admin,
		logger:     logger,
	}
}

// Register creates a member account and opens a session for it.
func (s *authService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailExists
	}
	if err != nil && apperrors.KindOf(err) != apperrors.KindNotFound {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	user, err := s.createUser(ctx, name, email, password, model.RoleMember)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			return nil, apperrors.ErrEmailExists
		}
		return nil, err
	}
	s.logger.Info("user registered", slog.String("user_id", user.ID.String()))
	return s.open(user)
}

// Login authenticates a user and opens a session.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.open(user)
}

// VerifySession checks a session token.
func (s *authService) VerifySession(token string) (*auth.Session, error) {
	return s.jwtService.Verify(token)
}

// Me loads the user behind a session.
func (s *authService) Me(ctx context.Context, session *auth.Session) (*model.User, error) {
	if session == nil {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, session.UserID.String())
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.ErrUnauthorized.Wrap(err)
		}
		return nil, err
	}
	return user, nil
}

// SeedAdmin checks by email before inserting; the unique email index turns a
// concurrent duplicate insert into a no-op.
func (s *authService) SeedAdmin(ctx context.Context) error {
	if s.admin.Email == "" {
		return nil
	}
	_, err := s.userRepo.FindByEmail(ctx, s.admin.Email)
	if err == nil {
		s.logger.Debug("admin already present", slog.String("email", s.admin.Email))
		return nil
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return fmt.Errorf("check admin existence: %w", err)
	}

	user, err := s.createUser(ctx, s.admin.Name, s.admin.Email, s.admin.Password, model.RoleAdmin)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}
	s.logger.Info("default admin created", slog.String("user_id", user.ID.String()), slog.String("email", user.Email))
	return nil
}

func (s *authService) createUser(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, userDirectoryCacheKey)
	return user, nil
}

func (s *authService) open(user *model.User) (*AuthResult, error) {
	token, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Profile()}, nil
}
