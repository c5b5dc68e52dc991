package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/formforge/form-service/internal/entity"
	"github.com/formforge/form-service/pkg/auth"
	"github.com/formforge/form-service/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService handles signup, login and account lookups.
type AuthService struct {
	users   UserRepository
	issuer  TokenIssuer
	logger  *logger.Logger
	timeout time.Duration
}

func InitAuthService(
	users UserRepository,
	issuer TokenIssuer,
	logger *logger.Logger,
	timeout time.Duration,
) *AuthService {
	return &AuthService{
		users:   users,
		issuer:  issuer,
		logger:  logger,
		timeout: timeout,
	}
}

// Signup registers a new account with a default workspace and returns
// a fresh token alongside the created user. A taken email is a
// validation error, not a server one.
func (s *AuthService) Signup(ctx context.Context, email, password string) (string, *entity.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return "", nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	user := entity.NewUser(email, hash)
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID))

	return token, user, nil
}

// Login verifies credentials and returns a fresh token alongside the
// user. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	email = normalizeEmail(email)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// GetUser returns the account with the given id. Used to bootstrap an
// editing session with the user's workspaces.
func (s *AuthService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.users.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
