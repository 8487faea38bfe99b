package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

// SignupInput is the signup form.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// AuthService handles email/password accounts and their sessions.
type AuthService struct {
	accounts storage.Accounts
	profiles *ProfileService
	sessions *SessionService
	saved    *SavedService
	log      logrus.FieldLogger

	now func() time.Time
}

func NewAuthService(accounts storage.Accounts, profiles *ProfileService, sessions *SessionService, saved *SavedService) *AuthService {
	return &AuthService{
		accounts: accounts,
		profiles: profiles,
		sessions: sessions,
		saved:    saved,
		log:      logrus.WithField("service", "auth"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Signup creates an account and its profile and starts a session.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	if len(in.Password) < utils.MinPasswordLength {
		return nil, "", &utils.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters", utils.MinPasswordLength),
		}
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	a := &storage.Account{
		ID:           uuid.NewString(),
		UserID:       uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	err = s.accounts.CreateAccount(ctx, a)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, "", ErrEmailTaken
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	u, err := s.profiles.GetOrCreate(ctx, a.UserID, a.Email, in.Name)
	if err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	return u, token, nil
}

// Signin checks the credentials and starts a session. Every credential
// failure is reported as ErrInvalidCredentials.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*models.User, string, error) {
	a, err := s.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to load account: %w", err)
	}

	ok, err := utils.VerifyPassword(password, a.PasswordHash)
	if err != nil {
		s.log.WithError(err).WithField("account_id", a.ID).Error("stored password hash is unreadable")
		return nil, "", ErrInvalidCredentials
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.profiles.GetOrCreate(ctx, a.UserID, a.Email, "")
	if err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	return u, token, nil
}

// Signout ends the session and drops its saved set.
func (s *AuthService) Signout(ctx context.Context, token string) error {
	if err := s.saved.Forget(ctx, token); err != nil {
		s.log.WithError(err).Warn("failed to drop saved set")
	}
	return s.sessions.Invalidate(ctx, token)
}

// Authenticate returns the user bound to token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, ok, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrUnauthorized
	}
	return userID, nil
}
