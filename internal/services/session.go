package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the key prefix for the user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionService keeps bearer sessions in a key-value store.
type SessionService struct {
	kv storage.KV
}

func NewSessionService(kv storage.KV) *SessionService {
	return &SessionService{kv: kv}
}

// Create starts a new session for userID and returns its token. A previous
// session of the same user is invalidated so the 7-day timer restarts.
func (s *SessionService) Create(ctx context.Context, userID string) (string, error) {
	if err := s.InvalidateUser(ctx, userID); err != nil {
		return "", err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(tokenBytes)

	if err := s.kv.Set(ctx, SessionKeyPrefix+token, userID, SessionDuration); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	if err := s.kv.Set(ctx, UserSessionKeyPrefix+userID, token, SessionDuration); err != nil {
		return "", fmt.Errorf("failed to store session mapping: %w", err)
	}

	return token, nil
}

// Validate returns the user bound to token. ok is false for unknown or expired tokens.
func (s *SessionService) Validate(ctx context.Context, token string) (userID string, ok bool, err error) {
	if token == "" {
		return "", false, nil
	}

	userID, err = s.kv.Get(ctx, SessionKeyPrefix+token)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return userID, true, nil
}

// Refresh extends the session by another 7 days from now.
func (s *SessionService) Refresh(ctx context.Context, token string) error {
	userID, ok, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	if err := s.kv.Expire(ctx, SessionKeyPrefix+token, SessionDuration); err != nil {
		return err
	}
	return s.kv.Expire(ctx, UserSessionKeyPrefix+userID, SessionDuration)
}

// Invalidate removes a session.
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	userID, ok, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}
	if ok {
		if err := s.kv.Del(ctx, UserSessionKeyPrefix+userID); err != nil {
			return err
		}
	}

	return s.kv.Del(ctx, SessionKeyPrefix+token)
}

// InvalidateUser removes the current session of userID, if any.
func (s *SessionService) InvalidateUser(ctx context.Context, userID string) error {
	token, err := s.kv.Get(ctx, UserSessionKeyPrefix+userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case err != nil:
		return err
	}

	if err := s.kv.Del(ctx, SessionKeyPrefix+token); err != nil {
		return err
	}
	return s.kv.Del(ctx, UserSessionKeyPrefix+userID)
}
