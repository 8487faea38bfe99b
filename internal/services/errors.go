package services

import (
	"context"
	"errors"
)

var (
	// ErrForbidden is returned when the viewer may not touch the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is the single signin failure shown to users.
	ErrInvalidCredentials = errors.New("could not sign in")
	// ErrUnauthorized is returned for a missing or expired session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPlaceLookup is returned when the places provider answers with a non-OK status.
	ErrPlaceLookup = errors.New("place lookup failed")
)

// Notifier publishes change notifications for snapshot subscribers.
type Notifier interface {
	PublishAll(ctx context.Context, topics ...string)
}
