// Package storage contains the persistence ports of the service.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a document with the same key exists.
	ErrAlreadyExists = errors.New("already exists")
)

// ImageField names a profile image slot.
type ImageField string

const (
	AvatarImage ImageField = "avatarUrl"
	CoverImage  ImageField = "coverImageUrl"
)

// ProfileUpdate holds the user-editable profile fields.
type ProfileUpdate struct {
	Handle        string
	Name          string
	Location      string
	Bio           string
	CoffeeProfile []models.CoffeeProfileItem
}

// Users stores profiles.
type Users interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUsers(ctx context.Context, ids []string) ([]*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*models.User, error)
	SetImage(ctx context.Context, id string, field ImageField, url string) (*models.User, error)
	RemoveCoffeemate(ctx context.Context, ownerID, mateID string) (*models.User, error)
	IncrementPosts(ctx context.Context, id string) error
}

// Posts stores posts together with their comments and likes.
type Posts interface {
	// ListPosts returns every post, newest first.
	ListPosts(ctx context.Context) ([]*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, p *models.Post) error
	// ToggleLike flips viewerID's like and returns the updated post and the new state.
	ToggleLike(ctx context.Context, postID, viewerID string) (*models.Post, bool, error)
	AddComment(ctx context.Context, postID string, c models.Comment) (*models.Post, error)
	DeleteComment(ctx context.Context, postID, commentID string) (*models.Post, error)
}

// Chats stores conversations and their messages.
type Chats interface {
	GetChat(ctx context.Context, id string) (*models.Chat, error)
	CreateChat(ctx context.Context, c *models.Chat) error
	// ListChats returns the conversations memberID takes part in, unordered.
	ListChats(ctx context.Context, memberID string) ([]*models.Chat, error)
	// ApplyMessage updates the summary and unread counters of a conversation.
	ApplyMessage(ctx context.Context, c *models.Chat, senderID, preview string, at time.Time) error
	ResetUnread(ctx context.Context, chatID, memberID string) error

	AddMessage(ctx context.Context, msg *models.Message) error
	// ListMessages returns the messages of chatID, oldest first.
	ListMessages(ctx context.Context, chatID string) ([]*models.Message, error)
	MarkMessagesRead(ctx context.Context, chatID, memberID string) error
}

// Settings stores per-user settings.
type Settings interface {
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	SaveSettings(ctx context.Context, s *models.UserSettings) error
}

// Account is a login credential bound to a profile.
type Account struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Accounts stores login credentials.
type Accounts interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
}

// KV is a string key-value store with expiry.
type KV interface {
	// Get returns ErrNotFound for a missing key.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value; a zero ttl keeps the key forever.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
