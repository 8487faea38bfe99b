// Package mongo implements the document storage interfaces on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

var log = logrus.WithField("layer", "storage").WithField("package", "mongo")

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	chatsCollection    = "chats"
	messagesCollection = "messages"
	settingsCollection = "userSettings"
)

// Store implements storage.Users, storage.Posts, storage.Chats and storage.Settings.
type Store struct {
	db *mongo.Database
}

var (
	_ storage.Users    = (*Store)(nil)
	_ storage.Posts    = (*Store)(nil)
	_ storage.Chats    = (*Store)(nil)
	_ storage.Settings = (*Store)(nil)
)

// New returns a store over db.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) users() *mongo.Collection    { return s.db.Collection(usersCollection) }
func (s *Store) posts() *mongo.Collection    { return s.db.Collection(postsCollection) }
func (s *Store) chats() *mongo.Collection    { return s.db.Collection(chatsCollection) }
func (s *Store) messages() *mongo.Collection { return s.db.Collection(messagesCollection) }
func (s *Store) settings() *mongo.Collection { return s.db.Collection(settingsCollection) }

// EnsureIndexes creates the indexes the queries rely on. It is called on
// startup after the connection is established.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		postsCollection: {
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_posts_created_at"),
			},
		},
		chatsCollection: {
			{
				Keys:    bson.D{{Key: "members", Value: 1}, {Key: "lastMessageAt", Value: -1}},
				Options: options.Index().SetName("idx_chats_members_last_message"),
			},
		},
		messagesCollection: {
			{
				Keys:    bson.D{{Key: "chatId", Value: 1}, {Key: "createdAt", Value: 1}},
				Options: options.Index().SetName("idx_messages_chat_created_at"),
			},
		},
		usersCollection: {
			{
				Keys:    bson.D{{Key: "handle", Value: 1}},
				Options: options.Index().SetName("idx_users_handle"),
			},
		},
	}

	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}

	log.Info("indexes ensured")
	return nil
}

func wrapErr(err error, format string, args ...interface{}) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return storage.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return storage.ErrAlreadyExists
	default:
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
}

func after() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
