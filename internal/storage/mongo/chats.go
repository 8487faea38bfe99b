package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

func (s *Store) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	var c models.Chat
	if err := s.chats().FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, wrapErr(err, "failed to get chat %s", id)
	}
	return &c, nil
}

func (s *Store) CreateChat(ctx context.Context, c *models.Chat) error {
	_, err := s.chats().InsertOne(ctx, c)
	return wrapErr(err, "failed to insert chat %s", c.ID)
}

func (s *Store) ListChats(ctx context.Context, memberID string) ([]*models.Chat, error) {
	cur, err := s.chats().Find(ctx, bson.M{"members": memberID})
	if err != nil {
		return nil, wrapErr(err, "failed to list chats of %s", memberID)
	}

	out := make([]*models.Chat, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr(err, "failed to decode chats")
	}
	return out, nil
}

// ApplyMessage writes the summary and moves the counters atomically: the
// sender's counter is reset and every other member's is incremented.
func (s *Store) ApplyMessage(ctx context.Context, c *models.Chat, senderID, preview string, at time.Time) error {
	set := bson.M{
		"lastMessage":        preview,
		"lastMessageAt":      at,
		"unread." + senderID: 0,
	}
	inc := bson.M{}
	for _, m := range c.Members {
		if m != senderID {
			inc["unread."+m] = 1
		}
	}

	update := bson.M{"$set": set}
	if len(inc) > 0 {
		update["$inc"] = inc
	}

	res, err := s.chats().UpdateOne(ctx, bson.M{"_id": c.ID}, update)
	if err != nil {
		return wrapErr(err, "failed to update chat %s", c.ID)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ResetUnread(ctx context.Context, chatID, memberID string) error {
	res, err := s.chats().UpdateOne(ctx, bson.M{"_id": chatID}, bson.M{"$set": bson.M{"unread." + memberID: 0}})
	if err != nil {
		return wrapErr(err, "failed to reset unread of %s", chatID)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) AddMessage(ctx context.Context, m *models.Message) error {
	if m.ReadBy == nil {
		m.ReadBy = []string{}
	}
	_, err := s.messages().InsertOne(ctx, m)
	return wrapErr(err, "failed to insert message into %s", m.ChatID)
}

func (s *Store) ListMessages(ctx context.Context, chatID string) ([]*models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.messages().Find(ctx, bson.M{"chatId": chatID}, opts)
	if err != nil {
		return nil, wrapErr(err, "failed to list messages of %s", chatID)
	}

	out := make([]*models.Message, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr(err, "failed to decode messages")
	}
	return out, nil
}

func (s *Store) MarkMessagesRead(ctx context.Context, chatID, memberID string) error {
	filter := bson.M{"chatId": chatID, "readBy": bson.M{"$ne": memberID}}
	_, err := s.messages().UpdateMany(ctx, filter, bson.M{"$addToSet": bson.M{"readBy": memberID}})
	return wrapErr(err, "failed to mark messages of %s read", chatID)
}
