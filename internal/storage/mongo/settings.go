package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
)

func (s *Store) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	var us models.UserSettings
	if err := s.settings().FindOne(ctx, bson.M{"_id": userID}).Decode(&us); err != nil {
		return nil, wrapErr(err, "failed to get settings of %s", userID)
	}
	return &us, nil
}

func (s *Store) SaveSettings(ctx context.Context, us *models.UserSettings) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.settings().ReplaceOne(ctx, bson.M{"_id": us.UserID}, us, opts)
	return wrapErr(err, "failed to save settings of %s", us.UserID)
}
