package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, wrapErr(err, "failed to get user %s", id)
	}
	return &u, nil
}

func (s *Store) GetUsers(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	cur, err := s.users().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, wrapErr(err, "failed to find users")
	}

	out := make([]*models.User, 0, len(ids))
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr(err, "failed to decode users")
	}
	return out, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.CoffeemateIDs == nil {
		u.CoffeemateIDs = []string{}
	}
	if u.CoffeeProfile == nil {
		u.CoffeeProfile = []models.CoffeeProfileItem{}
	}

	_, err := s.users().InsertOne(ctx, u)
	return wrapErr(err, "failed to insert user %s", u.ID)
}

func (s *Store) UpdateProfile(ctx context.Context, id string, p storage.ProfileUpdate) (*models.User, error) {
	coffeeProfile := p.CoffeeProfile
	if coffeeProfile == nil {
		coffeeProfile = []models.CoffeeProfileItem{}
	}

	update := bson.M{"$set": bson.M{
		"handle":        p.Handle,
		"name":          p.Name,
		"location":      p.Location,
		"bio":           p.Bio,
		"coffeeProfile": coffeeProfile,
		"updatedAt":     time.Now().UTC(),
	}}

	var u models.User
	if err := s.users().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, after()).Decode(&u); err != nil {
		return nil, wrapErr(err, "failed to update profile %s", id)
	}
	return &u, nil
}

func (s *Store) SetImage(ctx context.Context, id string, field storage.ImageField, url string) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		string(field): url,
		"updatedAt":   time.Now().UTC(),
	}}

	var u models.User
	if err := s.users().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, after()).Decode(&u); err != nil {
		return nil, wrapErr(err, "failed to set %s for %s", field, id)
	}
	return &u, nil
}

// RemoveCoffeemate drops mateID and decrements the counter, floored at zero,
// in one conditional update. Removing an id that is not in the list leaves the
// document untouched.
func (s *Store) RemoveCoffeemate(ctx context.Context, ownerID, mateID string) (*models.User, error) {
	filter := bson.M{"_id": ownerID, "coffeemateIds": mateID}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "coffeemateIds", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$coffeemateIds"},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", mateID}}}},
			}}}},
			{Key: "stats.coffeemates", Value: decrementFloored("$stats.coffeemates")},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	}

	var u models.User
	err := s.users().FindOneAndUpdate(ctx, filter, update, after()).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return s.GetUser(ctx, ownerID)
	}
	if err != nil {
		return nil, wrapErr(err, "failed to remove coffeemate %s from %s", mateID, ownerID)
	}
	return &u, nil
}

func (s *Store) IncrementPosts(ctx context.Context, id string) error {
	res, err := s.users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stats.posts": 1}})
	if err != nil {
		return wrapErr(err, "failed to increment posts of %s", id)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func decrementFloored(field string) bson.D {
	return bson.D{{Key: "$max", Value: bson.A{0, bson.D{{Key: "$subtract", Value: bson.A{field, 1}}}}}}
}
