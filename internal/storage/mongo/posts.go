package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

// toggleAttempts bounds retries when a concurrent toggle flips the state
// between the unlike and like attempts.
const toggleAttempts = 3

func (s *Store) ListPosts(ctx context.Context) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.posts().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapErr(err, "failed to list posts")
	}

	out := make([]*models.Post, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr(err, "failed to decode posts")
	}
	return out, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := s.posts().FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, wrapErr(err, "failed to get post %s", id)
	}
	return &p, nil
}

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	if p.LikedBy == nil {
		p.LikedBy = []string{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}

	_, err := s.posts().InsertOne(ctx, p)
	return wrapErr(err, "failed to insert post %s", p.ID)
}

// ToggleLike first tries to remove an existing like and falls back to adding
// one. Each branch is a single conditional update so the counter and the
// likedBy list never diverge.
func (s *Store) ToggleLike(ctx context.Context, postID, viewerID string) (*models.Post, bool, error) {
	unlike := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likedBy", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$likedBy"},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", viewerID}}}},
			}}}},
			{Key: "likeCount", Value: decrementFloored("$likeCount")},
		}}},
	}
	like := bson.M{
		"$addToSet": bson.M{"likedBy": viewerID},
		"$inc":      bson.M{"likeCount": 1},
	}

	for i := 0; i < toggleAttempts; i++ {
		var p models.Post
		err := s.posts().FindOneAndUpdate(ctx, bson.M{"_id": postID, "likedBy": viewerID}, unlike, after()).Decode(&p)
		if err == nil {
			return &p, false, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, wrapErr(err, "failed to unlike post %s", postID)
		}

		err = s.posts().FindOneAndUpdate(ctx, bson.M{"_id": postID, "likedBy": bson.M{"$ne": viewerID}}, like, after()).Decode(&p)
		if err == nil {
			return &p, true, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, wrapErr(err, "failed to like post %s", postID)
		}

		if _, err := s.GetPost(ctx, postID); err != nil {
			return nil, false, err
		}
	}

	return nil, false, storage.ErrNotFound
}

func (s *Store) AddComment(ctx context.Context, postID string, c models.Comment) (*models.Post, error) {
	update := bson.M{"$push": bson.M{"comments": c}}

	var p models.Post
	if err := s.posts().FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, after()).Decode(&p); err != nil {
		return nil, wrapErr(err, "failed to add comment to %s", postID)
	}
	return &p, nil
}

func (s *Store) DeleteComment(ctx context.Context, postID, commentID string) (*models.Post, error) {
	filter := bson.M{"_id": postID, "comments.id": commentID}
	update := bson.M{"$pull": bson.M{"comments": bson.M{"id": commentID}}}

	var p models.Post
	if err := s.posts().FindOneAndUpdate(ctx, filter, update, after()).Decode(&p); err != nil {
		return nil, wrapErr(err, "failed to delete comment %s", commentID)
	}
	return &p, nil
}
