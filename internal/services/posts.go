package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

// PostService handles post writes. Every write notifies feed subscribers.
type PostService struct {
	users    storage.Users
	posts    storage.Posts
	notifier Notifier
	log      logrus.FieldLogger

	now func() time.Time
}

func NewPostService(users storage.Users, posts storage.Posts, notifier Notifier) *PostService {
	return &PostService{
		users:    users,
		posts:    posts,
		notifier: notifier,
		log:      logrus.WithField("service", "posts"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreatePost validates the draft, stores it under authorID and bumps the
// author's post counter.
func (s *PostService) CreatePost(ctx context.Context, authorID string, draft models.PostDraft) (*models.Post, error) {
	draft, err := draft.Normalize()
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetUser(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}

	p := &models.Post{
		ID:              uuid.NewString(),
		AuthorID:        author.ID,
		AuthorName:      author.Name,
		AuthorAvatarURL: author.AvatarURL,
		CafeName:        draft.CafeName,
		Text:            draft.Text,
		Rating:          draft.Rating,
		GooglePlaceID:   draft.GooglePlaceID,
		ImageURL:        draft.ImageURL,
		LikedBy:         []string{},
		Comments:        []models.Comment{},
		CreatedAt:       s.now(),
	}

	if err := s.posts.CreatePost(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	postsCreated.Inc()

	if err := s.users.IncrementPosts(ctx, author.ID); err != nil {
		s.log.WithError(err).WithField("user_id", author.ID).Error("failed to increment post counter")
	}

	s.notifier.PublishAll(ctx, realtime.TopicPosts, realtime.UserTopic(author.ID))
	return p, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetPost(ctx, id)
}

// ToggleLike flips viewerID's like on postID and returns the post and the new state.
func (s *PostService) ToggleLike(ctx context.Context, postID, viewerID string) (*models.Post, bool, error) {
	p, liked, err := s.posts.ToggleLike(ctx, postID, viewerID)
	if err != nil {
		return nil, false, err
	}

	s.notifier.PublishAll(ctx, realtime.TopicPosts)
	return p, liked, nil
}

// AddComment appends a comment by authorID.
func (s *PostService) AddComment(ctx context.Context, postID, authorID, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &utils.ValidationError{Field: "text", Message: "Comment cannot be empty"}
	}

	author, err := s.users.GetUser(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}

	p, err := s.posts.AddComment(ctx, postID, models.Comment{
		ID:         uuid.NewString(),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PublishAll(ctx, realtime.TopicPosts)
	return p, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID, viewerID string) (*models.Post, error) {
	p, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	c, ok := p.FindComment(commentID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	if c.AuthorID != viewerID {
		return nil, ErrForbidden
	}

	p, err = s.posts.DeleteComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}

	s.notifier.PublishAll(ctx, realtime.TopicPosts)
	return p, nil
}
