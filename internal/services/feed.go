package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/AnshRaj112/coffeemates-backend/internal/feed"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

// FeedService reads the post pool and maps it for one viewer.
type FeedService struct {
	users storage.Users
	posts storage.Posts
	saved *SavedService
}

func NewFeedService(users storage.Users, posts storage.Posts, saved *SavedService) *FeedService {
	return &FeedService{users: users, posts: posts, saved: saved}
}

// Viewer loads the partition input for userID.
func (s *FeedService) Viewer(ctx context.Context, userID string) (feed.Viewer, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return feed.Viewer{}, fmt.Errorf("failed to load viewer: %w", err)
	}
	return feed.Viewer{ID: u.ID, CoffeemateIDs: u.CoffeemateIDs}, nil
}

// Snapshot returns the full pool, newest first, as v sees it.
func (s *FeedService) Snapshot(ctx context.Context, v feed.Viewer, sessionToken string) ([]feed.Item, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	saved, err := s.saved.Set(ctx, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read saved posts: %w", err)
	}

	return feed.NewItems(posts, v, saved), nil
}

// Page renders one cohort for a one-shot request.
func (s *FeedService) Page(ctx context.Context, userID, sessionToken string, tab feed.Tab, query string, rng *rand.Rand) (feed.Page, error) {
	v, err := s.Viewer(ctx, userID)
	if err != nil {
		return feed.Page{}, err
	}

	items, err := s.Snapshot(ctx, v, sessionToken)
	if err != nil {
		return feed.Page{}, err
	}

	sess := feed.NewSession(v, rng)
	sess.SetSnapshot(items)
	sess.SetTab(tab)
	sess.SetQuery(query)

	return sess.Page(), nil
}

// SavedPosts filters the pool down to the session's saved posts.
func (s *FeedService) SavedPosts(ctx context.Context, userID, sessionToken string) ([]feed.Item, error) {
	v, err := s.Viewer(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.Snapshot(ctx, v, sessionToken)
	if err != nil {
		return nil, err
	}

	out := make([]feed.Item, 0)
	for _, it := range items {
		if it.IsSavedByCurrentUser {
			out = append(out, it)
		}
	}
	return out, nil
}
