package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/AnshRaj112/coffeemates-backend/internal/feed"
	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage/mock"
)

func fixturePosts() []*models.Post {
	return []*models.Post{
		{ID: "marie-post-1", AuthorID: "user_marie", AuthorName: "Marie", LikedBy: []string{"user_mia"}, LikeCount: 1,
			Comments: []models.Comment{{ID: "c1", AuthorID: "user_mia"}, {ID: "c2", AuthorID: "user_marie"}}},
		{ID: "alex-post-1", AuthorID: "user_alex", AuthorName: "Alex"},
		{ID: "mia-post-1", AuthorID: "user_mia", AuthorName: "Mia"},
		{ID: "hq-post-1", AuthorID: "user_hq", AuthorName: "Coffeemates HQ"},
	}
}

func newFeedService(t *testing.T) (*FeedService, *SavedService, *mock.MockUsers, *mock.MockPosts) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUsers(ctrl)
	posts := mock.NewMockPosts(ctrl)
	saved := NewSavedService(newMemKV())
	return NewFeedService(users, posts, saved), saved, users, posts
}

func TestFeedService_Page(t *testing.T) {
	s, saved, users, posts := newFeedService(t)
	ctx := context.Background()

	_, err := saved.Toggle(ctx, "tok", "alex-post-1")
	require.NoError(t, err)

	mia := &models.User{ID: "user_mia", CoffeemateIDs: []string{"user_marie", "user_alex"}}
	users.EXPECT().GetUser(gomock.Any(), "user_mia").Return(mia, nil).Times(2)
	posts.EXPECT().ListPosts(gomock.Any()).Return(fixturePosts(), nil).Times(2)

	page, err := s.Page(ctx, "user_mia", "tok", feed.TabFriends, "", rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)

	marie := page.Posts[0]
	assert.Equal(t, "marie-post-1", marie.ID)
	assert.True(t, marie.IsFriend)
	assert.True(t, marie.IsLikedByCurrentUser)
	assert.False(t, marie.IsSavedByCurrentUser)
	assert.True(t, marie.Comments[0].IsOwner)
	assert.False(t, marie.Comments[1].IsOwner)
	assert.True(t, page.Posts[1].IsSavedByCurrentUser)

	page, err = s.Page(ctx, "user_mia", "tok", feed.TabOthers, "", rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "hq-post-1", page.Posts[0].ID)
}

func TestFeedService_EmptyPool(t *testing.T) {
	s, _, users, posts := newFeedService(t)

	users.EXPECT().GetUser(gomock.Any(), "user_mia").Return(&models.User{ID: "user_mia"}, nil)
	posts.EXPECT().ListPosts(gomock.Any()).Return([]*models.Post{}, nil)

	page, err := s.Page(context.Background(), "user_mia", "tok", feed.TabFriends, "", nil)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, feed.EmptyFriendsText, page.EmptyText)
}

func TestFeedService_SavedPosts(t *testing.T) {
	s, saved, users, posts := newFeedService(t)
	ctx := context.Background()

	_, err := saved.Toggle(ctx, "tok", "hq-post-1")
	require.NoError(t, err)

	users.EXPECT().GetUser(gomock.Any(), "user_mia").Return(&models.User{ID: "user_mia"}, nil)
	posts.EXPECT().ListPosts(gomock.Any()).Return(fixturePosts(), nil)

	items, err := s.SavedPosts(ctx, "user_mia", "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hq-post-1", items[0].ID)
}
