package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage/mock"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

func newPostService(t *testing.T) (*PostService, *mock.MockUsers, *mock.MockPosts, *recordingNotifier) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUsers(ctrl)
	posts := mock.NewMockPosts(ctrl)
	n := &recordingNotifier{}

	s := NewPostService(users, posts, n)
	s.now = fixedClock
	return s, users, posts, n
}

func TestPostService_CreatePost(t *testing.T) {
	s, users, posts, n := newPostService(t)
	ctx := context.Background()

	users.EXPECT().GetUser(gomock.Any(), "user_mia").Return(&models.User{ID: "user_mia", Name: "Mia", AvatarURL: "a.png"}, nil)
	posts.EXPECT().CreatePost(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *models.Post) error {
		assert.Equal(t, "user_mia", p.AuthorID)
		assert.Equal(t, "Mia", p.AuthorName)
		assert.Equal(t, "Isar Riverside Cafe", p.CafeName)
		assert.Equal(t, 0, p.LikeCount)
		assert.Equal(t, fixedNow, p.CreatedAt)
		assert.NotEmpty(t, p.ID)
		return nil
	})
	users.EXPECT().IncrementPosts(gomock.Any(), "user_mia").Return(nil)

	p, err := s.CreatePost(ctx, "user_mia", models.PostDraft{CafeName: " Isar Riverside Cafe ", Text: "sunny", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, "Isar Riverside Cafe", p.CafeName)
	assert.Equal(t, []string{realtime.TopicPosts, realtime.UserTopic("user_mia")}, n.published())
}

func TestPostService_CreatePost_InvalidDraftWritesNothing(t *testing.T) {
	s, _, _, n := newPostService(t)

	_, err := s.CreatePost(context.Background(), "user_mia", models.PostDraft{CafeName: "Lune", Text: "x", Rating: 7})

	var verr *utils.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, n.published())
}

func TestPostService_ToggleLike(t *testing.T) {
	s, _, posts, n := newPostService(t)

	posts.EXPECT().ToggleLike(gomock.Any(), "marie-post-1", "user_mia").Return(&models.Post{ID: "marie-post-1", LikeCount: 125}, true, nil)

	p, liked, err := s.ToggleLike(context.Background(), "marie-post-1", "user_mia")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 125, p.LikeCount)
	assert.Equal(t, []string{realtime.TopicPosts}, n.published())
}

func TestPostService_AddComment(t *testing.T) {
	s, users, posts, _ := newPostService(t)
	ctx := context.Background()

	_, err := s.AddComment(ctx, "p1", "user_mia", "   ")
	require.Error(t, err)

	users.EXPECT().GetUser(gomock.Any(), "user_mia").Return(&models.User{ID: "user_mia", Name: "Mia"}, nil)
	posts.EXPECT().AddComment(gomock.Any(), "p1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, c models.Comment) (*models.Post, error) {
		assert.Equal(t, "Mia", c.AuthorName)
		assert.Equal(t, "looks cozy", c.Text)
		return &models.Post{ID: "p1", Comments: []models.Comment{c}}, nil
	})

	p, err := s.AddComment(ctx, "p1", "user_mia", " looks cozy ")
	require.NoError(t, err)
	assert.Len(t, p.Comments, 1)
}

func TestPostService_DeleteComment(t *testing.T) {
	post := &models.Post{ID: "p1", Comments: []models.Comment{
		{ID: "c1", AuthorID: "user_marie"},
		{ID: "c2", AuthorID: "user_mia"},
	}}

	tt := []struct {
		name    string
		comment string
		viewer  string
		err     error
	}{
		{name: "owner", comment: "c2", viewer: "user_mia"},
		{name: "foreign", comment: "c1", viewer: "user_mia", err: ErrForbidden},
		{name: "missing", comment: "c9", viewer: "user_mia", err: storage.ErrNotFound},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			s, _, posts, n := newPostService(t)
			posts.EXPECT().GetPost(gomock.Any(), "p1").Return(post, nil)
			if tc.err == nil {
				posts.EXPECT().DeleteComment(gomock.Any(), "p1", tc.comment).Return(&models.Post{ID: "p1"}, nil)
			}

			_, err := s.DeleteComment(context.Background(), "p1", tc.comment, tc.viewer)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Empty(t, n.published())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{realtime.TopicPosts}, n.published())
		})
	}
}
