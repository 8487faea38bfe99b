package services

import (
	"context"
	"errors"
	"strings"
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

func newProfileService(t *testing.T) (*ProfileService, *mock.MockUsers, *fakeUploader, *recordingNotifier) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUsers(ctrl)
	up := &fakeUploader{url: "https://res.cloudinary.com/x.png"}
	n := &recordingNotifier{}

	s := NewProfileService(users, up, n)
	s.now = fixedClock
	return s, users, up, n
}

func TestProfileService_GetOrCreate_Existing(t *testing.T) {
	s, users, _, _ := newProfileService(t)

	users.EXPECT().GetUser(gomock.Any(), "user_mia").Return(&models.User{ID: "user_mia", Name: "Mia"}, nil)

	u, err := s.GetOrCreate(context.Background(), "user_mia", "mia@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Mia", u.Name)
}

func TestProfileService_GetOrCreate_Fallback(t *testing.T) {
	s, users, _, _ := newProfileService(t)

	users.EXPECT().GetUser(gomock.Any(), "u1").Return(nil, storage.ErrNotFound)
	users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, "@latteluke", u.Handle)
		assert.Equal(t, "LatteLuke", u.Name)
		assert.Equal(t, "luke@example.com", u.Email)
		assert.Equal(t, fixedNow, u.CreatedAt)
		assert.Empty(t, u.CoffeemateIDs)
		return nil
	})

	u, err := s.GetOrCreate(context.Background(), "u1", "luke@example.com", "LatteLuke")
	require.NoError(t, err)
	assert.Equal(t, 0, u.Stats.Posts)
}

func TestProfileService_GetOrCreate_Race(t *testing.T) {
	s, users, _, _ := newProfileService(t)

	gomock.InOrder(
		users.EXPECT().GetUser(gomock.Any(), "u1").Return(nil, storage.ErrNotFound),
		users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists),
		users.EXPECT().GetUser(gomock.Any(), "u1").Return(&models.User{ID: "u1", Name: "Luke"}, nil),
	)

	u, err := s.GetOrCreate(context.Background(), "u1", "", "Luke Skywalker")
	require.NoError(t, err)
	assert.Equal(t, "Luke", u.Name)
}

func TestProfileService_UpdateProfile(t *testing.T) {
	s, users, _, n := newProfileService(t)

	users.EXPECT().UpdateProfile(gomock.Any(), "user_mia", storage.ProfileUpdate{
		Handle:        "@miacappuccino",
		Name:          "Mia",
		Location:      "Munich, Germany",
		CoffeeProfile: []models.CoffeeProfileItem{{QuestionKey: "coffeeVibe", Answer: "Sunny & social"}},
	}).Return(&models.User{ID: "user_mia"}, nil)

	_, err := s.UpdateProfile(context.Background(), "user_mia", ProfileInput{
		Handle:   "MiaCappuccino",
		Name:     " Mia ",
		Location: "Munich, Germany",
		CoffeeProfile: []models.CoffeeProfileItem{
			{QuestionKey: "coffeeVibe", Answer: "Sunny & social"},
			{QuestionKey: "", Answer: ""},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{realtime.UserTopic("user_mia")}, n.published())
}

func TestProfileService_UpdateProfile_Invalid(t *testing.T) {
	s, _, _, n := newProfileService(t)

	tt := []ProfileInput{
		{Handle: "x", Name: "Mia"},
		{Handle: "mia", Name: "  "},
		{Handle: "mia", Name: "Mia", CoffeeProfile: []models.CoffeeProfileItem{
			{QuestionKey: "coffeeVibe", Answer: "a"},
			{QuestionKey: "coffeeVibe", Answer: "b"},
		}},
	}

	for _, in := range tt {
		_, err := s.UpdateProfile(context.Background(), "user_mia", in)
		var verr *utils.ValidationError
		assert.True(t, errors.As(err, &verr))
	}
	assert.Empty(t, n.published())
}

func TestProfileService_SetImage(t *testing.T) {
	s, users, up, n := newProfileService(t)

	users.EXPECT().SetImage(gomock.Any(), "user_mia", storage.CoverImage, up.url).Return(&models.User{ID: "user_mia", CoverImageURL: up.url}, nil)

	u, err := s.SetImage(context.Background(), "user_mia", storage.CoverImage, strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, up.url, u.CoverImageURL)
	assert.Equal(t, FolderCovers, up.folder)
	assert.Equal(t, "png", up.body)
	assert.Equal(t, []string{realtime.UserTopic("user_mia")}, n.published())
}

func TestProfileService_RemoveCoffeemate(t *testing.T) {
	s, users, _, n := newProfileService(t)
	ctx := context.Background()

	owner := &models.User{ID: "user_mia", CoffeemateIDs: []string{"user_marie", "user_alex"}, Stats: models.UserStats{Coffeemates: 45}}
	users.EXPECT().GetUser(gomock.Any(), "user_mia").Return(owner, nil)
	users.EXPECT().RemoveCoffeemate(gomock.Any(), "user_mia", "user_marie").Return(&models.User{
		ID: "user_mia", CoffeemateIDs: []string{"user_alex"}, Stats: models.UserStats{Coffeemates: 44},
	}, nil)

	u, err := s.RemoveCoffeemate(ctx, "user_mia", "user_marie")
	require.NoError(t, err)
	assert.Equal(t, 44, u.Stats.Coffeemates)
	assert.Equal(t, []string{realtime.UserTopic("user_mia")}, n.published())
}

func TestProfileService_RemoveCoffeemate_NotAMate(t *testing.T) {
	s, users, _, n := newProfileService(t)

	owner := &models.User{ID: "user_mia", CoffeemateIDs: []string{"user_alex"}, Stats: models.UserStats{Coffeemates: 1}}
	users.EXPECT().GetUser(gomock.Any(), "user_mia").Return(owner, nil)

	u, err := s.RemoveCoffeemate(context.Background(), "user_mia", "user_hq")
	require.NoError(t, err)
	assert.Equal(t, 1, u.Stats.Coffeemates)
	assert.Empty(t, n.published())
}

func TestProfileService_Coffeemates(t *testing.T) {
	s, users, _, _ := newProfileService(t)

	users.EXPECT().GetUser(gomock.Any(), "user_mia").Return(&models.User{ID: "user_mia", CoffeemateIDs: []string{"user_marie", "user_gone", "user_alex"}}, nil)
	users.EXPECT().GetUsers(gomock.Any(), []string{"user_marie", "user_gone", "user_alex"}).Return([]*models.User{
		{ID: "user_alex", Handle: "@alexdrip"},
		{ID: "user_marie", Handle: "@mariecoffeelove"},
	}, nil)

	mates, err := s.Coffeemates(context.Background(), "user_mia")
	require.NoError(t, err)
	assert.Equal(t, []models.CoffeemateSummary{
		{ID: "user_marie", Handle: "@mariecoffeelove"},
		{ID: "user_alex", Handle: "@alexdrip"},
	}, mates)
}
