package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage/mock"
)

func TestSettingsService_GetDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mock.NewMockSettings(ctrl)
	s := NewSettingsService(st)

	st.EXPECT().GetSettings(gomock.Any(), "user_mia").Return(nil, storage.ErrNotFound)

	us, err := s.Get(context.Background(), &models.User{ID: "user_mia", Email: "mia@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings("user_mia", "mia@example.com"), us)
}

func TestSettingsService_SaveMerges(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mock.NewMockSettings(ctrl)
	s := NewSettingsService(st)

	stored := &models.UserSettings{
		UserID:          "user_mia",
		Email:           "mia@example.com",
		Phone:           "+49 123",
		PushEnabled:     true,
		LocationVisible: true,
		MessagePrivacy:  models.MessagePrivacyCoffeemates,
	}
	st.EXPECT().GetSettings(gomock.Any(), "user_mia").Return(stored, nil)
	st.EXPECT().SaveSettings(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, us *models.UserSettings) error {
		assert.Equal(t, "+49 123", us.Phone)
		assert.False(t, us.PushEnabled)
		assert.Equal(t, models.MessagePrivacyEveryone, us.MessagePrivacy)
		return nil
	})

	push := false
	privacy := models.MessagePrivacyEveryone
	_, err := s.Save(context.Background(), &models.User{ID: "user_mia"}, SettingsPatch{PushEnabled: &push, MessagePrivacy: &privacy})
	require.NoError(t, err)
}

func TestSettingsService_SaveRejectsUnknownPrivacy(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mock.NewMockSettings(ctrl)
	s := NewSettingsService(st)

	st.EXPECT().GetSettings(gomock.Any(), "user_mia").Return(nil, storage.ErrNotFound)

	privacy := models.MessagePrivacy("friends-of-friends")
	_, err := s.Save(context.Background(), &models.User{ID: "user_mia"}, SettingsPatch{MessagePrivacy: &privacy})
	assert.Error(t, err)
}

func TestSettingsService_AcceptsMessagesFrom(t *testing.T) {
	tt := []struct {
		privacy models.MessagePrivacy
		sender  string
		ok      bool
	}{
		{privacy: models.MessagePrivacyEveryone, sender: "user_hq", ok: true},
		{privacy: models.MessagePrivacyCoffeemates, sender: "user_alex", ok: true},
		{privacy: models.MessagePrivacyCoffeemates, sender: "user_hq", ok: false},
		{privacy: models.MessagePrivacyNone, sender: "user_alex", ok: false},
	}

	for _, tc := range tt {
		t.Run(string(tc.privacy)+"/"+tc.sender, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			st := mock.NewMockSettings(ctrl)
			s := NewSettingsService(st)

			st.EXPECT().GetSettings(gomock.Any(), "user_mia").Return(&models.UserSettings{UserID: "user_mia", MessagePrivacy: tc.privacy}, nil)

			ok, err := s.AcceptsMessagesFrom(context.Background(), &models.User{ID: "user_mia", CoffeemateIDs: []string{"user_alex"}}, tc.sender)
			require.NoError(t, err)
			assert.Equal(t, tc.ok, ok)
		})
	}
}
