package services

import (
	"context"
	"errors"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

// SettingsPatch carries the fields to change; nil fields are kept.
type SettingsPatch struct {
	Email                *string                `json:"email"`
	Phone                *string                `json:"phone"`
	PushEnabled          *bool                  `json:"pushEnabled"`
	MessageNotifications *bool                  `json:"messageNotifications"`
	LocationVisible      *bool                  `json:"locationVisible"`
	MessagePrivacy       *models.MessagePrivacy `json:"messagePrivacy"`
}

// SettingsService reads and merges per-user settings.
type SettingsService struct {
	settings storage.Settings
}

func NewSettingsService(settings storage.Settings) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns the stored settings of u, or the defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context, u *models.User) (*models.UserSettings, error) {
	us, err := s.settings.GetSettings(ctx, u.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultSettings(u.ID, u.Email), nil
	}
	if err != nil {
		return nil, err
	}
	return us, nil
}

// Save merges patch into the current settings of u and stores the result.
func (s *SettingsService) Save(ctx context.Context, u *models.User, patch SettingsPatch) (*models.UserSettings, error) {
	us, err := s.Get(ctx, u)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		us.Email = *patch.Email
	}
	if patch.Phone != nil {
		us.Phone = *patch.Phone
	}
	if patch.PushEnabled != nil {
		us.PushEnabled = *patch.PushEnabled
	}
	if patch.MessageNotifications != nil {
		us.MessageNotifications = *patch.MessageNotifications
	}
	if patch.LocationVisible != nil {
		us.LocationVisible = *patch.LocationVisible
	}
	if patch.MessagePrivacy != nil {
		us.MessagePrivacy = *patch.MessagePrivacy
	}

	if err := us.Validate(); err != nil {
		return nil, err
	}
	if err := s.settings.SaveSettings(ctx, us); err != nil {
		return nil, err
	}
	return us, nil
}

// AcceptsMessagesFrom reports whether owner's privacy setting lets sender
// open a conversation.
func (s *SettingsService) AcceptsMessagesFrom(ctx context.Context, owner *models.User, senderID string) (bool, error) {
	us, err := s.Get(ctx, owner)
	if err != nil {
		return false, err
	}

	switch us.MessagePrivacy {
	case models.MessagePrivacyEveryone:
		return true, nil
	case models.MessagePrivacyCoffeemates:
		return owner.HasCoffeemate(senderID), nil
	default:
		return false, nil
	}
}
