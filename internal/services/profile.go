package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

const (
	fallbackHandle = "@new_coffeemate"
	fallbackName   = "New coffeemate"
)

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	Handle        string                     `json:"handle"`
	Name          string                     `json:"name"`
	Location      string                     `json:"location"`
	Bio           string                     `json:"bio"`
	CoffeeProfile []models.CoffeeProfileItem `json:"coffeeProfile"`
}

// ProfileService reads and edits user profiles.
type ProfileService struct {
	users    storage.Users
	uploader Uploader
	notifier Notifier
	log      logrus.FieldLogger

	now func() time.Time
}

func NewProfileService(users storage.Users, uploader Uploader, notifier Notifier) *ProfileService {
	return &ProfileService{
		users:    users,
		uploader: uploader,
		notifier: notifier,
		log:      logrus.WithField("service", "profile"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetProfile returns the profile of id.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetUser(ctx, id)
}

// GetOrCreate returns the profile of userID, creating a minimal one on first
// use. displayName seeds the name and handle when it is usable.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID, email, displayName string) (*models.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	u = s.fallbackProfile(userID, email, displayName)
	err = s.users.CreateUser(ctx, u)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return s.users.GetUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.log.WithField("user_id", userID).Info("created profile")
	return u, nil
}

func (s *ProfileService) fallbackProfile(userID, email, displayName string) *models.User {
	displayName = strings.TrimSpace(displayName)

	handle := fallbackHandle
	if displayName != "" && utils.ValidateHandle(displayName) == nil {
		handle = utils.NormalizeHandle(displayName)
	}
	name := fallbackName
	if displayName != "" {
		name = displayName
	}

	now := s.now()
	return &models.User{
		ID:            userID,
		CreatedAt:     now,
		UpdatedAt:     now,
		Handle:        handle,
		Name:          name,
		Email:         email,
		CoffeeProfile: []models.CoffeeProfileItem{},
		CoffeemateIDs: []string{},
	}
}

// UpdateProfile validates and stores the editable fields of userID's profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	if err := utils.ValidateHandle(in.Handle); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &utils.ValidationError{Field: "name", Message: "Name is required"}
	}

	coffeeProfile, err := models.NormalizeCoffeeProfile(in.CoffeeProfile)
	if err != nil {
		return nil, err
	}

	u, err := s.users.UpdateProfile(ctx, userID, storage.ProfileUpdate{
		Handle:        utils.NormalizeHandle(in.Handle),
		Name:          name,
		Location:      strings.TrimSpace(in.Location),
		Bio:           strings.TrimSpace(in.Bio),
		CoffeeProfile: coffeeProfile,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PublishAll(ctx, realtime.UserTopic(userID))
	return u, nil
}

// SetImage uploads an avatar or cover image and stores its URL on the profile.
func (s *ProfileService) SetImage(ctx context.Context, userID string, field storage.ImageField, r io.Reader) (*models.User, error) {
	folder := FolderAvatars
	if field == storage.CoverImage {
		folder = FolderCovers
	}

	url, err := s.uploader.Upload(ctx, r, folder)
	if err != nil {
		return nil, err
	}

	u, err := s.users.SetImage(ctx, userID, field, url)
	if err != nil {
		return nil, err
	}

	s.notifier.PublishAll(ctx, realtime.UserTopic(userID))
	return u, nil
}

// RemoveCoffeemate drops mateID from ownerID's list. The counter goes down by
// exactly one, floored at zero; removing a non-coffeemate changes nothing.
func (s *ProfileService) RemoveCoffeemate(ctx context.Context, ownerID, mateID string) (*models.User, error) {
	owner, err := s.users.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.HasCoffeemate(mateID) {
		return owner, nil
	}

	owner, err = s.users.RemoveCoffeemate(ctx, ownerID, mateID)
	if err != nil {
		return nil, err
	}

	s.notifier.PublishAll(ctx, realtime.UserTopic(ownerID))
	return owner, nil
}

// Coffeemates returns the summaries of userID's coffeemates in list order.
// Ids without a profile are skipped.
func (s *ProfileService) Coffeemates(ctx context.Context, userID string) ([]models.CoffeemateSummary, error) {
	owner, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	mates, err := s.users.GetUsers(ctx, owner.CoffeemateIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.User, len(mates))
	for _, m := range mates {
		byID[m.ID] = m
	}

	out := make([]models.CoffeemateSummary, 0, len(owner.CoffeemateIDs))
	for _, id := range owner.CoffeemateIDs {
		m, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, models.CoffeemateSummary{ID: m.ID, Handle: m.Handle, AvatarURL: m.AvatarURL})
	}
	return out, nil
}
