package models

import "github.com/AnshRaj112/coffeemates-backend/pkg/utils"

// MessagePrivacy controls who may start a conversation with the user.
type MessagePrivacy string

const (
	MessagePrivacyEveryone    MessagePrivacy = "everyone"
	MessagePrivacyCoffeemates MessagePrivacy = "coffeemates"
	MessagePrivacyNone        MessagePrivacy = "none"
)

// UserSettings is stored in the userSettings collection keyed by user id.
type UserSettings struct {
	UserID               string         `bson:"_id" json:"-"`
	Email                string         `bson:"email" json:"email"`
	Phone                string         `bson:"phone" json:"phone"`
	PushEnabled          bool           `bson:"pushEnabled" json:"pushEnabled"`
	MessageNotifications bool           `bson:"messageNotifications" json:"messageNotifications"`
	LocationVisible      bool           `bson:"locationVisible" json:"locationVisible"`
	MessagePrivacy       MessagePrivacy `bson:"messagePrivacy" json:"messagePrivacy"`
}

// DefaultSettings returns the values a user sees before saving anything.
func DefaultSettings(userID, email string) *UserSettings {
	return &UserSettings{
		UserID:               userID,
		Email:                email,
		PushEnabled:          true,
		MessageNotifications: true,
		LocationVisible:      true,
		MessagePrivacy:       MessagePrivacyCoffeemates,
	}
}

// Validate checks the enum field.
func (s *UserSettings) Validate() error {
	switch s.MessagePrivacy {
	case MessagePrivacyEveryone, MessagePrivacyCoffeemates, MessagePrivacyNone:
		return nil
	default:
		return &utils.ValidationError{Field: "messagePrivacy", Message: "messagePrivacy must be everyone, coffeemates or none"}
	}
}
