package models

import (
	"time"
)

// MaxCoffeeProfileItems is the number of question rows a profile can hold.
const MaxCoffeeProfileItems = 5

// CoffeeProfileItem is one answered coffee question on a profile.
type CoffeeProfileItem struct {
	QuestionKey string `bson:"questionKey" json:"questionKey"`
	Answer      string `bson:"answer" json:"answer"`
}

// UserStats holds the denormalized counters shown on a profile header.
type UserStats struct {
	Coffeemates int `bson:"coffeemates" json:"coffeemates"`
	Posts       int `bson:"posts" json:"posts"`
}

// User is stored in the users collection, keyed by the account's user id.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	Handle        string `bson:"handle" json:"handle"`
	Name          string `bson:"name" json:"name"`
	Location      string `bson:"location" json:"location"`
	Bio           string `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL     string `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CoverImageURL string `bson:"coverImageUrl,omitempty" json:"coverImageUrl,omitempty"`

	// Contact fields are private; they are only returned to the owner.
	Email string `bson:"email,omitempty" json:"-"`
	Phone string `bson:"phone,omitempty" json:"-"`

	Stats         UserStats           `bson:"stats" json:"stats"`
	CoffeeProfile []CoffeeProfileItem `bson:"coffeeProfile" json:"coffeeProfile"`
	CoffeemateIDs []string            `bson:"coffeemateIds" json:"coffeemateIds"`
}

// HasCoffeemate reports whether id is in the user's coffeemate list.
func (u *User) HasCoffeemate(id string) bool {
	for _, v := range u.CoffeemateIDs {
		if v == id {
			return true
		}
	}
	return false
}

// RemoveCoffeemate drops id from the coffeemate list and decrements the
// counter by exactly one. It reports false when id was not a coffeemate.
func (u *User) RemoveCoffeemate(id string) bool {
	out := make([]string, 0, len(u.CoffeemateIDs))
	removed := false
	for _, v := range u.CoffeemateIDs {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	if !removed {
		return false
	}

	u.CoffeemateIDs = out
	if u.Stats.Coffeemates > 0 {
		u.Stats.Coffeemates--
	}
	return true
}

// CoffeemateSummary is the entry rendered in the coffeemates modal.
type CoffeemateSummary struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}
