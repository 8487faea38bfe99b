package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

func TestUser_RemoveCoffeemate(t *testing.T) {
	u := &User{
		CoffeemateIDs: []string{"user_marie", "user_alex"},
		Stats:         UserStats{Coffeemates: 2},
	}

	require.True(t, u.RemoveCoffeemate("user_marie"))
	assert.Equal(t, []string{"user_alex"}, u.CoffeemateIDs)
	assert.Equal(t, 1, u.Stats.Coffeemates)

	require.False(t, u.RemoveCoffeemate("user_marie"))
	assert.Equal(t, 1, u.Stats.Coffeemates)
}

func TestUser_RemoveCoffeemate_CounterFloor(t *testing.T) {
	u := &User{CoffeemateIDs: []string{"user_alex"}}

	require.True(t, u.RemoveCoffeemate("user_alex"))
	assert.Equal(t, 0, u.Stats.Coffeemates)
	assert.False(t, u.HasCoffeemate("user_alex"))
}

func TestNormalizeCoffeeProfile(t *testing.T) {
	items, err := NormalizeCoffeeProfile([]CoffeeProfileItem{
		{QuestionKey: "usualOrder", Answer: "  oat flat white "},
		{QuestionKey: "", Answer: "dropped"},
		{QuestionKey: "coffeeVibe", Answer: "   "},
	})
	require.NoError(t, err)
	assert.Equal(t, []CoffeeProfileItem{{QuestionKey: "usualOrder", Answer: "oat flat white"}}, items)
}

func TestNormalizeCoffeeProfile_Errors(t *testing.T) {
	six := make([]CoffeeProfileItem, 0, 6)
	for _, q := range CoffeeQuestions[:6] {
		six = append(six, CoffeeProfileItem{QuestionKey: q.Key, Answer: "x"})
	}

	tt := []struct {
		name  string
		items []CoffeeProfileItem
	}{
		{name: "too many", items: six},
		{name: "duplicate", items: []CoffeeProfileItem{
			{QuestionKey: "usualOrder", Answer: "a"},
			{QuestionKey: "usualOrder", Answer: "b"},
		}},
		{name: "unknown key", items: []CoffeeProfileItem{{QuestionKey: "favorite_tea", Answer: "a"}}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeCoffeeProfile(tc.items)
			var verr *utils.ValidationError
			require.True(t, errors.As(err, &verr))
		})
	}
}
