package models

import (
	"fmt"
	"strings"

	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

// CoffeeQuestionCategory groups the questions in the picker.
type CoffeeQuestionCategory string

const (
	CategoryBasics      CoffeeQuestionCategory = "BASICS"
	CategoryPersonality CoffeeQuestionCategory = "PERSONALITY"
	CategoryTaste       CoffeeQuestionCategory = "TASTE"
	CategoryVibe        CoffeeQuestionCategory = "VIBE"
)

// CoffeeQuestion is one entry of the coffee profile catalogue.
type CoffeeQuestion struct {
	Key      string                 `json:"key"`
	Label    string                 `json:"label"`
	Category CoffeeQuestionCategory `json:"category"`
}

// CoffeeQuestions is the fixed catalogue, in picker order.
var CoffeeQuestions = []CoffeeQuestion{
	{Key: "favoriteTypeOfCoffee", Label: "Favorite type of coffee", Category: CategoryBasics},
	{Key: "neighborhood", Label: "Neighborhood you live in", Category: CategoryBasics},
	{Key: "favoriteCafeInArea", Label: "Favorite café in your area", Category: CategoryBasics},
	{Key: "morningOrEvening", Label: "Morning or evening coffee person?", Category: CategoryBasics},
	{Key: "goToSnack", Label: "Go-to pastry or snack with coffee", Category: CategoryBasics},

	{Key: "usualOrder", Label: "Your usual coffee order", Category: CategoryPersonality},
	{Key: "coffeeMusicCombo", Label: "Coffee & music combo", Category: CategoryPersonality},
	{Key: "coffeeVibe", Label: "Your coffee vibe", Category: CategoryPersonality},
	{Key: "cafeForFriend", Label: "Café you’d take a friend to", Category: CategoryPersonality},
	{Key: "cafeForDate", Label: "Café you’d go on a date", Category: CategoryPersonality},
	{Key: "coffeeStyleAsPerson", Label: "If your coffee style were a person, it would be...", Category: CategoryPersonality},

	{Key: "favoriteBeanOrigin", Label: "Favorite coffee bean origin", Category: CategoryTaste},
	{Key: "roastPreference", Label: "Roast preference", Category: CategoryTaste},
	{Key: "brewingMethod", Label: "Favorite brewing method", Category: CategoryTaste},
	{Key: "milkOfChoice", Label: "Milk of choice", Category: CategoryTaste},
	{Key: "addSugarOrSyrup", Label: "Do you add sugar or syrup?", Category: CategoryTaste},

	{Key: "whatCoffeeMeans", Label: "What coffee means to you", Category: CategoryVibe},
	{Key: "bestCoffeeMemory", Label: "Best coffee memory", Category: CategoryVibe},
	{Key: "idealCoffeeMate", Label: "Your ideal coffee mate", Category: CategoryVibe},
	{Key: "ownedCafeIdea", Label: "If you owned a café, what would it be like?", Category: CategoryVibe},
	{Key: "dreamCafeToVisit", Label: "Café you dream to visit one day", Category: CategoryVibe},
}

var coffeeQuestionsByKey = func() map[string]CoffeeQuestion {
	m := make(map[string]CoffeeQuestion, len(CoffeeQuestions))
	for _, q := range CoffeeQuestions {
		m[q.Key] = q
	}
	return m
}()

// LookupCoffeeQuestion returns the catalogue entry for key.
func LookupCoffeeQuestion(key string) (CoffeeQuestion, bool) {
	q, ok := coffeeQuestionsByKey[key]
	return q, ok
}

// NormalizeCoffeeProfile prepares edited rows for persistence. Rows without a
// question or with a blank answer are dropped (an unfinished row in the editor),
// answers are trimmed. The result never holds more than MaxCoffeeProfileItems
// entries and never repeats a question key; violations are validation errors.
func NormalizeCoffeeProfile(rows []CoffeeProfileItem) ([]CoffeeProfileItem, error) {
	out := make([]CoffeeProfileItem, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		key := strings.TrimSpace(row.QuestionKey)
		answer := strings.TrimSpace(row.Answer)
		if key == "" || answer == "" {
			continue
		}

		if _, ok := coffeeQuestionsByKey[key]; !ok {
			return nil, &utils.ValidationError{Field: "coffeeProfile", Message: fmt.Sprintf("Unknown coffee question %q", key)}
		}
		if _, dup := seen[key]; dup {
			return nil, &utils.ValidationError{Field: "coffeeProfile", Message: fmt.Sprintf("Question %q is answered twice", key)}
		}
		seen[key] = struct{}{}

		out = append(out, CoffeeProfileItem{QuestionKey: key, Answer: answer})
	}

	if len(out) > MaxCoffeeProfileItems {
		return nil, &utils.ValidationError{
			Field:   "coffeeProfile",
			Message: fmt.Sprintf("A coffee profile holds at most %d answers", MaxCoffeeProfileItems),
		}
	}

	return out, nil
}
