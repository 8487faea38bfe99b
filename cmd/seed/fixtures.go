package main

import "github.com/AnshRaj112/coffeemates-backend/internal/models"

type fixtureUser struct {
	user     models.User
	password string
}

func profile(pairs ...string) []models.CoffeeProfileItem {
	out := make([]models.CoffeeProfileItem, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.CoffeeProfileItem{QuestionKey: pairs[i], Answer: pairs[i+1]})
	}
	return out
}

func fixtureUsers() []fixtureUser {
	return []fixtureUser{
		{
			password: "coffee-marie",
			user: models.User{
				ID:       "user_marie",
				Handle:   "@mariecoffeelove",
				Name:     "Marie",
				Location: "Berlin, Germany",
				Bio:      "Flat white enthusiast. Always hunting for cozy corners in Berlin cafés.",
				Stats:    models.UserStats{Coffeemates: 30, Posts: 2},
				CoffeeProfile: profile(
					"favoriteTypeOfCoffee", "Flat White",
					"favoriteCafeInArea", "Never ending love story",
					"coffeeVibe", "Cozy",
					"favoriteBeanOrigin", "Mexico",
					"ownedCafeIdea", "Minimal, light-filled café with plants and jazz.",
				),
				CoffeemateIDs: []string{"user_alex", "user_mia"},
			},
		},
		{
			password: "coffee-alex",
			user: models.User{
				ID:       "user_alex",
				Handle:   "@alexdrip",
				Name:     "Alex",
				Location: "Hamburg, Germany",
				Bio:      "Filter coffee nerd. Always chasing the perfect V60.",
				Stats:    models.UserStats{Coffeemates: 18, Posts: 2},
				CoffeeProfile: profile(
					"favoriteTypeOfCoffee", "Hand-drip filter",
					"favoriteCafeInArea", "Elbphilharmonie Coffee Bar",
					"coffeeVibe", "Minimal & quiet",
					"favoriteBeanOrigin", "Ethiopia",
					"ownedCafeIdea", "Tiny standing-only bar with rotating single origins.",
				),
				CoffeemateIDs: []string{"user_marie", "user_mia"},
			},
		},
		{
			password: "coffee-mia",
			user: models.User{
				ID:       "user_mia",
				Handle:   "@miacappuccino",
				Name:     "Mia",
				Location: "Munich, Germany",
				Bio:      "Cappuccino by day, affogato by night.",
				Stats:    models.UserStats{Coffeemates: 45, Posts: 2},
				CoffeeProfile: profile(
					"favoriteTypeOfCoffee", "Cappuccino",
					"favoriteCafeInArea", "Isar Riverside Cafe",
					"coffeeVibe", "Sunny & social",
					"favoriteBeanOrigin", "Brazil",
					"ownedCafeIdea", "Gelato × espresso bar with vinyl music.",
				),
				CoffeemateIDs: []string{"user_marie", "user_alex"},
			},
		},
		{
			password: "coffee-hq",
			user: models.User{
				ID:       models.HQUserID,
				Handle:   "@coffeemates_hq",
				Name:     "Coffeemates HQ",
				Location: "Global",
				Bio:      "Official Coffeemates account. Sharing updates, features and coffee love.",
				Stats:    models.UserStats{Coffeemates: 999, Posts: 0},
				CoffeeProfile: profile(
					"favoriteTypeOfCoffee", "Any coffee shared with friends",
					"favoriteCafeInArea", "Your next discovery",
					"coffeeVibe", "Warm & welcoming",
					"favoriteBeanOrigin", "Blends from everywhere",
					"ownedCafeIdea", "Community hub where coffeemates meet for real.",
				),
				CoffeemateIDs: []string{},
			},
		},
	}
}

func comment(id, authorID, authorName, text string) models.Comment {
	return models.Comment{ID: id, AuthorID: authorID, AuthorName: authorName, Text: text}
}

func fixturePosts() []models.Post {
	return []models.Post{
		{
			ID: "marie-post-1", AuthorID: "user_marie", AuthorName: "Marie",
			CafeName:  "Cafe Berlin",
			Text:      "My current favorite flat white in Neukölln. Smooth, nutty and not too acidic.",
			Rating:    4.7,
			LikeCount: 124,
			Comments: []models.Comment{
				comment("c1", "seed_coffeelover_92", "coffeelover_92", "This looks so cozy!"),
				comment("c2", "seed_flatwhitelover", "flatwhitelover", "Totally agree, their milk texture is perfect."),
				comment("c3", "user_marie", "Marie", "Next time I’ll try their filter too ☕️"),
			},
		},
		{
			ID: "marie-post-2", AuthorID: "user_marie", AuthorName: "Marie",
			CafeName:  "Sunday Morning Cafe",
			Text:      "Perfect place for slow Sundays and reading time.",
			Rating:    4.5,
			LikeCount: 87,
			Comments: []models.Comment{
				comment("c4", "seed_bookworm", "bookworm", "Adding this to my reading spots list 📚"),
			},
		},
		{
			ID: "alex-post-1", AuthorID: "user_alex", AuthorName: "Alex",
			CafeName:  "Harbor Roasters",
			Text:      "Super clean washed Ethiopian today. Peach and jasmine all the way.",
			Rating:    4.8,
			LikeCount: 64,
			Comments: []models.Comment{
				comment("c5", "seed_originhunter", "originhunter", "That crema looks beautiful."),
			},
		},
		{
			ID: "alex-post-2", AuthorID: "user_alex", AuthorName: "Alex",
			CafeName:  "Dockside Coffee Lab",
			Text:      "Loved their slow bar. You can watch every brew method from the counter.",
			Rating:    4.4,
			LikeCount: 39,
		},
		{
			ID: "mia-post-1", AuthorID: "user_mia", AuthorName: "Mia",
			CafeName:  "Isar Riverside Cafe",
			Text:      "Sat by the river with a cappuccino and pistachio croissant. Perfect.",
			Rating:    4.3,
			LikeCount: 102,
			Comments: []models.Comment{
				comment("c6", "seed_riverwalker", "riverwalker", "This view + coffee combo is unbeatable."),
			},
		},
		{
			ID: "mia-post-2", AuthorID: "user_mia", AuthorName: "Mia",
			CafeName:  "Gelato & Beans",
			Text:      "Espresso affogato with hazelnut gelato… highly recommend.",
			Rating:    4.6,
			LikeCount: 77,
		},
	}
}
