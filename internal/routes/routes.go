package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AnshRaj112/coffeemates-backend/internal/handlers"
	"github.com/AnshRaj112/coffeemates-backend/internal/middleware"
)

type Options struct {
	AllowedOrigins []string
	TrustProxy     bool
}

// NewRouter builds the HTTP surface: CORS → SecurityHeaders → GlobalRateLimit
// → LoginRateLimit, then the routes.
func NewRouter(h *handlers.Handler, auth middleware.Authenticator, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.SecurityHeaders)

	// Health check and metrics (no rate limit)
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.GlobalRateLimit(opts.TrustProxy))
		r.Use(middleware.LoginRateLimit(opts.TrustProxy))

		SetupRoutes(r, h, auth)
	})

	return r
}

func SetupRoutes(r chi.Router, h *handlers.Handler, auth middleware.Authenticator) {
	// Auth routes
	r.Post("/api/auth/signup", h.Signup)
	r.Post("/api/auth/signin", h.Signin)

	// Profile question catalogue (public)
	r.Get("/api/coffee-questions", h.CoffeeQuestions)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(auth))

		r.Post("/api/auth/signout", h.Signout)
		r.Get("/api/auth/me", h.Me)

		// Feed
		r.Get("/api/feed", h.Feed)
		r.Get("/ws/feed", h.FeedSocket)

		// Posts
		r.Post("/api/posts", h.CreatePost)
		r.Get("/api/posts/{id}", h.GetPost)
		r.Post("/api/posts/{id}/like", h.ToggleLike)
		r.Post("/api/posts/{id}/save", h.ToggleSave)
		r.Post("/api/posts/{id}/comments", h.AddComment)
		r.Delete("/api/posts/{id}/comments/{commentID}", h.DeleteComment)
		r.Get("/api/saved", h.Saved)

		// Profiles
		r.Get("/api/users/{id}", h.GetUser)
		r.Get("/api/users/{id}/coffeemates", h.Coffeemates)
		r.Put("/api/profile", h.UpdateProfile)
		r.Post("/api/profile/avatar", h.UploadAvatar)
		r.Post("/api/profile/cover", h.UploadCover)
		r.Delete("/api/profile/coffeemates/{id}", h.RemoveCoffeemate)

		// Settings
		r.Get("/api/settings", h.GetSettings)
		r.Put("/api/settings", h.SaveSettings)

		// Chats (Mongo storage + Redis Pub/Sub snapshots)
		r.Get("/api/chats", h.ListChats)
		r.Post("/api/chats", h.OpenChat)
		r.Get("/api/chats/{id}/messages", h.Messages)
		r.With(middleware.MessageRateLimit()).Post("/api/chats/{id}/messages", h.SendMessage)
		r.Post("/api/chats/{id}/read", h.MarkRead)
		r.Get("/ws/chats", h.ChatsSocket)
		r.Get("/ws/chats/{id}", h.MessagesSocket)

		// Places proxy
		r.Get("/api/places/autocomplete", h.PlacesAutocomplete)
		r.Get("/api/places/{placeId}", h.PlaceDetails)

		// File uploads
		r.Post("/api/upload", h.UploadFile)
	})
}
