// Package handlers exposes the services over HTTP and websockets.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
	"github.com/AnshRaj112/coffeemates-backend/internal/services"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 10 << 20

	genericErrorMessage = "Something went wrong. Please try again."
)

var validate = validator.New()

// Deps are the services the handlers call.
type Deps struct {
	Auth     *services.AuthService
	Profiles *services.ProfileService
	Feed     *services.FeedService
	Posts    *services.PostService
	Saved    *services.SavedService
	Settings *services.SettingsService
	Chats    *services.ChatService
	Places   *services.PlacesService
	Uploader services.Uploader
	Hub      *realtime.Hub

	// AllowedOrigins restricts websocket upgrades. Empty allows any origin.
	AllowedOrigins []string
}

type Handler struct {
	auth     *services.AuthService
	profiles *services.ProfileService
	feed     *services.FeedService
	posts    *services.PostService
	saved    *services.SavedService
	settings *services.SettingsService
	chats    *services.ChatService
	places   *services.PlacesService
	uploader services.Uploader
	hub      *realtime.Hub

	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

func New(d Deps) *Handler {
	h := &Handler{
		auth:     d.Auth,
		profiles: d.Profiles,
		feed:     d.Feed,
		posts:    d.Posts,
		saved:    d.Saved,
		settings: d.Settings,
		chats:    d.Chats,
		places:   d.Places,
		uploader: d.Uploader,
		hub:      d.Hub,
		log:      logrus.WithField("layer", "http"),
	}

	origins := d.AllowedOrigins
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if len(origins) == 0 || origin == "" {
				return true
			}
			for _, o := range origins {
				if strings.EqualFold(strings.TrimSpace(o), origin) {
					return true
				}
			}
			return false
		},
	}
	return h
}

// Health reports that the process is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// decodeJSON reads the body into dst and runs struct validation on it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &utils.ValidationError{Field: "body", Message: "Invalid request body"}
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &utils.ValidationError{Field: "body", Message: "Invalid request body"}
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return &utils.ValidationError{Field: field, Message: field + " is required"}
	case "email":
		return &utils.ValidationError{Field: field, Message: field + " must be a valid email address"}
	case "max":
		return &utils.ValidationError{Field: field, Message: field + " is too long"}
	default:
		return &utils.ValidationError{Field: field, Message: field + " is invalid"}
	}
}

// fail maps err to a status and writes the error envelope. Unexpected errors
// are logged and answered with a static message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *utils.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "You can't do that")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Could not sign in")
	case errors.Is(err, services.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Please sign in to continue.")
	case errors.Is(err, services.ErrEmailTaken):
		writeError(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, services.ErrPlaceLookup):
		writeError(w, http.StatusBadRequest, "Could not look up this place")
	case errors.Is(err, services.ErrUploadsDisabled):
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not available right now")
	default:
		h.log.WithError(err).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			Error("request failed")
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
	}
}
