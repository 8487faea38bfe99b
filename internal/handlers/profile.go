package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/coffeemates-backend/internal/middleware"
	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/services"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

// GetUser returns a public profile.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.profiles.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}

// Coffeemates lists the coffeemates of a user.
func (h *Handler) Coffeemates(w http.ResponseWriter, r *http.Request) {
	mates, err := h.profiles.Coffeemates(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"coffeemates": mates,
	})
}

// UpdateProfile saves the signed-in user's editable profile fields.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := r.Context()
	u, err := h.profiles.UpdateProfile(ctx, middleware.UserID(ctx), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}

// UploadAvatar replaces the signed-in user's avatar.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.setImage(w, r, storage.AvatarImage)
}

// UploadCover replaces the signed-in user's cover image.
func (h *Handler) UploadCover(w http.ResponseWriter, r *http.Request) {
	h.setImage(w, r, storage.CoverImage)
}

func (h *Handler) setImage(w http.ResponseWriter, r *http.Request, field storage.ImageField) {
	file, err := readImage(w, r, "image")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer file.Close()

	ctx := r.Context()
	u, err := h.profiles.SetImage(ctx, middleware.UserID(ctx), field, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}

// RemoveCoffeemate drops a coffeemate from the signed-in user's list.
func (h *Handler) RemoveCoffeemate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, err := h.profiles.RemoveCoffeemate(ctx, middleware.UserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}

// CoffeeQuestions returns the profile question catalogue.
func (h *Handler) CoffeeQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"questions": models.CoffeeQuestions,
	})
}

// readImage parses a multipart body and returns the named file.
func readImage(w http.ResponseWriter, r *http.Request, name string) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		return nil, &utils.ValidationError{Field: name, Message: "Invalid form data"}
	}

	file, _, err := r.FormFile(name)
	if err != nil {
		return nil, &utils.ValidationError{Field: name, Message: "No image provided"}
	}
	return file, nil
}
