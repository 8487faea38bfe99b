package handlers

import (
	"net/http"

	"github.com/AnshRaj112/coffeemates-backend/internal/services"
)

// GetSettings returns the signed-in user's settings, defaults included.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	us, err := h.settings.Get(r.Context(), u)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"settings": us,
	})
}

// SaveSettings merges the given fields into the stored settings.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var patch services.SettingsPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	us, err := h.settings.Save(r.Context(), u, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Settings saved",
		"settings": us,
	})
}
