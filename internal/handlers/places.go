package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/coffeemates-backend/internal/services"
)

type PlacesAutocompleteResponse struct {
	Success     bool                       `json:"success"`
	Suggestions []services.PlaceSuggestion `json:"suggestions"`
}

// PlaceDetailsResponse carries the details at the top level of the body.
type PlaceDetailsResponse struct {
	Success bool `json:"success"`
	*services.PlaceDetails
}

// PlacesAutocomplete suggests cafés for a partial name.
// Query params:
//
//	query (empty returns no suggestions)
func (h *Handler) PlacesAutocomplete(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.places.Autocomplete(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PlacesAutocompleteResponse{Success: true, Suggestions: suggestions})
}

// PlaceDetails returns rating, address and opening state of a café.
func (h *Handler) PlaceDetails(w http.ResponseWriter, r *http.Request) {
	d, err := h.places.Details(r.Context(), chi.URLParam(r, "placeId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PlaceDetailsResponse{Success: true, PlaceDetails: d})
}
