package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPlacesBaseURL is the Google Places web service root.
const DefaultPlacesBaseURL = "https://maps.googleapis.com/maps/api/place"

var detailsFields = strings.Join([]string{
	"name",
	"rating",
	"user_ratings_total",
	"formatted_address",
	"opening_hours",
	"website",
	"url",
}, ",")

// PlaceSuggestion is one autocomplete match.
type PlaceSuggestion struct {
	PlaceID     string `json:"placeId"`
	Description string `json:"description"`
}

// PlaceDetails is the subset of place details the client renders.
type PlaceDetails struct {
	Name          string  `json:"name"`
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"reviewCount"`
	Address       string  `json:"address"`
	Website       string  `json:"website,omitempty"`
	IsOpenNow     *bool   `json:"isOpenNow,omitempty"`
	GoogleMapsURL string  `json:"googleMapsUrl,omitempty"`
}

type autocompleteResponse struct {
	Status      string `json:"status"`
	Predictions []struct {
		PlaceID     string `json:"place_id"`
		Description string `json:"description"`
	} `json:"predictions"`
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Name             string  `json:"name"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		FormattedAddress string  `json:"formatted_address"`
		Website          string  `json:"website"`
		URL              string  `json:"url"`
		OpeningHours     *struct {
			OpenNow *bool `json:"open_now"`
		} `json:"opening_hours"`
	} `json:"result"`
}

// PlacesService proxies café lookups to the places provider.
type PlacesService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	cache   *CacheService
	log     logrus.FieldLogger
}

// NewPlacesService creates the proxy. cache may be nil.
func NewPlacesService(client *http.Client, baseURL, apiKey string, cache *CacheService) *PlacesService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultPlacesBaseURL
	}
	return &PlacesService{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		cache:   cache,
		log:     logrus.WithField("service", "places"),
	}
}

// Autocomplete returns café suggestions for query. An empty query returns no
// suggestions without calling the provider.
func (s *PlacesService) Autocomplete(ctx context.Context, query string) ([]PlaceSuggestion, error) {
	out := []PlaceSuggestion{}
	if strings.TrimSpace(query) == "" {
		return out, nil
	}

	params := url.Values{}
	params.Set("input", query)
	params.Set("types", "cafe")
	params.Set("language", "en")
	params.Set("key", s.apiKey)

	var resp autocompleteResponse
	if err := s.get(ctx, "autocomplete", params, &resp); err != nil {
		return nil, err
	}

	for _, p := range resp.Predictions {
		out = append(out, PlaceSuggestion{PlaceID: p.PlaceID, Description: p.Description})
	}
	return out, nil
}

// Details returns the details of placeID. A non-OK provider status yields ErrPlaceLookup.
func (s *PlacesService) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	cacheKey := CacheKey("place", placeID)
	if s.cache != nil {
		var cached PlaceDetails
		if ok, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			s.log.WithError(err).Warn("failed to read place cache")
		} else if ok {
			return &cached, nil
		}
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)
	params.Set("language", "en")
	params.Set("key", s.apiKey)

	var resp detailsResponse
	if err := s.get(ctx, "details", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		placesRequests.WithLabelValues("details", "rejected").Inc()
		return nil, fmt.Errorf("%w: %s", ErrPlaceLookup, resp.Status)
	}

	r := resp.Result
	d := &PlaceDetails{
		Name:          r.Name,
		Rating:        r.Rating,
		ReviewCount:   r.UserRatingsTotal,
		Address:       r.FormattedAddress,
		Website:       r.Website,
		GoogleMapsURL: r.URL,
	}
	if r.OpeningHours != nil {
		d.IsOpenNow = r.OpeningHours.OpenNow
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, d); err != nil {
			s.log.WithError(err).Warn("failed to cache place details")
		}
	}
	return d, nil
}

func (s *PlacesService) get(ctx context.Context, endpoint string, params url.Values, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+endpoint+"/json?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	res, err := s.client.Do(req)
	if err != nil {
		placesRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("failed to call places %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		placesRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("places %s returned %d", endpoint, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		placesRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("failed to decode places %s: %w", endpoint, err)
	}

	placesRequests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}
