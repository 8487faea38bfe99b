package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlacesUpstream(t *testing.T, calls *int32) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/autocomplete/json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		q := r.URL.Query()
		assert.Equal(t, "cafe", q.Get("types"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "test-key", q.Get("key"))
		_, _ = w.Write([]byte(`{"status":"OK","predictions":[{"place_id":"p1","description":"Cafe Berlin, Neukölln"}]}`))
	})
	mux.HandleFunc("/details/json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		q := r.URL.Query()
		if q.Get("place_id") != "p1" {
			_, _ = w.Write([]byte(`{"status":"INVALID_REQUEST"}`))
			return
		}
		assert.Equal(t, "name,rating,user_ratings_total,formatted_address,opening_hours,website,url", q.Get("fields"))
		_, _ = w.Write([]byte(`{"status":"OK","result":{"name":"Cafe Berlin","rating":4.6,"user_ratings_total":210,
			"formatted_address":"Weserstr. 1, Berlin","opening_hours":{"open_now":true},"url":"https://maps.google.com/?cid=1"}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPlacesService_Autocomplete(t *testing.T) {
	var calls int32
	srv := newPlacesUpstream(t, &calls)
	s := NewPlacesService(srv.Client(), srv.URL, "test-key", nil)

	got, err := s.Autocomplete(context.Background(), "cafe ber")
	require.NoError(t, err)
	assert.Equal(t, []PlaceSuggestion{{PlaceID: "p1", Description: "Cafe Berlin, Neukölln"}}, got)

	got, err = s.Autocomplete(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestPlacesService_Details(t *testing.T) {
	var calls int32
	srv := newPlacesUpstream(t, &calls)
	s := NewPlacesService(srv.Client(), srv.URL, "test-key", NewCacheService(newMemKV()))

	d, err := s.Details(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cafe Berlin", d.Name)
	assert.Equal(t, 210, d.ReviewCount)
	assert.Equal(t, "Weserstr. 1, Berlin", d.Address)
	require.NotNil(t, d.IsOpenNow)
	assert.True(t, *d.IsOpenNow)
	assert.Empty(t, d.Website)

	cached, err := s.Details(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, d, cached)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestPlacesService_DetailsRejected(t *testing.T) {
	var calls int32
	srv := newPlacesUpstream(t, &calls)
	s := NewPlacesService(srv.Client(), srv.URL, "test-key", nil)

	_, err := s.Details(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrPlaceLookup)
}
