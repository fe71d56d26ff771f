package poiapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/station-microservice/internal/config"
)

func newTestDetailsClient(baseURL string) *detailsClient {
	return NewDetailsClient(&config.DetailsConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop()).(*detailsClient)
}

func TestDetailsClient_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("success response carries coordinates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/gas-stations/st-1", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"st-1","latitude":48.137,"longitude":11.575}`))
		}))
		defer server.Close()

		lookup, err := newTestDetailsClient(server.URL).Lookup(ctx, "st-1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, lookup.StatusCode)
		require.NotNil(t, lookup.Location)
		assert.Equal(t, 48.137, lookup.Location.Lat)
		assert.Equal(t, 11.575, lookup.Location.Lon)
	})

	t.Run("redirect is surfaced, not followed", func(t *testing.T) {
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.Header().Set("Location", "/gas-stations/canonical?utm_source=feed")
			w.WriteHeader(http.StatusMovedPermanently)
		}))
		defer server.Close()

		lookup, err := newTestDetailsClient(server.URL).Lookup(ctx, "old-id")
		require.NoError(t, err)
		assert.Equal(t, http.StatusMovedPermanently, lookup.StatusCode)
		assert.Equal(t, "canonical", lookup.RedirectID)
		assert.Nil(t, lookup.Location)
		assert.Equal(t, 1, hits)
	})

	t.Run("not found is a transport-level success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		lookup, err := newTestDetailsClient(server.URL).Lookup(ctx, "missing")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, lookup.StatusCode)
		assert.Nil(t, lookup.Location)
		assert.Empty(t, lookup.RedirectID)
	})

	t.Run("undecodable success body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := newTestDetailsClient(server.URL).Lookup(ctx, "st-1")
		assert.Error(t, err)
	})
}

func TestRedirectID(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     string
	}{
		{"absolute path", "/gas-stations/canonical", "canonical"},
		{"full url", "https://api.example.com/gas-stations/canonical", "canonical"},
		{"query is stripped", "/gas-stations/canonical?utm_source=feed", "canonical"},
		{"empty header", "", ""},
		{"bare slash", "/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redirectID(tt.location))
		})
	}
}
