package poiapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/station-microservice/internal/config"
	"github.com/station-microservice/internal/domain"
)

func newTestTileClient(baseURL string, maxConcurrent int) *tileClient {
	return NewTileClient(&config.TileConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
		MaxConcurrent:  maxConcurrent,
	}, zap.NewNop()).(*tileClient)
}

func TestTileClient_GetTiles(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches every tile of the query", func(t *testing.T) {
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			fmt.Fprint(w, r.URL.Path)
		}))
		defer server.Close()

		query := domain.TileQuery{
			Zoom: 14,
			Tiles: []domain.TileCoordinate{
				{Z: 14, X: 8718, Y: 5677},
				{Z: 14, X: 8719, Y: 5677},
				{Z: 14, X: 8718, Y: 5678},
			},
		}

		tiles, err := newTestTileClient(server.URL, 2).GetTiles(ctx, query)
		require.NoError(t, err)
		require.Len(t, tiles, 3)
		assert.Equal(t, int32(3), requests.Load())

		// результат сохраняет порядок и координаты запроса
		for i, tile := range tiles {
			assert.Equal(t, query.Tiles[i], tile.Tile)
			want := fmt.Sprintf("/tiles/%d/%d/%d.mvt", tile.Tile.Z, tile.Tile.X, tile.Tile.Y)
			assert.Equal(t, want, string(tile.Payload))
		}
	})

	t.Run("empty query is rejected", func(t *testing.T) {
		_, err := newTestTileClient("http://unused", 2).GetTiles(ctx, domain.TileQuery{Zoom: 14})
		assert.Error(t, err)
	})

	t.Run("single failing tile fails the query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/tiles/14/1/1.mvt" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("ok"))
		}))
		defer server.Close()

		query := domain.TileQuery{
			Zoom: 14,
			Tiles: []domain.TileCoordinate{
				{Z: 14, X: 0, Y: 0},
				{Z: 14, X: 1, Y: 1},
			},
		}

		_, err := newTestTileClient(server.URL, 2).GetTiles(ctx, query)
		assert.Error(t, err)
	})
}
