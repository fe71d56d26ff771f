// Package poiapi - HTTP клиенты тайлового бэкенда POI:
// выборка бинарных тайлов и point-lookup отдельных станций.
package poiapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/station-microservice/internal/config"
	"github.com/station-microservice/internal/domain"
	"github.com/station-microservice/internal/domain/repository"
)

type tileClient struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	maxConcurrent int
	logger        *zap.Logger
}

// NewTileClient создает клиент тайлового бэкенда
func NewTileClient(cfg *config.TileConfig, logger *zap.Logger) repository.TileRepository {
	return &tileClient{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		maxConcurrent: cfg.MaxConcurrent,
		logger:        logger,
	}
}

// GetTiles загружает payload для каждой ячейки запроса. Один TileQuery -
// один логический запрос; ячейки выбираются параллельно с ограничением
// параллелизма, отмена контекста останавливает все выборки.
func (c *tileClient) GetTiles(ctx context.Context, query domain.TileQuery) ([]domain.TileData, error) {
	if len(query.Tiles) == 0 {
		return nil, fmt.Errorf("tile query contains no tiles")
	}

	results := make([]domain.TileData, len(query.Tiles))

	g, gctx := errgroup.WithContext(ctx)
	limit := c.maxConcurrent
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	for i, tile := range query.Tiles {
		g.Go(func() error {
			payload, err := c.fetchTile(gctx, tile)
			if err != nil {
				return err
			}
			results[i] = domain.TileData{Tile: tile, Payload: payload}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("Tile backend query complete",
		zap.Int("zoom", query.Zoom),
		zap.Int("tiles", len(query.Tiles)))

	return results, nil
}

func (c *tileClient) fetchTile(ctx context.Context, tile domain.TileCoordinate) ([]byte, error) {
	url := fmt.Sprintf("%s/tiles/%d/%d/%d.mvt", c.baseURL, tile.Z, tile.X, tile.Y)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/x-protobuf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Tile request failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to execute tile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Tile backend returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("url", url),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("tile backend error: status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tile payload: %w", err)
	}

	c.logger.Debug("Tile fetched",
		zap.Int("zoom", tile.Z),
		zap.Int("x", tile.X),
		zap.Int("y", tile.Y),
		zap.Int("bytes", len(payload)),
		zap.Duration("took", time.Since(start)))

	return payload, nil
}
