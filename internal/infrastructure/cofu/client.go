// Package cofu - клиент фида доступности connected fueling.
// Фид отдает GeoJSON-полигоны зон, в которых станции поддерживают
// оплату из приложения.
package cofu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/station-microservice/internal/config"
	"github.com/station-microservice/internal/domain"
	"github.com/station-microservice/internal/domain/repository"
	"github.com/station-microservice/internal/pkg/utils"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient создает клиент фида доступности
func NewClient(cfg *config.AvailabilityConfig, logger *zap.Logger) repository.AvailabilityRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

type featureCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

type geoFeature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// GetFeaturesInRadius загружает фичи доступности вокруг центра.
// Фича включается только если каждая вершина каждого кольца лежит
// в radiusMeters от центра (консервативный префильтр на стороне выборки).
func (c *client) GetFeaturesInRadius(ctx context.Context, center domain.Point, radiusMeters float64) ([]domain.AvailabilityFeature, error) {
	url := fmt.Sprintf("%s/availability?lat=%s&lon=%s&radius=%s",
		c.baseURL,
		strconv.FormatFloat(center.Lat, 'f', -1, 64),
		strconv.FormatFloat(center.Lon, 'f', -1, 64),
		strconv.FormatFloat(radiusMeters, 'f', -1, 64),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Availability feed request failed", zap.Error(err))
		return nil, fmt.Errorf("failed to execute availability request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Availability feed returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("availability feed error: status %d", resp.StatusCode)
	}

	var collection featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		c.logger.Error("Failed to decode availability feed", zap.Error(err))
		return nil, fmt.Errorf("failed to decode availability feed: %w", err)
	}

	features := make([]domain.AvailabilityFeature, 0, len(collection.Features))
	for _, gf := range collection.Features {
		if gf.Geometry.Type != "Polygon" {
			c.logger.Debug("Skipping non-polygon availability feature",
				zap.String("feature_id", gf.ID),
				zap.String("geometry_type", gf.Geometry.Type))
			continue
		}

		polygon := convertRings(gf.Geometry.Coordinates)
		if !allVerticesInRadius(polygon, center, radiusMeters) {
			continue
		}

		features = append(features, domain.AvailabilityFeature{
			ID:         gf.ID,
			Polygon:    polygon,
			Properties: gf.Properties,
		})
	}

	c.logger.Debug("Availability feed fetched",
		zap.Int("total", len(collection.Features)),
		zap.Int("in_radius", len(features)))

	return features, nil
}

// convertRings переводит GeoJSON-кольца ([lon, lat]) в доменные точки
func convertRings(rings [][][]float64) [][]domain.Point {
	polygon := make([][]domain.Point, 0, len(rings))
	for _, ring := range rings {
		points := make([]domain.Point, 0, len(ring))
		for _, coord := range ring {
			if len(coord) < 2 {
				continue
			}
			points = append(points, domain.Point{Lat: coord[1], Lon: coord[0]})
		}
		polygon = append(polygon, points)
	}
	return polygon
}

func allVerticesInRadius(polygon [][]domain.Point, center domain.Point, radiusMeters float64) bool {
	for _, ring := range polygon {
		for _, vertex := range ring {
			if utils.Distance(vertex, center) > radiusMeters {
				return false
			}
		}
	}
	return true
}
