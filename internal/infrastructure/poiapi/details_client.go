package poiapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/station-microservice/internal/config"
	"github.com/station-microservice/internal/domain"
	"github.com/station-microservice/internal/domain/repository"
)

type detailsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewDetailsClient создает клиент point-lookup эндпоинта. Автоматическое
// следование редиректам отключено: канонизацию идентификатора с ограничением
// числа хопов выполняет резолвер.
func NewDetailsClient(cfg *config.DetailsConfig, logger *zap.Logger) repository.StationLookupRepository {
	return &detailsClient{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// тело успешного ответа point-lookup
type stationDetailsBody struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c *detailsClient) Lookup(ctx context.Context, id string) (*domain.StationLookup, error) {
	url := fmt.Sprintf("%s/gas-stations/%s", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Station lookup request failed",
			zap.String("station_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to execute lookup request: %w", err)
	}
	defer resp.Body.Close()

	lookup := &domain.StationLookup{StatusCode: resp.StatusCode}

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		lookup.RedirectID = redirectID(resp.Header.Get("Location"))
		c.logger.Debug("Station lookup redirected",
			zap.String("station_id", id),
			zap.String("redirect_id", lookup.RedirectID))

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var body stationDetailsBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			c.logger.Error("Failed to decode lookup response",
				zap.String("station_id", id),
				zap.Error(err))
			return nil, fmt.Errorf("failed to decode lookup response: %w", err)
		}
		lookup.Location = &domain.Point{Lat: body.Latitude, Lon: body.Longitude}
	}

	return lookup, nil
}

// redirectID извлекает канонический идентификатор станции из
// Location-заголовка redirect-ответа (последний сегмент пути)
func redirectID(location string) string {
	if location == "" {
		return ""
	}
	// query-часть не входит в идентификатор
	if i := strings.IndexByte(location, '?'); i >= 0 {
		location = location[:i]
	}
	id := path.Base(location)
	if id == "." || id == "/" {
		return ""
	}
	return id
}
