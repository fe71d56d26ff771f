package repository

import (
	"context"

	"github.com/station-microservice/internal/domain"
)

// AvailabilityRepository - транспорт фида доступности connected fueling.
// Возвращает фичи, все вершины полигонов которых лежат в radiusMeters от центра.
type AvailabilityRepository interface {
	GetFeaturesInRadius(ctx context.Context, center domain.Point, radiusMeters float64) ([]domain.AvailabilityFeature, error)
}
