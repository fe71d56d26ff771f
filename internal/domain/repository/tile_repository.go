package repository

import (
	"context"

	"github.com/station-microservice/internal/domain"
)

// TileRepository - транспорт тайлового бэкенда. Возвращает бинарный payload
// для каждой запрошенной ячейки сетки.
type TileRepository interface {
	GetTiles(ctx context.Context, query domain.TileQuery) ([]domain.TileData, error)
}
