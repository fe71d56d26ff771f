package repository

import (
	"context"

	"github.com/station-microservice/internal/domain"
)

// StationLookupRepository - транспорт point-lookup эндпоинта станции.
// Возвращает статус, координаты (для успешного ответа) и идентификатор
// из Location-заголовка (для redirect-ответа); интерпретация - на резолвере.
type StationLookupRepository interface {
	Lookup(ctx context.Context, id string) (*domain.StationLookup, error)
}
