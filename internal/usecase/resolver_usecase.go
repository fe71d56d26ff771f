package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/station-microservice/internal/domain"
	"github.com/station-microservice/internal/domain/repository"
	"github.com/station-microservice/internal/pkg/errors"
)

// maxLookupAttempts - предел цепочки редиректов на канонический идентификатор.
// После трех запросов четвертый не выполняется.
const maxLookupAttempts = 3

// ResolverUseCase резолвит координаты одной станции по идентификатору.
// Единственный компонент, интерпретирующий HTTP-статусы point-lookup эндпоинта.
type ResolverUseCase struct {
	lookupRepo repository.StationLookupRepository
	logger     *zap.Logger
}

// NewResolverUseCase создает новый ResolverUseCase
func NewResolverUseCase(lookupRepo repository.StationLookupRepository, logger *zap.Logger) *ResolverUseCase {
	return &ResolverUseCase{
		lookupRepo: lookupRepo,
		logger:     logger,
	}
}

// Resolve возвращает координаты станции, следуя ограниченной цепочке
// редиректов на канонический идентификатор
func (uc *ResolverUseCase) Resolve(ctx context.Context, id string) (domain.Point, error) {
	current := id

	for attempt := 0; attempt < maxLookupAttempts; attempt++ {
		lookup, err := uc.lookupRepo.Lookup(ctx, current)
		if err != nil {
			uc.logger.Error("Station lookup transport failed",
				zap.String("station_id", current),
				zap.Error(err))
			return domain.Point{}, err
		}

		switch {
		case lookup.StatusCode >= 200 && lookup.StatusCode < 300:
			if lookup.Location == nil {
				return domain.Point{}, errors.StationNotFound(current)
			}
			return *lookup.Location, nil

		case lookup.StatusCode >= 300 && lookup.StatusCode < 400:
			if lookup.RedirectID == "" {
				uc.logger.Warn("Station lookup redirect without target id",
					zap.String("station_id", current),
					zap.Int("status_code", lookup.StatusCode))
				return domain.Point{}, errors.ErrMalformedRedirect
			}
			uc.logger.Debug("Following station redirect",
				zap.String("from", current),
				zap.String("to", lookup.RedirectID),
				zap.Int("attempt", attempt+1))
			current = lookup.RedirectID

		default:
			return domain.Point{}, errors.StationNotFound(current)
		}
	}

	uc.logger.Warn("Station lookup exceeded redirect limit",
		zap.String("station_id", id),
		zap.Int("max_attempts", maxLookupAttempts))
	return domain.Point{}, errors.ErrTooManyRedirects
}
