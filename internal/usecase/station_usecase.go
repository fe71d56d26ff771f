package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/station-microservice/internal/domain"
	"github.com/station-microservice/internal/domain/repository"
	"github.com/station-microservice/internal/pkg/errors"
	"github.com/station-microservice/internal/pkg/mvt"
	"github.com/station-microservice/internal/pkg/projection"
	"github.com/station-microservice/internal/pkg/utils"
)

const (
	minZoom = 0
	maxZoom = 22
)

// StationUseCase - верхнеуровневый оркестратор тайловых запросов: вьюпорт
// или набор идентификаторов превращается в запрос к тайловой сетке, ответ
// декодируется и фильтруется по форме исходного запроса. Состояния нет,
// каждый вызов независим и может быть повторен вызывающей стороной.
type StationUseCase struct {
	tileRepo     repository.TileRepository
	cacheRepo    repository.CacheRepository
	resolver     *ResolverUseCase
	decoder      *mvt.Decoder
	logger       *zap.Logger
	tileCacheTTL time.Duration
	now          func() time.Time
}

// NewStationUseCase создает новый StationUseCase
func NewStationUseCase(
	tileRepo repository.TileRepository,
	cacheRepo repository.CacheRepository,
	resolver *ResolverUseCase,
	decoder *mvt.Decoder,
	logger *zap.Logger,
	tileCacheTTL time.Duration,
) *StationUseCase {
	return &StationUseCase{
		tileRepo:     tileRepo,
		cacheRepo:    cacheRepo,
		resolver:     resolver,
		decoder:      decoder,
		logger:       logger,
		tileCacheTTL: tileCacheTTL,
		now:          time.Now,
	}
}

// ByViewport возвращает станции внутри вьюпорта, расширенного на paddingMeters
func (uc *StationUseCase) ByViewport(ctx context.Context, region domain.BoundingBox, paddingMeters float64, zoom int) ([]domain.Station, error) {
	if zoom < minZoom || zoom > maxZoom {
		return nil, errors.ErrInvalidZoom
	}
	if !utils.ValidateBoundingBox(region) {
		return nil, errors.ErrInvalidCoordinates
	}
	if paddingMeters < 0 {
		return nil, errors.ErrInvalidPadding
	}

	padded := utils.ExpandBoundingBox(region, paddingMeters)
	query := domain.TileQuery{
		Zoom:  zoom,
		Tiles: projection.TilesForBoundingBox(padded, zoom),
	}

	stations, err := uc.fetchAndDecode(ctx, query)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("Viewport resolved",
		zap.Int("zoom", zoom),
		zap.Int("tiles", len(query.Tiles)),
		zap.Int("stations", len(stations)))

	return stations, nil
}

// ByIDs резолвит координаты каждого идентификатора параллельно и возвращает
// станции из тайлового ответа, отфильтрованные по запрошенному набору.
// Частичные сбои резолвинга терпимы: упавшие идентификаторы молча
// выпадают из набора; если упали все - возвращается первая ошибка пачки.
func (uc *StationUseCase) ByIDs(ctx context.Context, ids []string, zoom int) ([]domain.Station, error) {
	// Zoom проверяется до фан-аута: обреченный запрос не должен
	// оплачивать резолвинг координат
	if zoom < minZoom || zoom > maxZoom {
		return nil, errors.ErrInvalidZoom
	}
	if len(ids) == 0 {
		return nil, errors.ErrInvalidRequest
	}

	resolved := make([]*domain.StationLocation, len(ids))
	resolveErrs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			point, err := uc.resolver.Resolve(gctx, id)
			if err != nil {
				// Частичный сбой не прерывает остальные резолвинги
				resolveErrs[i] = err
				uc.logger.Warn("Dropping station from batch: resolve failed",
					zap.String("station_id", id),
					zap.Error(err))
				return nil
			}
			resolved[i] = &domain.StationLocation{ID: id, Location: point}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pairs := make([]domain.StationLocation, 0, len(ids))
	for _, r := range resolved {
		if r != nil {
			pairs = append(pairs, *r)
		}
	}

	if len(pairs) == 0 {
		for _, err := range resolveErrs {
			if err != nil {
				return nil, err
			}
		}
		return nil, errors.ErrInternalServer
	}

	return uc.ByIDsWithLocations(ctx, pairs, zoom)
}

// ByIDsWithLocations - как ByIDs, но координаты уже известны вызывающей
// стороне и резолвинг пропускается
func (uc *StationUseCase) ByIDsWithLocations(ctx context.Context, pairs []domain.StationLocation, zoom int) ([]domain.Station, error) {
	if zoom < minZoom || zoom > maxZoom {
		return nil, errors.ErrInvalidZoom
	}
	if len(pairs) == 0 {
		return nil, errors.ErrInvalidRequest
	}

	points := make([]domain.Point, len(pairs))
	requested := make(map[string]struct{}, len(pairs))
	for i, pair := range pairs {
		points[i] = pair.Location
		requested[pair.ID] = struct{}{}
	}

	query := domain.TileQuery{
		Zoom:  zoom,
		Tiles: projection.TilesForPoints(points, zoom),
	}

	stations, err := uc.fetchAndDecode(ctx, query)
	if err != nil {
		return nil, err
	}

	// Тайл может содержать соседние станции, которых никто не запрашивал
	filtered := stations[:0]
	for _, station := range stations {
		if _, ok := requested[station.ID]; ok {
			filtered = append(filtered, station)
		}
	}

	return filtered, nil
}

// ByID - единичная форма ByIDs; успешна только если запрошенный
// идентификатор присутствует в отфильтрованном результате
func (uc *StationUseCase) ByID(ctx context.Context, id string, zoom int) (*domain.Station, error) {
	stations, err := uc.ByIDs(ctx, []string{id}, zoom)
	if err != nil {
		return nil, err
	}
	return pickStation(stations, id)
}

// ByIDWithLocation - единичная форма ByIDsWithLocations
func (uc *StationUseCase) ByIDWithLocation(ctx context.Context, id string, location domain.Point, zoom int) (*domain.Station, error) {
	stations, err := uc.ByIDsWithLocations(ctx, []domain.StationLocation{{ID: id, Location: location}}, zoom)
	if err != nil {
		return nil, err
	}
	return pickStation(stations, id)
}

func pickStation(stations []domain.Station, id string) (*domain.Station, error) {
	for i := range stations {
		if stations[i].ID == id {
			return &stations[i], nil
		}
	}
	return nil, errors.StationNotFound(id)
}

// fetchAndDecode выбирает payload'ы тайлов (через кеш) и декодирует их
// в дедуплицированный список станций
func (uc *StationUseCase) fetchAndDecode(ctx context.Context, query domain.TileQuery) ([]domain.Station, error) {
	tiles, err := uc.fetchTiles(ctx, query)
	if err != nil {
		return nil, err
	}

	resolvedAt := uc.now()
	seen := make(map[string]struct{})
	var stations []domain.Station

	for _, tile := range tiles {
		decoded, err := uc.decoder.Decode(tile.Payload, tile.Tile)
		if err != nil {
			uc.logger.Error("Failed to decode tile",
				zap.Int("zoom", tile.Tile.Z),
				zap.Int("x", tile.Tile.X),
				zap.Int("y", tile.Tile.Y),
				zap.Error(err))
			return nil, errors.ErrTileDecode
		}
		for _, station := range decoded {
			if _, ok := seen[station.ID]; ok {
				continue
			}
			seen[station.ID] = struct{}{}
			station.ResolvedAt = resolvedAt
			stations = append(stations, station)
		}
	}

	return stations, nil
}

// fetchTiles реализует cache-aside поверх тайлового транспорта: сперва Redis,
// затем один запрос к бэкенду за недостающими ячейками. Ошибки кеша
// логируются и не прерывают запрос.
func (uc *StationUseCase) fetchTiles(ctx context.Context, query domain.TileQuery) ([]domain.TileData, error) {
	cached := make([]domain.TileData, 0, len(query.Tiles))
	missing := make([]domain.TileCoordinate, 0, len(query.Tiles))

	for _, tile := range query.Tiles {
		payload, err := uc.cacheRepo.GetTile(ctx, tile.Z, tile.X, tile.Y)
		if err == nil && len(payload) > 0 {
			cached = append(cached, domain.TileData{Tile: tile, Payload: payload})
			continue
		}
		missing = append(missing, tile)
	}

	if len(missing) == 0 {
		return cached, nil
	}

	fetched, err := uc.tileRepo.GetTiles(ctx, domain.TileQuery{Zoom: query.Zoom, Tiles: missing})
	if err != nil {
		uc.logger.Error("Tile backend query failed",
			zap.Int("zoom", query.Zoom),
			zap.Int("missing", len(missing)),
			zap.Error(err))
		return nil, err
	}

	for _, tile := range fetched {
		if err := uc.cacheRepo.SetTile(ctx, tile.Tile.Z, tile.Tile.X, tile.Tile.Y, tile.Payload, uc.tileCacheTTL); err != nil {
			uc.logger.Warn("Failed to cache tile",
				zap.Int("zoom", tile.Tile.Z),
				zap.Int("x", tile.Tile.X),
				zap.Int("y", tile.Tile.Y),
				zap.Error(err))
		}
	}

	return append(cached, fetched...), nil
}
