package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/station-microservice/internal/domain"
	"github.com/station-microservice/internal/pkg/errors"
	"github.com/station-microservice/internal/pkg/utils"
	"github.com/station-microservice/internal/pkg/validator"
	"github.com/station-microservice/internal/usecase"
	"github.com/station-microservice/internal/usecase/dto"
)

// StationHandler - обработчик запросов станций
type StationHandler struct {
	stationUC      *usecase.StationUseCase
	availabilityUC *usecase.AvailabilityUseCase
	logger         *zap.Logger
	defaultZoom    int
}

// NewStationHandler создает новый StationHandler
func NewStationHandler(
	stationUC *usecase.StationUseCase,
	availabilityUC *usecase.AvailabilityUseCase,
	logger *zap.Logger,
	defaultZoom int,
) *StationHandler {
	return &StationHandler{
		stationUC:      stationUC,
		availabilityUC: availabilityUC,
		logger:         logger,
		defaultZoom:    defaultZoom,
	}
}

// GetStationsInViewport godoc
// @Summary Станции во вьюпорте карты
// @Description Возвращает заправочные станции внутри области, расширенной на padding (метры), с аннотацией статуса connected fueling.
// @Tags Stations
// @Produce json
// @Param min_lat query number true "Минимальная широта"
// @Param min_lon query number true "Минимальная долгота"
// @Param max_lat query number true "Максимальная широта"
// @Param max_lon query number true "Максимальная долгота"
// @Param padding query number false "Паддинг области в метрах"
// @Param zoom query int false "Zoom level (0-22)"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/stations [get]
func (h *StationHandler) GetStationsInViewport(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.ViewportRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(req); err != nil {
		h.logger.Debug("Viewport request validation failed", zap.Error(err))
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	zoom := h.defaultZoom
	if req.Zoom != nil {
		zoom = *req.Zoom
	}

	region := domain.BoundingBox{
		MinLat: req.MinLat,
		MinLon: req.MinLon,
		MaxLat: req.MaxLat,
		MaxLon: req.MaxLon,
	}

	stations, err := h.stationUC.ByViewport(c.Context(), region, req.Padding, zoom)
	if err != nil {
		h.logger.Error("Failed to resolve viewport stations", zap.Error(err))
		return utils.SendError(c, err)
	}

	annotated := h.availabilityUC.Annotate(c.Context(), stations)

	return utils.SendSuccess(c, dto.StationsFromDomain(annotated), &utils.Meta{
		Total:    len(annotated),
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

// GetStationsBatch godoc
// @Summary Пакетный запрос станций
// @Description Возвращает станции по списку идентификаторов (координаты резолвятся) или по списку пар (id, координата).
// @Tags Stations
// @Accept json
// @Produce json
// @Param request body dto.StationsBatchRequest true "Идентификаторы или пары с координатами"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/stations/batch [post]
func (h *StationHandler) GetStationsBatch(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.StationsBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(req); err != nil {
		h.logger.Debug("Batch request validation failed", zap.Error(err))
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if len(req.IDs) == 0 && len(req.Stations) == 0 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	zoom := h.defaultZoom
	if req.Zoom != nil {
		zoom = *req.Zoom
	}

	var (
		stations []domain.Station
		err      error
	)
	if len(req.Stations) > 0 {
		pairs := make([]domain.StationLocation, len(req.Stations))
		for i, ref := range req.Stations {
			pairs[i] = domain.StationLocation{
				ID:       ref.ID,
				Location: domain.Point{Lat: ref.Lat, Lon: ref.Lon},
			}
		}
		stations, err = h.stationUC.ByIDsWithLocations(c.Context(), pairs, zoom)
	} else {
		stations, err = h.stationUC.ByIDs(c.Context(), req.IDs, zoom)
	}
	if err != nil {
		h.logger.Error("Failed to resolve stations batch", zap.Error(err))
		return utils.SendError(c, err)
	}

	annotated := h.availabilityUC.Annotate(c.Context(), stations)

	return utils.SendSuccess(c, dto.StationsFromDomain(annotated), &utils.Meta{
		Total:    len(annotated),
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

// GetStationByID godoc
// @Summary Одна станция по идентификатору
// @Description Возвращает одну станцию. Если координаты переданы в query, point-lookup пропускается.
// @Tags Stations
// @Produce json
// @Param id path string true "Идентификатор станции"
// @Param zoom query int false "Zoom level (0-22)"
// @Param lat query number false "Известная широта станции"
// @Param lon query number false "Известная долгота станции"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/stations/{id} [get]
func (h *StationHandler) GetStationByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	var req dto.StationByIDRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	zoom := h.defaultZoom
	if req.Zoom != nil {
		zoom = *req.Zoom
	}

	var (
		station *domain.Station
		err     error
	)
	if req.Lat != nil && req.Lon != nil {
		location := domain.Point{Lat: *req.Lat, Lon: *req.Lon}
		station, err = h.stationUC.ByIDWithLocation(c.Context(), id, location, zoom)
	} else {
		station, err = h.stationUC.ByID(c.Context(), id, zoom)
	}
	if err != nil {
		h.logger.Warn("Failed to resolve station",
			zap.String("station_id", id),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	annotated := h.availabilityUC.Annotate(c.Context(), []domain.Station{*station})

	return utils.SendSuccess(c, dto.StationFromDomain(annotated[0]), nil)
}
