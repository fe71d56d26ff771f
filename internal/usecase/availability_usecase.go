package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/station-microservice/internal/domain"
	"github.com/station-microservice/internal/domain/repository"
	"github.com/station-microservice/internal/pkg/utils"
)

// По умолчанию снимок валиден в радиусе 30 км от центра выборки
// и не дольше 60 минут с момента выборки.
const (
	defaultCacheRadiusMeters = 30000.0
	defaultCacheMaxAge       = time.Hour
)

// AvailabilityUseCase держит один снимок фич доступности connected fueling
// и отвечает на point-in-polygon запросы по нему. Снимок заменяется целиком:
// читатели никогда не видят наполовину обновленное состояние и не блокируются
// идущим рефетчем. Конкурентные рефетчи одного центра схлопываются в один
// запрос через singleflight.
type AvailabilityUseCase struct {
	availabilityRepo repository.AvailabilityRepository
	logger           *zap.Logger
	cacheRadius      float64
	cacheMaxAge      time.Duration
	now              func() time.Time

	snapshot atomic.Pointer[domain.FeatureSnapshot]
	refetch  singleflight.Group
}

// NewAvailabilityUseCase создает новый AvailabilityUseCase. Нулевые радиус,
// возраст и clock заменяются значениями по умолчанию.
func NewAvailabilityUseCase(
	availabilityRepo repository.AvailabilityRepository,
	logger *zap.Logger,
	cacheRadius float64,
	cacheMaxAge time.Duration,
	now func() time.Time,
) *AvailabilityUseCase {
	if cacheRadius <= 0 {
		cacheRadius = defaultCacheRadiusMeters
	}
	if cacheMaxAge <= 0 {
		cacheMaxAge = defaultCacheMaxAge
	}
	if now == nil {
		now = time.Now
	}
	return &AvailabilityUseCase{
		availabilityRepo: availabilityRepo,
		logger:           logger,
		cacheRadius:      cacheRadius,
		cacheMaxAge:      cacheMaxAge,
		now:              now,
	}
}

// AppsInRange возвращает фичи доступности, полигоны которых содержат точку.
// Если точка вне радиуса снимка или снимок устарел - рефетч с центром в
// точке. Упавший рефетч при наполненном снимке не инвалидирует кеш: метод
// возвращает результат по устаревшему снимку ВМЕСТЕ с ошибкой рефетча.
func (uc *AvailabilityUseCase) AppsInRange(ctx context.Context, point domain.Point) ([]domain.AvailabilityFeature, error) {
	snap := uc.snapshot.Load()
	if snap != nil && uc.isValid(snap, point) {
		return featuresContaining(snap, point), nil
	}

	fresh, err := uc.refresh(ctx, point)
	if err != nil {
		if snap != nil {
			uc.logger.Warn("Availability refetch failed, serving stale snapshot",
				zap.Time("fetched_at", snap.FetchedAt),
				zap.Error(err))
			return featuresContaining(snap, point), err
		}
		return nil, err
	}

	return featuresContaining(fresh, point), nil
}

// Annotate обогащает станции статусом connected fueling и способами оплаты.
// Сбой поиска по отдельной станции трактуется как отсутствие совпадения;
// пачка целиком не падает никогда.
func (uc *AvailabilityUseCase) Annotate(ctx context.Context, stations []domain.Station) []domain.Station {
	annotated := make([]domain.Station, len(stations))
	copy(annotated, stations)

	for i := range annotated {
		features, err := uc.AppsInRange(ctx, annotated[i].Location)
		if err != nil && len(features) == 0 {
			uc.logger.Warn("Availability lookup failed for station, leaving defaults",
				zap.String("station_id", annotated[i].ID),
				zap.Error(err))
			continue
		}
		if len(features) == 0 {
			continue
		}

		feature := features[0]
		annotated[i].ConnectedFuelingStatus = feature.ConnectedFuelingStatus()
		if kinds := feature.PaymentKinds(); kinds != nil {
			annotated[i].PaymentKinds = kinds
		}
	}

	return annotated
}

// RefreshSnapshot перевыбирает наполненный снимок вокруг его текущего центра.
// Пустой слот не трогается: первый рефетч привязан к первому запросу.
func (uc *AvailabilityUseCase) RefreshSnapshot(ctx context.Context) error {
	snap := uc.snapshot.Load()
	if snap == nil {
		return nil
	}
	_, err := uc.refresh(ctx, snap.Center)
	return err
}

// SnapshotAge возвращает возраст текущего снимка; false - слот пуст
func (uc *AvailabilityUseCase) SnapshotAge() (time.Duration, bool) {
	snap := uc.snapshot.Load()
	if snap == nil {
		return 0, false
	}
	return uc.now().Sub(snap.FetchedAt), true
}

func (uc *AvailabilityUseCase) isValid(snap *domain.FeatureSnapshot, point domain.Point) bool {
	if utils.Distance(point, snap.Center) >= uc.cacheRadius {
		return false
	}
	return uc.now().Sub(snap.FetchedAt) <= uc.cacheMaxAge
}

// refresh выбирает новый снимок с центром в point и атомарно подменяет слот.
// Ключ singleflight - округленный центр: одновременные запросы одной
// области делят один рефетч, далекие центры могут гоняться (побеждает
// последний записавший).
func (uc *AvailabilityUseCase) refresh(ctx context.Context, point domain.Point) (*domain.FeatureSnapshot, error) {
	key := fmt.Sprintf("%.2f:%.2f", point.Lat, point.Lon)

	result, err, _ := uc.refetch.Do(key, func() (any, error) {
		features, err := uc.availabilityRepo.GetFeaturesInRadius(ctx, point, uc.cacheRadius)
		if err != nil {
			return nil, err
		}

		snap := &domain.FeatureSnapshot{
			Features:  features,
			FetchedAt: uc.now(),
			Center:    point,
		}
		uc.snapshot.Store(snap)

		uc.logger.Debug("Availability snapshot replaced",
			zap.Float64("center_lat", point.Lat),
			zap.Float64("center_lon", point.Lon),
			zap.Int("features", len(features)))

		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.FeatureSnapshot), nil
}

// featuresContaining - фичи, полигон которых содержит точку.
// Полигон содержит точку, если она попадает в нечетное число колец
// (even-odd ray casting; дырки отдельно не обрабатываются).
func featuresContaining(snap *domain.FeatureSnapshot, point domain.Point) []domain.AvailabilityFeature {
	var matched []domain.AvailabilityFeature
	for _, feature := range snap.Features {
		if pointInPolygon(point, feature.Polygon) {
			matched = append(matched, feature)
		}
	}
	return matched
}

func pointInPolygon(point domain.Point, polygon [][]domain.Point) bool {
	inside := false
	for _, ring := range polygon {
		if pointInRing(point, ring) {
			inside = !inside
		}
	}
	return inside
}

// pointInRing - стандартный ray casting по горизонтальному лучу.
// Конвенция границ полуоткрытая: точка на нижнем/левом ребре считается
// внутри, на верхнем/правом - снаружи.
func pointInRing(point domain.Point, ring []domain.Point) bool {
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		a, b := ring[i], ring[j]
		if (a.Lat > point.Lat) != (b.Lat > point.Lat) {
			crossLon := (b.Lon-a.Lon)*(point.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lon
			if point.Lon < crossLon {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
