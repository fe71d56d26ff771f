package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/station-microservice/internal/usecase"
	"github.com/station-microservice/internal/worker"
)

const workerName = "availability-refresh-worker"

// RefreshWorker периодически обновляет снапшот зон доступности,
// чтобы запросы станций не платили за устаревший кэш
type RefreshWorker struct {
	*worker.BaseWorker
	availabilityUC *usecase.AvailabilityUseCase
	interval       time.Duration
}

// NewRefreshWorker создает новый RefreshWorker
func NewRefreshWorker(
	availabilityUC *usecase.AvailabilityUseCase,
	interval time.Duration,
	logger *zap.Logger,
) *RefreshWorker {
	return &RefreshWorker{
		BaseWorker:     worker.NewBaseWorker(workerName, logger),
		availabilityUC: availabilityUC,
		interval:       interval,
	}
}

// Start запускает цикл обновления снапшота
func (w *RefreshWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Logger().Info("Availability refresh worker started",
		zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.Logger().Info("Availability refresh worker context cancelled")
			return ctx.Err()
		case <-w.StopChan():
			w.Logger().Info("Availability refresh worker stopped")
			return nil
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	start := time.Now()

	if err := w.availabilityUC.RefreshSnapshot(ctx); err != nil {
		w.Logger().Warn("Failed to refresh availability snapshot",
			zap.Error(err))
		return
	}

	if age, ok := w.availabilityUC.SnapshotAge(); ok {
		w.Logger().Debug("Availability snapshot refreshed",
			zap.Duration("age", age),
			zap.Duration("took", time.Since(start)))
	}
}
