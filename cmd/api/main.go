package main

// @title Station Microservice API
// @version 1.0.0
// @description Микросервис для резолвинга заправочных станций из векторных тайлов. Предоставляет API для получения станций во вьюпорте карты, пакетного запроса по идентификаторам и поиска одной станции, с аннотацией доступности connected fueling.
// @description
// @description Основные возможности:
// @description - Станции во вьюпорте с паддингом в метрах
// @description - Пакетный запрос по идентификаторам или парам (id, координата)
// @description - Одна станция с ограниченной цепочкой редиректов
// @description - Аннотация статуса connected fueling по зонам доступности

// @contact.name API Support
// @contact.email support@station-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/station-microservice/docs"
	"github.com/station-microservice/internal/config"
	httpDelivery "github.com/station-microservice/internal/delivery/http"
	"github.com/station-microservice/internal/delivery/http/handler"
	"github.com/station-microservice/internal/infrastructure/cofu"
	"github.com/station-microservice/internal/infrastructure/poiapi"
	"github.com/station-microservice/internal/pkg/logger"
	"github.com/station-microservice/internal/pkg/mvt"
	"github.com/station-microservice/internal/repository/cache"
	"github.com/station-microservice/internal/usecase"
	"github.com/station-microservice/internal/worker"
	availabilityWorker "github.com/station-microservice/internal/worker/availability"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Station Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 4. Health check
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 5. Initialize Repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	tileRepo := poiapi.NewTileClient(&cfg.Tile, log)
	lookupRepo := poiapi.NewDetailsClient(&cfg.Details, log)
	availabilityRepo := cofu.NewClient(&cfg.Availability, log)

	log.Info("Repositories initialized")

	// 6. Initialize Use Cases
	resolverUC := usecase.NewResolverUseCase(lookupRepo, log)

	stationUC := usecase.NewStationUseCase(
		tileRepo,
		cacheRepo,
		resolverUC,
		mvt.NewDecoder(log),
		log,
		cfg.Cache.TilesCacheTTL,
	)

	availabilityUC := usecase.NewAvailabilityUseCase(
		availabilityRepo,
		log,
		cfg.Availability.CacheRadius,
		cfg.Availability.CacheMaxAge,
		nil,
	)

	log.Info("Use cases initialized")

	// 7. Initialize HTTP Handlers
	stationHandler := handler.NewStationHandler(stationUC, availabilityUC, log, cfg.Tile.DefaultZoom)

	log.Info("HTTP handlers initialized")

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, stationHandler)

	log.Info("HTTP server initialized")

	// 9. Background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var manager *worker.WorkerManager
	if cfg.Worker.Enabled {
		manager = worker.NewWorkerManager(log)
		manager.Register(availabilityWorker.NewRefreshWorker(
			availabilityUC,
			cfg.Worker.RefreshInterval,
			log,
		))
		if err := manager.Start(workerCtx); err != nil {
			log.Error("Failed to start workers", zap.Error(err))
		}
	}

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	// Stop workers
	if manager != nil {
		workerCancel()
		if err := manager.Stop(); err != nil {
			log.Error("Workers shutdown error", zap.Error(err))
		}
	}

	// Close Redis connection
	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
