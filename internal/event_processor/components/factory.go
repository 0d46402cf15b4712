package components

import (
	"log/slog"

	"github.com/moneyflow-ledger/internal/config"
	"github.com/moneyflow-ledger/internal/domain/activity"
	"github.com/moneyflow-ledger/internal/event_processor/service"
)

// CreateProjectionService wires the activity projection, wrapped in a worker pool when one is configured
func CreateProjectionService(
	activityRepo activity.Repository,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProjectionService {
	baseService := service.NewActivityProjectionService(activityRepo, logger.With("component", "projection"))

	if cfg.WorkerPool.Size <= 0 {
		logger.Warn("Worker pool size not set, projecting events inline")
		return baseService
	}

	workerPoolService, err := service.NewWorkerPoolProjectionService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool projection service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
