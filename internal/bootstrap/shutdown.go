package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/killwatch/internal/logger"
	"github.com/osse101/killwatch/internal/scheduler"
	"github.com/osse101/killwatch/internal/worker"
)

// ShutdownComponents holds everything that outlives the ingest loop
type ShutdownComponents struct {
	Scheduler *scheduler.Scheduler
	SweepPool *worker.Pool
	AlertPool *worker.Pool
	Redis     *redis.Client
	DB        *pgxpool.Pool
}

// GracefulShutdown stops components in dependency order once the ingest loop
// and HTTP server have returned:
// 1. Scheduler and sweep pool (no new sweeps)
// 2. Alert pool (queued alerts are still delivered)
// 3. Redis and Postgres
func GracefulShutdown(components ShutdownComponents) {
	if components.Scheduler != nil {
		logger.Info(LogMsgStoppingScheduler)
		components.Scheduler.Stop()
	}
	if components.SweepPool != nil {
		components.SweepPool.Stop()
	}

	if components.AlertPool != nil {
		logger.Info(LogMsgDrainingAlertQueue)
		components.AlertPool.Stop()
	}

	if components.Redis != nil {
		logger.Info(LogMsgClosingRedis)
		if err := components.Redis.Close(); err != nil {
			logger.Error(LogMsgRedisCloseFailed, "error", err)
		}
	}

	if components.DB != nil {
		logger.Info(LogMsgClosingDatabase)
		components.DB.Close()
	}

	logger.Info(LogMsgShutdownComplete)
}
