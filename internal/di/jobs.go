package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/qrep/internal/config"
	"github.com/aristath/qrep/internal/scheduler"
)

// walCheckpointSchedule runs the passive WAL checkpoint hourly.
const walCheckpointSchedule = "@hourly"

// RegisterJobs creates the maintenance jobs and registers them with the scheduler
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if container.Scheduler == nil {
		return nil, fmt.Errorf("scheduler not initialized")
	}

	instances := &JobInstances{}
	if container.Cache == nil {
		return instances, nil
	}

	cleanup := scheduler.NewCacheCleanupJob(container.Cache)
	cleanup.SetLogger(log.With().Str("job", "cache_cleanup").Logger())
	if err := container.Scheduler.AddJob(cfg.CacheCleanupSchedule, cleanup); err != nil {
		return nil, fmt.Errorf("failed to register cache cleanup job: %w", err)
	}
	instances.CacheCleanup = cleanup

	checkpoint := scheduler.NewWALCheckpointJob(container.CacheDB)
	checkpoint.SetLogger(log.With().Str("job", "wal_checkpoint").Logger())
	if err := container.Scheduler.AddJob(walCheckpointSchedule, checkpoint); err != nil {
		return nil, fmt.Errorf("failed to register WAL checkpoint job: %w", err)
	}
	instances.WALCheckpoint = checkpoint

	return instances, nil
}
