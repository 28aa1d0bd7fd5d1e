package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qrep/internal/utils"
)

// ExpiredPurger deletes expired entries and reports how many went.
type ExpiredPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// CacheCleanupJob purges expired representation cache entries
type CacheCleanupJob struct {
	cache   ExpiredPurger
	timeout time.Duration
	log     zerolog.Logger
}

// NewCacheCleanupJob creates a new CacheCleanupJob
func NewCacheCleanupJob(cache ExpiredPurger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:   cache,
		timeout: 30 * time.Second,
		log:     zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *CacheCleanupJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Run executes the cache cleanup job
func (j *CacheCleanupJob) Run() error {
	if j.cache == nil {
		return nil
	}

	defer utils.OperationTimer(j.Name(), j.log)()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	deleted, err := j.cache.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired representations: %w", err)
	}

	j.log.Info().
		Int64("deleted", deleted).
		Msg("Cache cleanup completed")

	return nil
}
