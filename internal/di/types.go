// Package di provides dependency injection type definitions.
//
// Container holds every long-lived dependency of the service. It is the single
// source of truth for service instances and is passed to the HTTP server.
package di

import (
	"github.com/aristath/qrep/internal/database"
	"github.com/aristath/qrep/internal/modules/catalog"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// CacheDB backs the result cache. Nil when caching is disabled.
	CacheDB *database.DB

	Engine    *representation.Engine
	Cache     *representation.Cache // nil when caching is disabled
	Service   *representation.Service
	Catalog   *catalog.Registry
	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered background jobs so they can be
// triggered manually.
type JobInstances struct {
	CacheCleanup  *scheduler.CacheCleanupJob
	WALCheckpoint *scheduler.WALCheckpointJob
}

// Close releases the databases held by the container.
func (c *Container) Close() error {
	if c == nil || c.CacheDB == nil {
		return nil
	}
	return c.CacheDB.Close()
}
