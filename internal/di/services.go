package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/qrep/internal/config"
	"github.com/aristath/qrep/internal/modules/catalog"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/internal/scheduler"
)

// InitializeServices creates the engine, cache, service, catalog and
// scheduler on top of the initialized databases
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	container.Engine = representation.NewEngine(log)

	if container.CacheDB != nil {
		container.Cache = representation.NewCache(container.CacheDB, cfg.CacheTTL, log)
	}

	container.Service = representation.NewService(container.Engine, container.Cache, log)
	container.Catalog = catalog.New()
	container.Scheduler = scheduler.New(log)

	log.Debug().
		Int("catalog_entries", len(container.Catalog.Entries())).
		Bool("cache", container.Cache != nil).
		Msg("Services initialized")

	return nil
}
