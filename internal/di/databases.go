package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/qrep/internal/config"
	"github.com/aristath/qrep/internal/database"
)

// InitializeDatabases opens and migrates the cache database
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	if !cfg.CacheEnabled {
		log.Info().Msg("Result cache disabled, skipping cache database")
		return container, nil
	}

	// cache.db - Representation results (ephemeral, safe to delete)
	cacheDB, err := database.New(database.Config{
		Path:    cfg.CachePath(),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}

	if err := cacheDB.Migrate(); err != nil {
		cacheDB.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}
	container.CacheDB = cacheDB

	log.Info().
		Str("path", cacheDB.Path()).
		Str("profile", string(cacheDB.Profile())).
		Msg("Cache database initialized")

	return container, nil
}
