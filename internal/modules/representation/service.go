package representation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/qexpr"
	"github.com/aristath/qrep/internal/utils"
)

// Result is an encoded representation and whether it came from the cache.
type Result struct {
	Payload backend.Payload
	Cached  bool
}

// Service represents expressions through the engine, reading and filling the
// cache when one is configured.
type Service struct {
	engine *Engine
	cache  *Cache
	log    zerolog.Logger
}

// NewService creates a service. cache may be nil.
func NewService(engine *Engine, cache *Cache, log zerolog.Logger) *Service {
	return &Service{
		engine: engine,
		cache:  cache,
		log:    log.With().Str("component", "representation_service").Logger(),
	}
}

// Represent returns the encoded representation of expr. Cache failures are
// logged and otherwise ignored.
func (s *Service) Represent(ctx context.Context, expr qexpr.Expr, opts Options) (Result, error) {
	var key string
	if s.cache != nil {
		key = CacheKey(expr, opts)
		p, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Msg("Cache read failed")
		} else if ok {
			return Result{Payload: p, Cached: true}, nil
		}
	}

	timer := utils.NewTimer("represent", s.log)
	v, err := s.engine.Represent(expr, opts)
	if err != nil {
		return Result{}, err
	}
	p := backend.Encode(v)
	timer.StopWithContext(map[string]interface{}{
		"format": string(opts.Format),
		"kind":   string(p.Kind),
	})

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, expr.String(), p); err != nil {
			s.log.Warn().Err(err).Msg("Cache write failed")
		}
	}
	return Result{Payload: p}, nil
}
