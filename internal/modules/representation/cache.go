package representation

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/database"
	"github.com/aristath/qrep/internal/qexpr"
)

// Cache stores encoded results in the cache database with an expiry.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	log zerolog.Logger
	now func() time.Time
}

// NewCache creates a cache over a migrated cache database.
func NewCache(db *database.DB, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{
		db:  db.Conn(),
		ttl: ttl,
		log: log.With().Str("component", "representation_cache").Logger(),
		now: time.Now,
	}
}

// CacheKey identifies a representation request.
func CacheKey(expr qexpr.Expr, opts Options) string {
	sum := sha256.Sum256([]byte(qexpr.Key(expr) + "|" + opts.Fingerprint()))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached payload for key. Expired entries are misses.
func (c *Cache) Get(ctx context.Context, key string) (backend.Payload, bool, error) {
	var data []byte
	var expiresAt int64
	err := c.db.QueryRowContext(ctx,
		"SELECT payload, expires_at FROM representations WHERE key = ?", key,
	).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return backend.Payload{}, false, nil
	}
	if err != nil {
		return backend.Payload{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if c.now().Unix() >= expiresAt {
		return backend.Payload{}, false, nil
	}

	var p backend.Payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return backend.Payload{}, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return p, true, nil
}

// Put stores p under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key, expr string, p backend.Payload) error {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	now := c.now()
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO representations (id, key, expr, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, uuid.New().String(), key, expr, data, now.Unix(), now.Add(c.ttl).Unix())
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// DeleteExpired removes expired entries and returns how many were removed.
func (c *Cache) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM representations WHERE expires_at <= ?", c.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted cache entries: %w", err)
	}
	if n > 0 {
		c.log.Debug().Int64("deleted", n).Msg("Purged expired representations")
	}
	return n, nil
}

// Count returns the number of stored entries, expired or not.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM representations").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}
