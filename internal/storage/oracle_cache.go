// Package storage provides SQLite-backed persistence for oracle judgments,
// so repeated analyses of the same content skip the external call across
// process restarts.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"github.com/cleanfeed/sifter/internal/model"
)

const oracleCacheSchema = `
CREATE TABLE IF NOT EXISTS oracle_cache (
	key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_oracle_cache_expires ON oracle_cache(expires_at);
`

// OracleCache is a durable TTL cache of context judgments keyed by prompt
// hash. Safe for concurrent use; database/sql serializes access.
type OracleCache struct {
	db     *sql.DB
	logger *slog.Logger
	ttl    time.Duration
}

// NewOracleCache opens (creating if needed) the cache database at path.
// A TTL of 0 defaults to 7 days.
func NewOracleCache(path string, ttl time.Duration, logger *slog.Logger) (*OracleCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec(oracleCacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &OracleCache{db: db, logger: logger, ttl: ttl}, nil
}

// Get returns the cached judgment for key if present and unexpired.
func (c *OracleCache) Get(ctx context.Context, key string) (model.ContextResult, bool, error) {
	var payload string
	var expiresAt time.Time

	err := c.db.QueryRowContext(ctx,
		"SELECT payload, expires_at FROM oracle_cache WHERE key = ?", key,
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContextResult{}, false, nil
	}
	if err != nil {
		return model.ContextResult{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if time.Now().After(expiresAt) {
		return model.ContextResult{}, false, nil
	}

	var result model.ContextResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		// A corrupt row is treated as a miss so it gets overwritten.
		c.logger.Warn("corrupt oracle cache entry", "key", key, "error", err)
		return model.ContextResult{}, false, nil
	}

	return result, true, nil
}

// Put stores or replaces the judgment for key.
func (c *OracleCache) Put(ctx context.Context, key string, result model.ContextResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	now := time.Now()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO oracle_cache (key, payload, created_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload,
		 created_at = excluded.created_at, expires_at = excluded.expires_at`,
		key, string(payload), now, now.Add(c.ttl))
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

// Prune deletes expired entries and returns how many were removed.
func (c *OracleCache) Prune(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		"DELETE FROM oracle_cache WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}

	if removed > 0 {
		c.logger.Debug("pruned expired oracle cache entries", "removed", removed)
	}
	return removed, nil
}

// Len returns the number of stored entries, expired or not.
func (c *OracleCache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM oracle_cache").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (c *OracleCache) Close() error {
	return c.db.Close()
}
