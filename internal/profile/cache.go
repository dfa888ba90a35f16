package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// snapshotKey is the Redis key holding the cached candidate pool JSON.
const snapshotKey = "wandertogether:profiles:snapshot"

// DefaultSnapshotTTL bounds how stale a cached pool can get before the
// next ranking call refreshes it from the repository.
const DefaultSnapshotTTL = 5 * time.Minute

// SnapshotCache caches the candidate pool in Redis in front of a
// Repository. A cache miss or any Redis failure falls back to the
// repository; the cache is an optimization, never a source of truth.
type SnapshotCache struct {
	client *redis.Client
	repo   Repository
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotCache creates a snapshot cache over the given repository.
// A zero ttl uses DefaultSnapshotTTL.
func NewSnapshotCache(client *redis.Client, repo Repository, ttl time.Duration, logger *slog.Logger) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotCache{
		client: client,
		repo:   repo,
		ttl:    ttl,
		logger: logger,
	}
}

// List returns the candidate pool, preferring the cached snapshot. On a
// miss the pool is loaded from the repository and written back with TTL.
func (c *SnapshotCache) List(ctx context.Context) ([]Candidate, error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	switch {
	case err == nil:
		var pool []Candidate
		if uerr := json.Unmarshal(data, &pool); uerr == nil {
			return pool, nil
		} else {
			c.logger.Warn("discarding corrupt profile snapshot", "error", uerr)
		}
	case err != redis.Nil:
		c.logger.Warn("profile snapshot cache unavailable", "error", err)
	}

	pool, err := c.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile pool: %w", err)
	}

	if data, err := json.Marshal(pool); err == nil {
		if err := c.client.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache profile snapshot", "error", err)
		}
	}

	return pool, nil
}

// Get delegates to the repository. Single-profile reads bypass the
// snapshot so a fresh upsert is visible immediately.
func (c *SnapshotCache) Get(ctx context.Context, id int64) (*Candidate, error) {
	return c.repo.Get(ctx, id)
}

// Upsert writes through to the repository and invalidates the snapshot.
func (c *SnapshotCache) Upsert(ctx context.Context, cand *Candidate) error {
	if err := c.repo.Upsert(ctx, cand); err != nil {
		return err
	}
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		c.logger.Warn("failed to invalidate profile snapshot", "error", err)
	}
	return nil
}
