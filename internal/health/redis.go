package health

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisChecker reports whether the snapshot cache's Redis is reachable.
// It is only wired when a Redis address is configured.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a checker for the given Redis client.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// HealthCheck sends a PING within the context deadline.
func (r *RedisChecker) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
