package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshotCache mirrors the monitor's metrics snapshot into Redis
// for multi-process sharing, adapted from the teacher's RedisClient:
// same prefixed-key, ping-on-construct shape, narrowed to Set/Close
// since the monitor never reads its own snapshot back.
type RedisSnapshotCache struct {
	client *redis.Client
}

// NewRedisSnapshotCache connects to addr and verifies reachability with
// a short-lived ping, matching the teacher's NewRedisClient contract.
func NewRedisSnapshotCache(addr, password string, db int) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisSnapshotCache{client: client}, nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}
