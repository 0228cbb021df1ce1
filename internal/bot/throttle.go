package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Throttler limits how often a user may trigger an action.
type Throttler interface {
	Allow(ctx context.Context, action string, telegramID int64) (bool, error)
}

// RedisThrottle lets one call per key through every TTL.
type RedisThrottle struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisThrottle(rdb *redis.Client, ttl time.Duration) *RedisThrottle {
	return &RedisThrottle{Redis: rdb, TTL: ttl}
}

func (t *RedisThrottle) Allow(ctx context.Context, action string, telegramID int64) (bool, error) {
	return t.Redis.SetNX(ctx, throttleKey(action, telegramID), "1", t.TTL).Result()
}

func throttleKey(action string, telegramID int64) string {
	return fmt.Sprintf("throttle_%s_%d", action, telegramID)
}

type noThrottle struct{}

func (noThrottle) Allow(context.Context, string, int64) (bool, error) { return true, nil }
