package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/legitsearch/platform/internal/config"
	"github.com/redis/go-redis/v9"
)

// CounterTTL bounds how long cached counters live without access.
const CounterTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

func (c *RedisCache) Decr(ctx context.Context, key string) (int64, error) {
	return c.Client.Decr(ctx, key).Result()
}

// KeyForLikeCount generates the Redis key for how many users liked userID.
func (c *RedisCache) KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// KeyForUnreadCount generates the Redis key for a user's unread messages.
func (c *RedisCache) KeyForUnreadCount(userID uint64) string {
	return fmt.Sprintf("messages:unread:%d", userID)
}

// GetCounter reads a cached counter. A cache miss is reported via
// ok=false, not an error; TTL is refreshed on hit.
func (c *RedisCache) GetCounter(ctx context.Context, key string) (int64, bool, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat garbage as a miss
	}
	_ = c.Client.Expire(ctx, key, CounterTTL).Err()
	return n, true, nil
}

// SetCounter stores a counter with the standard TTL.
func (c *RedisCache) SetCounter(ctx context.Context, key string, count int64) error {
	return c.Client.Set(ctx, key, count, CounterTTL).Err()
}

var bumpScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("INCRBY", KEYS[1], ARGV[1])
end
return 0
`)

// BumpCounter atomically adjusts an already-populated counter. An
// absent key stays absent so the next read recounts from the source
// instead of trusting a counter that started mid-stream. A plain
// GET-then-SET here would let concurrent bumps overwrite each other.
func (c *RedisCache) BumpCounter(ctx context.Context, key string, delta int64) error {
	return bumpScript.Run(ctx, c.Client, []string{key}, delta).Err()
}
