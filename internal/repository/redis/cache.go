package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/uxbench/uxbench/internal/benchmark"
	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/domain"
)

// Cache provides Redis caching functionality
type Cache struct {
	client    *redis.Client
	resultTTL time.Duration
}

// Key prefixes for different cache types
const (
	PrefixRun       = "run:"
	PrefixResult    = "result:"
	PrefixRateLimit = "ratelimit:"
)

// Default TTLs
const (
	DefaultTTL      = 15 * time.Minute
	RateLimitWindow = 1 * time.Minute
)

// New creates a new Redis cache client
func New(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Cache{client: client, resultTTL: cfg.ResultTTL}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Health checks Redis connectivity
func (c *Cache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Client returns the underlying Redis client for advanced operations
func (c *Cache) Client() *redis.Client {
	return c.client
}

// Run status caching

// GetRunStatus retrieves a cached run status
func (c *Cache) GetRunStatus(ctx context.Context, id uuid.UUID) (domain.RunStatus, error) {
	key := PrefixRun + id.String() + ":status"
	status, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}

	return domain.RunStatus(status), nil
}

// SetRunStatus caches a run status
func (c *Cache) SetRunStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus) error {
	key := PrefixRun + id.String() + ":status"
	return c.client.Set(ctx, key, string(status), DefaultTTL).Err()
}

// Result caching: completed benchmark results are immutable, so they cache
// well and spare the database the large JSONB reads.

// GetResult retrieves a cached benchmark result
func (c *Cache) GetResult(ctx context.Context, id uuid.UUID) (*benchmark.Result, error) {
	key := PrefixResult + id.String()
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var result benchmark.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// SetResult caches a completed benchmark result
func (c *Cache) SetResult(ctx context.Context, id uuid.UUID, result *benchmark.Result) error {
	key := PrefixResult + id.String()
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, c.resultTTL).Err()
}

// InvalidateRun removes every cached key for a run, both its result and any
// status entries. Called when the run itself is deleted.
func (c *Cache) InvalidateRun(ctx context.Context, id uuid.UUID) error {
	if err := c.Delete(ctx, PrefixResult+id.String()); err != nil {
		return err
	}
	return c.DeletePattern(ctx, PrefixRun+id.String()+":*")
}

// Rate limiting

// CheckRateLimit checks and increments rate limit counter
func (c *Cache) CheckRateLimit(ctx context.Context, key string, limit int) (bool, int, error) {
	fullKey := PrefixRateLimit + key

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, RateLimitWindow)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	return count <= limit, count, nil
}

// Delete removes a value from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeletePattern removes all keys matching a pattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}

	return nil
}
