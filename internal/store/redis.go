package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces tracker keys in a shared Redis.
const keyPrefix = "tracker"

// Redis is the secondary gateway backend. It also backs the API rate
// limiter.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis store.
func NewRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Redis{client: client}, nil
}

func redisKey(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, scope, key)
}

// Save stores the JSON-encoded value.
func (s *Redis) Save(ctx context.Context, scope, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(scope, key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", scope, key, err)
	}
	return nil
}

// Load reads and unmarshals the value at (scope, key). Corrupt stored
// JSON clears the key and reports ErrNotFound.
func (s *Redis) Load(ctx context.Context, scope, key string, dest any) error {
	data, err := s.client.Get(ctx, redisKey(scope, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load %s/%s: %w", scope, key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		_ = s.Delete(ctx, scope, key)
		return ErrNotFound
	}
	return nil
}

// Delete removes the value at (scope, key).
func (s *Redis) Delete(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, redisKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", scope, key, err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (s *Redis) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *Redis) Close() error {
	return s.client.Close()
}

// Client returns the underlying Redis client.
// Use sparingly - prefer adding methods to Redis.
func (s *Redis) Client() *redis.Client {
	return s.client
}
