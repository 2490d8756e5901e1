// Package testutil provides helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 707707

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetStore truncates the key-value store table for tests.
func ResetStore(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, "TRUNCATE tracker_store"); err != nil {
		return fmt.Errorf("truncate tracker_store: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// NewTestContent creates a content item with sensible defaults.
func NewTestContent(t testing.TB, name string) model.ContentItem {
	t.Helper()
	now := time.Now().UTC()
	return model.ContentItem{
		ID:          fmt.Sprintf("content-%d", now.UnixNano()),
		Name:        name,
		Platform:    model.PlatformOther,
		URL:         "https://example.com/" + name,
		ContentID:   "https://example.com/" + name,
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// NewTestRecord creates an engagement record for a normalized URL.
func NewTestRecord(t testing.TB, contentURL string, views int64, at time.Time) model.EngagementRecord {
	t.Helper()
	return model.EngagementRecord{
		ID:         fmt.Sprintf("rec-%d", at.UnixNano()),
		ContentURL: contentURL,
		Timestamp:  at,
		Views:      views,
		Simulated:  true,
	}
}

// UniqueScope generates a unique persistence scope for tests.
func UniqueScope(prefix string) string {
	return fmt.Sprintf("%s:%d", prefix, time.Now().UnixNano())
}
