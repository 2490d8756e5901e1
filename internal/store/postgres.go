package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the durable gateway backend: one row per (scope, key)
// with a JSONB value.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store with a connection pool and
// ensures the backing table exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Postgres{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Postgres) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS tracker_store (
			scope      TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (scope, key)
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Save upserts the JSON-encoded value for (scope, key).
func (s *Postgres) Save(ctx context.Context, scope, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	query := `
		INSERT INTO tracker_store (scope, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scope, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.pool.Exec(ctx, query, scope, key, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", scope, key, err)
	}
	return nil
}

// Load reads and unmarshals the value at (scope, key). A row whose JSON
// no longer unmarshals into dest is cleared and reported as missing.
func (s *Postgres) Load(ctx context.Context, scope, key string, dest any) error {
	query := `SELECT value FROM tracker_store WHERE scope = $1 AND key = $2`

	var data []byte
	err := s.pool.QueryRow(ctx, query, scope, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

// Delete removes the row at (scope, key).
func (s *Postgres) Delete(ctx context.Context, scope, key string) error {
	query := `DELETE FROM tracker_store WHERE scope = $1 AND key = $2`
	if _, err := s.pool.Exec(ctx, query, scope, key); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", scope, key, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Postgres.
func (s *Postgres) Pool() *pgxpool.Pool {
	return s.pool
}
