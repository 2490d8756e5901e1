package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pulsetrack/pulsetrack/internal/metrics"
)

// Fallback composes two Gateway backends. Writes go to both (the
// secondary keeps a usable copy for when the primary is down); a
// primary failure on either path falls through to the secondary. Only
// total failure of both backends surfaces an error.
type Fallback struct {
	primary   Gateway
	secondary Gateway
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewFallback creates a Fallback gateway.
func NewFallback(primary, secondary Gateway, logger *slog.Logger, recorder metrics.Recorder) *Fallback {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With("component", "store.fallback"),
		metrics:   recorder,
	}
}

// Save writes to the primary and mirrors to the secondary. A secondary
// failure is logged but does not fail the save; a primary failure falls
// back to the secondary alone.
func (f *Fallback) Save(ctx context.Context, scope, key string, value any) error {
	primaryErr := f.primary.Save(ctx, scope, key, value)
	if primaryErr == nil {
		if err := f.secondary.Save(ctx, scope, key, value); err != nil {
			f.logger.Warn("secondary save failed", "scope", scope, "key", key, "error", err)
		}
		return nil
	}

	f.metrics.IncStorageFallback("save")
	f.logger.Warn("primary save failed, using secondary", "scope", scope, "key", key, "error", primaryErr)

	if err := f.secondary.Save(ctx, scope, key, value); err != nil {
		return fmt.Errorf("both backends failed: %w", errors.Join(primaryErr, err))
	}
	return nil
}

// Load reads from the primary. ErrNotFound from the primary is
// authoritative; any other failure falls through to the secondary.
func (f *Fallback) Load(ctx context.Context, scope, key string, dest any) error {
	primaryErr := f.primary.Load(ctx, scope, key, dest)
	if primaryErr == nil || errors.Is(primaryErr, ErrNotFound) {
		return primaryErr
	}

	f.metrics.IncStorageFallback("load")
	f.logger.Warn("primary load failed, using secondary", "scope", scope, "key", key, "error", primaryErr)

	if err := f.secondary.Load(ctx, scope, key, dest); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("both backends failed: %w", errors.Join(primaryErr, err))
	}
	return nil
}

// Delete removes the key from both backends.
func (f *Fallback) Delete(ctx context.Context, scope, key string) error {
	primaryErr := f.primary.Delete(ctx, scope, key)
	secondaryErr := f.secondary.Delete(ctx, scope, key)
	if primaryErr != nil && secondaryErr != nil {
		return fmt.Errorf("both backends failed: %w", errors.Join(primaryErr, secondaryErr))
	}
	return nil
}
