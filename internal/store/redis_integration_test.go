package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/testutil"
)

func TestRedisGateway(t *testing.T) {
	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	rds, err := NewRedis(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		if err := rds.Close(); err != nil {
			t.Errorf("close redis: %v", err)
		}
	})

	scope := testutil.UniqueScope("session")

	t.Run("round trip", func(t *testing.T) {
		cfg := model.APIConfig{YouTube: model.YouTubeConfig{APIKey: "integration-key"}}
		if err := rds.Save(ctx, scope, KeyAPIConfig, cfg); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		var loaded model.APIConfig
		if err := rds.Load(ctx, scope, KeyAPIConfig, &loaded); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if loaded.YouTube.APIKey != "integration-key" {
			t.Errorf("loaded = %+v", loaded)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		var dest model.APIConfig
		err := rds.Load(ctx, testutil.UniqueScope("absent"), KeyAPIConfig, &dest)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Load() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := rds.Save(ctx, scope, KeyPrefs, model.Preferences{DarkMode: true}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := rds.Delete(ctx, scope, KeyPrefs); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		var prefs model.Preferences
		if err := rds.Load(ctx, scope, KeyPrefs, &prefs); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load() after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("rate limit bucket", func(t *testing.T) {
		clientID := testutil.UniqueScope("client")

		// Burst of 2 at a very slow refill: third call must be denied.
		var denied bool
		for i := 0; i < 3; i++ {
			result, err := rds.CheckRateLimit(ctx, clientID, 0.01, 2)
			if err != nil {
				t.Fatalf("CheckRateLimit() error = %v", err)
			}
			if !result.Allowed {
				denied = true
				if result.RetryAfter <= 0 {
					t.Error("denied result should carry a retry delay")
				}
			}
		}
		if !denied {
			t.Error("expected third request to be rate limited")
		}
	})
}
