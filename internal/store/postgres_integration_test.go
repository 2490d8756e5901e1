package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/testutil"
)

func TestPostgresGateway(t *testing.T) {
	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	pg, err := NewPostgres(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pg.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pg.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("release db lock: %v", err)
		}
	})

	scope := testutil.UniqueScope("session")

	t.Run("round trip", func(t *testing.T) {
		items := []model.ContentItem{testutil.NewTestContent(t, "pg-roundtrip")}
		if err := pg.Save(ctx, scope, KeyContentItems, items); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		var loaded []model.ContentItem
		if err := pg.Load(ctx, scope, KeyContentItems, &loaded); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(loaded) != 1 || loaded[0].Name != "pg-roundtrip" {
			t.Errorf("loaded = %+v", loaded)
		}
	})

	t.Run("upsert replaces", func(t *testing.T) {
		if err := pg.Save(ctx, scope, KeyPrefs, model.Preferences{DarkMode: true}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := pg.Save(ctx, scope, KeyPrefs, model.Preferences{DarkMode: false}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		var prefs model.Preferences
		if err := pg.Load(ctx, scope, KeyPrefs, &prefs); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if prefs.DarkMode {
			t.Error("second save should have replaced the value")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		var dest []model.ContentItem
		err := pg.Load(ctx, testutil.UniqueScope("absent"), KeyContentItems, &dest)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Load() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := pg.Save(ctx, scope, KeyEngagementData, []model.EngagementRecord{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := pg.Delete(ctx, scope, KeyEngagementData); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		var dest []model.EngagementRecord
		if err := pg.Load(ctx, scope, KeyEngagementData, &dest); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load() after delete error = %v, want ErrNotFound", err)
		}
	})
}
