package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

func TestExportImportReplace(t *testing.T) {
	t.Parallel()

	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.AddContent(ctx, "session:src", AddContentInput{
		Name: "A", Platform: model.PlatformOther, URL: "https://example.com/a",
	}); err != nil {
		t.Fatalf("AddContent() error = %v", err)
	}
	if _, err := tracker.RefreshAll(ctx, "session:src"); err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}

	file := tracker.Export(ctx, "session:src")
	if file.Type != model.ExportType {
		t.Errorf("Type = %q, want %q", file.Type, model.ExportType)
	}
	if file.Version != model.ExportVersion {
		t.Errorf("Version = %q, want %q", file.Version, model.ExportVersion)
	}
	if len(file.Data.ContentItems) != 1 || len(file.Data.EngagementData) != 1 {
		t.Fatalf("export data = %d items / %d records, want 1/1",
			len(file.Data.ContentItems), len(file.Data.EngagementData))
	}

	// Replace wipes the destination's prior state.
	if _, err := tracker.AddContent(ctx, "session:dst", AddContentInput{
		Name: "Stale", Platform: model.PlatformOther, URL: "https://example.com/stale",
	}); err != nil {
		t.Fatalf("AddContent() error = %v", err)
	}
	result, err := tracker.Import(ctx, "session:dst", file, model.ImportReplace)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.ContentItems != 1 || result.EngagementRecords != 1 {
		t.Errorf("import result = %+v, want 1 item / 1 record", result)
	}

	items := tracker.ListContent(ctx, "session:dst")
	if len(items) != 1 || items[0].Name != "A" {
		t.Errorf("destination items = %+v, want single imported item", items)
	}
}

func TestImportMerge(t *testing.T) {
	t.Parallel()

	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()
	scope := "session:dst"

	local, err := tracker.AddContent(ctx, scope, AddContentInput{
		Name: "Local", Platform: model.PlatformOther, URL: "https://example.com/local",
	})
	if err != nil {
		t.Fatalf("AddContent() error = %v", err)
	}
	if _, err := tracker.RefreshAll(ctx, scope); err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if err := tracker.SaveAPIConfig(ctx, scope, model.APIConfig{
		YouTube: model.YouTubeConfig{APIKey: "local-key"},
	}); err != nil {
		t.Fatalf("SaveAPIConfig() error = %v", err)
	}

	file := &model.ExportFile{
		Type:    model.ExportType,
		Version: model.ExportVersion,
		Data: model.ExportData{
			APIConfig: model.APIConfig{
				ServiceNow: model.ServiceNowConfig{Instance: "dev12345"},
			},
			ContentItems: []model.ContentItem{
				{ID: local.ID, Name: "Local renamed", Platform: model.PlatformOther, URL: "https://example.com/local"},
				{ID: "incoming-1", Name: "Incoming", Platform: model.PlatformOther, URL: "https://example.com/incoming"},
				{ID: "incoming-2", Name: "URL dupe", Platform: model.PlatformOther, URL: "https://example.com/local/"},
			},
			EngagementData: []model.EngagementRecord{
				{ID: "r1", ContentURL: "https://example.com/incoming", Views: 7},
			},
		},
	}

	result, err := tracker.Import(ctx, scope, file, model.ImportMerge)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	// Incoming wins by ID; the URL-level duplicate is dropped.
	if result.ContentItems != 2 {
		t.Errorf("merged items = %d, want 2", result.ContentItems)
	}
	items := tracker.ListContent(ctx, scope)
	names := make(map[string]bool, len(items))
	for _, item := range items {
		names[item.Name] = true
	}
	if !names["Local renamed"] || !names["Incoming"] || names["URL dupe"] {
		t.Errorf("merged names = %v", names)
	}

	// Engagement histories concatenate.
	if result.EngagementRecords != 2 {
		t.Errorf("merged records = %d, want 2", result.EngagementRecords)
	}

	// API config is a shallow merge; untouched fields survive.
	cfg := tracker.LoadAPIConfig(ctx, scope)
	if cfg.YouTube.APIKey != "local-key" || cfg.ServiceNow.Instance != "dev12345" {
		t.Errorf("merged config = %+v", cfg)
	}
}

func TestImportRejectsBadInput(t *testing.T) {
	t.Parallel()

	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	if _, err := tracker.Import(ctx, "session:x", &model.ExportFile{Type: "something-else"}, model.ImportReplace); !errors.Is(err, ErrInvalidExportFile) {
		t.Errorf("Import(bad type) error = %v, want ErrInvalidExportFile", err)
	}
	if _, err := tracker.Import(ctx, "session:x", nil, model.ImportReplace); !errors.Is(err, ErrInvalidExportFile) {
		t.Errorf("Import(nil) error = %v, want ErrInvalidExportFile", err)
	}
	file := &model.ExportFile{Type: model.ExportType, Version: model.ExportVersion}
	if _, err := tracker.Import(ctx, "session:x", file, "append"); !errors.Is(err, ErrInvalidImportMode) {
		t.Errorf("Import(bad mode) error = %v, want ErrInvalidImportMode", err)
	}
}
