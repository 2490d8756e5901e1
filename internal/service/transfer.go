package service

import (
	"context"
	"errors"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/normalize"
)

// Transfer errors.
var (
	ErrInvalidExportFile = errors.New("not a recognized export file")
	ErrInvalidImportMode = errors.New("import mode must be replace or merge")
)

// Export bundles the scope's content, engagement history and API
// configuration into a portable document. Credentials are exported
// as-is: the file is a full backup, not a redacted view.
func (t *Tracker) Export(ctx context.Context, scope string) *model.ExportFile {
	file := &model.ExportFile{
		Type:      model.ExportType,
		Version:   model.ExportVersion,
		Timestamp: t.now().UTC(),
		SessionID: scope,
		Data: model.ExportData{
			APIConfig:      t.LoadAPIConfig(ctx, scope),
			ContentItems:   t.loadContent(ctx, scope),
			EngagementData: t.loadEngagement(ctx, scope),
		},
	}
	t.metrics.IncExport()
	return file
}

// ImportResult reports what an import applied.
type ImportResult struct {
	Mode              model.ImportMode `json:"mode"`
	ContentItems      int              `json:"contentItems"`
	EngagementRecords int              `json:"engagementRecords"`
}

// Import applies an export file to the scope. Replace overwrites all
// three collections; merge unions content by ID with incoming items
// winning, deduplicates merged items by normalized URL, concatenates
// engagement history and shallow-merges API config.
func (t *Tracker) Import(ctx context.Context, scope string, file *model.ExportFile, mode model.ImportMode) (*ImportResult, error) {
	if file == nil || file.Type != model.ExportType {
		return nil, ErrInvalidExportFile
	}
	if !mode.IsValid() {
		return nil, ErrInvalidImportMode
	}

	items := file.Data.ContentItems
	records := file.Data.EngagementData
	cfg := file.Data.APIConfig

	if mode == model.ImportMerge {
		items = mergeContent(t.loadContent(ctx, scope), items)
		records = append(t.loadEngagement(ctx, scope), records...)
		cfg = t.LoadAPIConfig(ctx, scope).Merge(cfg)
	}

	if err := t.saveContent(ctx, scope, items); err != nil {
		return nil, err
	}
	if err := t.saveEngagement(ctx, scope, records); err != nil {
		return nil, err
	}
	if err := t.SaveAPIConfig(ctx, scope, cfg); err != nil {
		return nil, err
	}

	t.metrics.IncImport(string(mode))
	t.logger.Info("import_applied",
		"scope", scope,
		"mode", mode,
		"content_items", len(items),
		"engagement_records", len(records),
	)

	return &ImportResult{
		Mode:              mode,
		ContentItems:      len(items),
		EngagementRecords: len(records),
	}, nil
}

// mergeContent unions existing and incoming items by ID with incoming
// winning, then drops later items whose URL normalizes to one already
// kept.
func mergeContent(existing, incoming []model.ContentItem) []model.ContentItem {
	byID := make(map[string]int, len(existing))
	merged := make([]model.ContentItem, len(existing))
	copy(merged, existing)
	for i, item := range merged {
		byID[item.ID] = i
	}

	for _, item := range incoming {
		if i, ok := byID[item.ID]; ok {
			merged[i] = item
			continue
		}
		byID[item.ID] = len(merged)
		merged = append(merged, item)
	}

	seen := make(map[string]bool, len(merged))
	deduped := merged[:0]
	for _, item := range merged {
		key := normalize.URL(item.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, item)
	}
	return deduped
}
