// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/pulsetrack/pulsetrack/internal/metrics"
	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/normalize"
	"github.com/pulsetrack/pulsetrack/internal/platform"
	"github.com/pulsetrack/pulsetrack/internal/store"
)

// Service errors.
var (
	ErrNameRequired    = errors.New("content name is required")
	ErrURLRequired     = errors.New("content URL is required")
	ErrInvalidPlatform = errors.New("invalid platform")
	ErrInvalidDate     = errors.New("published date must be YYYY-MM-DD")
	ErrInvalidDuration = errors.New("duration must be H:MM:SS or M:SS")
	ErrDuplicateURL    = errors.New("content with this URL already exists")
	ErrContentNotFound = errors.New("content not found")
	ErrStorageFailure  = errors.New("storage unavailable")
)

var (
	dateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	durationRegex = regexp.MustCompile(`^\d{1,2}(:\d{2}){1,2}$`)
)

// EngagementFetcher retrieves metrics for one piece of content.
// Implementations must never fail; the source label reports whether
// metrics are real or simulated.
type EngagementFetcher interface {
	Fetch(ctx context.Context, p model.Platform, contentID string, cfg model.APIConfig) (model.Metrics, string)
}

// Tracker handles content and engagement business logic for a scope.
type Tracker struct {
	gw          store.Gateway
	fetcher     EngagementFetcher
	logger      *slog.Logger
	metrics     metrics.Recorder
	apiDefaults model.APIConfig
	now         func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithAPIDefaults sets environment-level platform credentials used as a
// base under each scope's stored API config.
func WithAPIDefaults(cfg model.APIConfig) Option {
	return func(t *Tracker) {
		t.apiDefaults = cfg
	}
}

// NewTracker creates a Tracker.
func NewTracker(gw store.Gateway, fetcher EngagementFetcher, logger *slog.Logger, recorder metrics.Recorder, opts ...Option) *Tracker {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	t := &Tracker{
		gw:      gw,
		fetcher: fetcher,
		logger:  logger.With("component", "service.tracker"),
		metrics: recorder,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddContentInput defines input for registering content.
type AddContentInput struct {
	Name          string
	Platform      model.Platform
	URL           string
	PublishedDate string
	Duration      string
	Description   string

	// Replace resolves a duplicate URL by updating the existing item
	// instead of rejecting the submission.
	Replace bool
}

// AddContent registers a new content item. A URL that normalizes to the
// same key as an existing item is a duplicate: the existing item is
// returned alongside ErrDuplicateURL so the caller can offer
// merge-or-reject, unless input.Replace asks for the merge directly.
func (t *Tracker) AddContent(ctx context.Context, scope string, input AddContentInput) (*model.ContentItem, error) {
	if err := validateContentInput(input); err != nil {
		return nil, err
	}

	items := t.loadContent(ctx, scope)

	normalized := normalize.URL(input.URL)
	for i := range items {
		if normalize.URL(items[i].URL) != normalized {
			continue
		}

		t.metrics.IncDuplicateURLDetected()
		if !input.Replace {
			existing := items[i]
			return &existing, ErrDuplicateURL
		}

		// Merge onto the existing item; identity and creation time
		// are preserved.
		items[i].Name = input.Name
		items[i].Platform = input.Platform
		items[i].URL = input.URL
		items[i].ContentID = platform.ExtractContentID(input.URL, input.Platform)
		items[i].PublishedDate = input.PublishedDate
		items[i].Duration = input.Duration
		items[i].Description = input.Description
		items[i].LastUpdated = t.now().UTC()

		if err := t.saveContent(ctx, scope, items); err != nil {
			return nil, err
		}
		t.metrics.IncContentUpdated()
		updated := items[i]
		return &updated, nil
	}

	item := model.ContentItem{
		ID:            uuid.New().String(),
		Name:          input.Name,
		Platform:      input.Platform,
		URL:           input.URL,
		ContentID:     platform.ExtractContentID(input.URL, input.Platform),
		PublishedDate: input.PublishedDate,
		Duration:      input.Duration,
		Description:   input.Description,
		CreatedAt:     t.now().UTC(),
		LastUpdated:   t.now().UTC(),
	}

	items = append(items, item)
	if err := t.saveContent(ctx, scope, items); err != nil {
		return nil, err
	}

	t.metrics.IncContentCreated()
	t.logger.Info("content_added",
		"content_id", item.ID,
		"platform", item.Platform,
		"extracted_id", item.ContentID,
	)

	return &item, nil
}

// UpdateContentInput defines input for editing content. Nil fields are
// left unchanged.
type UpdateContentInput struct {
	ID            string
	Name          *string
	Platform      *model.Platform
	URL           *string
	PublishedDate *string
	Duration      *string
	Description   *string
}

// UpdateContent edits a content item. Changing the URL or platform
// re-extracts the content ID.
func (t *Tracker) UpdateContent(ctx context.Context, scope string, input UpdateContentInput) (*model.ContentItem, error) {
	items := t.loadContent(ctx, scope)

	idx := -1
	for i := range items {
		if items[i].ID == input.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrContentNotFound
	}

	item := &items[idx]
	reExtract := false

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		item.Name = *input.Name
	}
	if input.Platform != nil {
		if !input.Platform.IsValid() {
			return nil, ErrInvalidPlatform
		}
		item.Platform = *input.Platform
		reExtract = true
	}
	if input.URL != nil {
		if *input.URL == "" {
			return nil, ErrURLRequired
		}
		// Reject when the new URL collides with a different item.
		normalized := normalize.URL(*input.URL)
		for i := range items {
			if i != idx && normalize.URL(items[i].URL) == normalized {
				t.metrics.IncDuplicateURLDetected()
				return nil, ErrDuplicateURL
			}
		}
		item.URL = *input.URL
		reExtract = true
	}
	if input.PublishedDate != nil {
		if !dateRegex.MatchString(*input.PublishedDate) {
			return nil, ErrInvalidDate
		}
		item.PublishedDate = *input.PublishedDate
	}
	if input.Duration != nil {
		if *input.Duration != "" && !durationRegex.MatchString(*input.Duration) {
			return nil, ErrInvalidDuration
		}
		item.Duration = *input.Duration
	}
	if input.Description != nil {
		item.Description = *input.Description
	}

	if reExtract {
		item.ContentID = platform.ExtractContentID(item.URL, item.Platform)
	}
	item.LastUpdated = t.now().UTC()

	if err := t.saveContent(ctx, scope, items); err != nil {
		return nil, err
	}

	t.metrics.IncContentUpdated()
	result := *item
	return &result, nil
}

// GetContent retrieves one content item by ID.
func (t *Tracker) GetContent(ctx context.Context, scope, id string) (*model.ContentItem, error) {
	for _, item := range t.loadContent(ctx, scope) {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, ErrContentNotFound
}

// ListContent returns all content items for a scope.
func (t *Tracker) ListContent(ctx context.Context, scope string) []model.ContentItem {
	return t.loadContent(ctx, scope)
}

// DeleteContent removes a content item. Its engagement history is kept:
// records are joined by URL and silently ignored while no item matches,
// and become live again if the URL is re-added.
func (t *Tracker) DeleteContent(ctx context.Context, scope, id string) error {
	items := t.loadContent(ctx, scope)

	filtered := items[:0]
	found := false
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, item)
	}
	if !found {
		return ErrContentNotFound
	}

	if err := t.saveContent(ctx, scope, filtered); err != nil {
		return err
	}

	t.metrics.IncContentDeleted()
	t.logger.Info("content_deleted", "content_id", id)
	return nil
}

func validateContentInput(input AddContentInput) error {
	if input.Name == "" {
		return ErrNameRequired
	}
	if input.URL == "" {
		return ErrURLRequired
	}
	if !input.Platform.IsValid() {
		return ErrInvalidPlatform
	}
	if input.PublishedDate != "" && !dateRegex.MatchString(input.PublishedDate) {
		return ErrInvalidDate
	}
	if input.Duration != "" && !durationRegex.MatchString(input.Duration) {
		return ErrInvalidDuration
	}
	return nil
}

// loadContent returns the scope's content items. Load failures degrade
// to an empty collection; the worst case is an empty view, never a
// hard failure.
func (t *Tracker) loadContent(ctx context.Context, scope string) []model.ContentItem {
	var items []model.ContentItem
	if err := t.gw.Load(ctx, scope, store.KeyContentItems, &items); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			t.logger.Error("failed to load content items, using empty collection", "scope", scope, "error", err)
		}
		return nil
	}
	return items
}

func (t *Tracker) saveContent(ctx context.Context, scope string, items []model.ContentItem) error {
	if err := t.gw.Save(ctx, scope, store.KeyContentItems, items); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return nil
}

func (t *Tracker) loadEngagement(ctx context.Context, scope string) []model.EngagementRecord {
	var records []model.EngagementRecord
	if err := t.gw.Load(ctx, scope, store.KeyEngagementData, &records); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			t.logger.Error("failed to load engagement data, using empty collection", "scope", scope, "error", err)
		}
		return nil
	}
	return records
}

func (t *Tracker) saveEngagement(ctx context.Context, scope string, records []model.EngagementRecord) error {
	if err := t.gw.Save(ctx, scope, store.KeyEngagementData, records); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return nil
}

// LoadAPIConfig returns the scope's platform API configuration overlaid
// on the environment-level defaults. Missing or unreadable config means
// the defaults alone, worst case simulation-only fetches, never an error.
func (t *Tracker) LoadAPIConfig(ctx context.Context, scope string) model.APIConfig {
	var cfg model.APIConfig
	if err := t.gw.Load(ctx, scope, store.KeyAPIConfig, &cfg); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			t.logger.Error("failed to load api config, using defaults", "scope", scope, "error", err)
		}
		return t.apiDefaults
	}
	return t.apiDefaults.Merge(cfg)
}

// SaveAPIConfig stores the scope's platform API configuration.
func (t *Tracker) SaveAPIConfig(ctx context.Context, scope string, cfg model.APIConfig) error {
	if err := t.gw.Save(ctx, scope, store.KeyAPIConfig, cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return nil
}

// LoadPreferences returns the global UI preference set.
func (t *Tracker) LoadPreferences(ctx context.Context) model.Preferences {
	var prefs model.Preferences
	if err := t.gw.Load(ctx, store.GlobalScope, store.KeyPrefs, &prefs); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			t.logger.Error("failed to load preferences, using defaults", "error", err)
		}
		return model.Preferences{}
	}
	return prefs
}

// SavePreferences stores the global UI preference set.
func (t *Tracker) SavePreferences(ctx context.Context, prefs model.Preferences) error {
	if err := t.gw.Save(ctx, store.GlobalScope, store.KeyPrefs, prefs); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return nil
}
