package service

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pulsetrack/pulsetrack/internal/aggregate"
	"github.com/pulsetrack/pulsetrack/internal/metrics"
	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/normalize"
)

// RefreshResult reports the outcome of an engagement refresh.
type RefreshResult struct {
	Refreshed int            `json:"refreshed"`
	Sources   map[string]int `json:"sources"`
}

// RefreshContent fetches fresh engagement metrics for one content item
// and appends a new engagement record. Existing records are never
// mutated.
func (t *Tracker) RefreshContent(ctx context.Context, scope, id string) (*RefreshResult, error) {
	items := t.loadContent(ctx, scope)

	for i := range items {
		if items[i].ID == id {
			return t.refresh(ctx, scope, items, []int{i})
		}
	}
	return nil, ErrContentNotFound
}

// RefreshAll fetches fresh engagement metrics for every content item in
// the scope, one item at a time. A single fetch failing cannot abort
// the pass since fetches always resolve, worst case to simulation.
func (t *Tracker) RefreshAll(ctx context.Context, scope string) (*RefreshResult, error) {
	items := t.loadContent(ctx, scope)

	indexes := make([]int, len(items))
	for i := range items {
		indexes[i] = i
	}
	return t.refresh(ctx, scope, items, indexes)
}

func (t *Tracker) refresh(ctx context.Context, scope string, items []model.ContentItem, indexes []int) (*RefreshResult, error) {
	start := time.Now()
	cfg := t.LoadAPIConfig(ctx, scope)
	records := t.loadEngagement(ctx, scope)

	result := &RefreshResult{Sources: make(map[string]int)}

	for _, i := range indexes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := &items[i]
		m, source := t.fetcher.Fetch(ctx, item.Platform, item.ContentID, cfg)

		record := model.EngagementRecord{
			ID:         ulid.Make().String(),
			ContentURL: normalize.URL(item.URL),
			Timestamp:  t.now().UTC(),
			Simulated:  source != metrics.FetchSourceReal,
		}
		record.Apply(m)

		records = append(records, record)
		item.LastUpdated = t.now().UTC()

		result.Refreshed++
		result.Sources[source]++
	}

	if err := t.saveEngagement(ctx, scope, records); err != nil {
		return nil, err
	}
	if err := t.saveContent(ctx, scope, items); err != nil {
		return nil, err
	}

	t.metrics.ObserveRefreshDuration(time.Since(start))
	t.logger.Info("engagement_refreshed",
		"scope", scope,
		"refreshed", result.Refreshed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

// Dashboard computes the aggregated engagement view for a scope.
func (t *Tracker) Dashboard(ctx context.Context, scope string) aggregate.View {
	items := t.loadContent(ctx, scope)
	records := t.loadEngagement(ctx, scope)
	return aggregate.Compute(items, records, t.now().UTC())
}
