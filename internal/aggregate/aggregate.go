// Package aggregate computes the dashboard view from the two persisted
// collections: content items and their engagement history. Everything in
// this package is a pure function; empty inputs produce zeroed output,
// never an error.
package aggregate

import (
	"time"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/normalize"
)

// PlatformStats is the per-platform rollup.
type PlatformStats struct {
	TotalContent int     `json:"total_content"`
	TotalViews   int64   `json:"total_views"`
	AverageViews float64 `json:"average_views"`
}

// TopPerformer identifies the content item whose latest engagement record
// has the most views.
type TopPerformer struct {
	ContentID string         `json:"content_id"`
	Name      string         `json:"name"`
	Platform  model.Platform `json:"platform"`
	URL       string         `json:"url"`
	Views     int64          `json:"views"`
}

// View is the derived aggregate over a scope's collections. It is
// computed on demand and never persisted.
type View struct {
	TotalContent int                              `json:"total_content"`
	TotalViews   int64                            `json:"total_views"`
	Platforms    map[model.Platform]PlatformStats `json:"platforms"`
	TopPerformer *TopPerformer                    `json:"top_performer,omitempty"`
	WatchHours   float64                          `json:"watch_hours"`
	Daily        []DailyBucket                    `json:"daily"`
	Trend        Trend                            `json:"trend"`
	GeneratedAt  time.Time                        `json:"generated_at"`
}

// Compute builds the aggregate view. Totals count only the latest record
// per URL; records whose content item no longer exists are silently
// dropped. now anchors the trailing 30-day trend window.
func Compute(items []model.ContentItem, records []model.EngagementRecord, now time.Time) View {
	view := View{
		TotalContent: len(items),
		Platforms:    make(map[model.Platform]PlatformStats),
		Daily:        []DailyBucket{},
		Trend:        TrendStable,
		GeneratedAt:  now,
	}

	latest := LatestPerURL(records)

	// Join each item to its latest record by normalized URL, then roll
	// up totals per platform as we go.
	type joined struct {
		item  model.ContentItem
		views int64
	}
	joins := make([]joined, 0, len(items))

	for _, item := range items {
		stats := view.Platforms[item.Platform]
		stats.TotalContent++

		if rec, ok := latest[normalize.URL(item.URL)]; ok {
			stats.TotalViews += rec.Views
			view.TotalViews += rec.Views
			joins = append(joins, joined{item: item, views: rec.Views})
		}

		view.Platforms[item.Platform] = stats
	}

	for p, stats := range view.Platforms {
		if stats.TotalContent > 0 {
			stats.AverageViews = float64(stats.TotalViews) / float64(stats.TotalContent)
		}
		view.Platforms[p] = stats
	}

	// Top performer: highest latest-record views, first encountered wins
	// ties. Ranking by the latest record keeps this consistent with the
	// totals above.
	for _, j := range joins {
		if view.TopPerformer == nil || j.views > view.TopPerformer.Views {
			view.TopPerformer = &TopPerformer{
				ContentID: j.item.ID,
				Name:      j.item.Name,
				Platform:  j.item.Platform,
				URL:       j.item.URL,
				Views:     j.views,
			}
		}
	}

	// Watch-hours over YouTube items with a joined latest record.
	for _, j := range joins {
		if j.item.Platform == model.PlatformYouTube {
			view.WatchHours += WatchHours(j.views, j.item.Duration, AvgWatchPercentage)
		}
	}

	view.Daily = DailyBuckets(records, now)
	view.Trend = ClassifyTrend(view.Daily)

	return view
}

// LatestPerURL reduces the engagement history to one record per content
// URL: the record with the greatest timestamp. Comparison is strictly
// greater-than, so timestamp ties keep the first-seen record.
func LatestPerURL(records []model.EngagementRecord) map[string]model.EngagementRecord {
	latest := make(map[string]model.EngagementRecord, len(records))
	for _, rec := range records {
		current, ok := latest[rec.ContentURL]
		if !ok || rec.Timestamp.After(current.Timestamp) {
			latest[rec.ContentURL] = rec
		}
	}
	return latest
}
