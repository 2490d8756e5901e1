package aggregate

import (
	"sort"
	"time"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

// Trend is the coarse direction of engagement over the trend window.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// TrendWindow is the trailing period considered for the daily buckets.
const TrendWindow = 30 * 24 * time.Hour

// trendBand is the tolerance around the first bucket within which the
// series counts as stable (±10%).
const trendBand = 0.10

// DailyBucket is the summed views for one UTC calendar day.
type DailyBucket struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Views int64  `json:"views"`
}

// DailyBuckets sums views per UTC day over the trailing 30 days from
// now. Every record in the window counts by its own timestamp; this is
// the raw fetch history, not the latest-per-URL reduction.
func DailyBuckets(records []model.EngagementRecord, now time.Time) []DailyBucket {
	cutoff := now.Add(-TrendWindow)

	byDay := make(map[string]int64)
	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) || rec.Timestamp.After(now) {
			continue
		}
		day := rec.Timestamp.UTC().Format("2006-01-02")
		byDay[day] += rec.Views
	}

	buckets := make([]DailyBucket, 0, len(byDay))
	for day, views := range byDay {
		buckets = append(buckets, DailyBucket{Date: day, Views: views})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})
	return buckets
}

// ClassifyTrend compares the first and last bucket of a chronological
// series. Movement beyond ±10% of the first bucket's views classifies
// as increasing or decreasing; anything else, including series shorter
// than two buckets, is stable.
func ClassifyTrend(buckets []DailyBucket) Trend {
	if len(buckets) < 2 {
		return TrendStable
	}

	first := float64(buckets[0].Views)
	last := float64(buckets[len(buckets)-1].Views)

	if first == 0 {
		if last > 0 {
			return TrendIncreasing
		}
		return TrendStable
	}

	switch {
	case last > first*(1+trendBand):
		return TrendIncreasing
	case last < first*(1-trendBand):
		return TrendDecreasing
	default:
		return TrendStable
	}
}
