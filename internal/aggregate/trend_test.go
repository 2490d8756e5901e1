package aggregate

import (
	"testing"
	"time"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

func TestClassifyTrend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		buckets []DailyBucket
		want    Trend
	}{
		{
			name:    "rising beyond band",
			buckets: []DailyBucket{{Date: "2024-06-01", Views: 100}, {Date: "2024-06-30", Views: 150}},
			want:    TrendIncreasing,
		},
		{
			name:    "falling beyond band",
			buckets: []DailyBucket{{Date: "2024-06-01", Views: 100}, {Date: "2024-06-30", Views: 80}},
			want:    TrendDecreasing,
		},
		{
			name:    "within band is stable",
			buckets: []DailyBucket{{Date: "2024-06-01", Views: 100}, {Date: "2024-06-30", Views: 105}},
			want:    TrendStable,
		},
		{
			name:    "exactly at upper band is stable",
			buckets: []DailyBucket{{Date: "2024-06-01", Views: 100}, {Date: "2024-06-30", Views: 110}},
			want:    TrendStable,
		},
		{
			name:    "single bucket",
			buckets: []DailyBucket{{Date: "2024-06-01", Views: 100}},
			want:    TrendStable,
		},
		{
			name:    "empty series",
			buckets: nil,
			want:    TrendStable,
		},
		{
			name:    "from zero",
			buckets: []DailyBucket{{Date: "2024-06-01", Views: 0}, {Date: "2024-06-30", Views: 5}},
			want:    TrendIncreasing,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyTrend(tt.buckets); got != tt.want {
				t.Errorf("ClassifyTrend = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDailyBuckets(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	records := []model.EngagementRecord{
		{ContentURL: "a", Timestamp: now.Add(-2 * time.Hour), Views: 10},
		{ContentURL: "b", Timestamp: now.Add(-3 * time.Hour), Views: 5},
		{ContentURL: "a", Timestamp: now.AddDate(0, 0, -10), Views: 20},
		{ContentURL: "a", Timestamp: now.AddDate(0, 0, -40), Views: 999}, // outside window
	}

	buckets := DailyBuckets(records, now)

	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2: %v", len(buckets), buckets)
	}
	if buckets[0].Date != "2024-06-05" || buckets[0].Views != 20 {
		t.Errorf("first bucket = %+v, want 2024-06-05 / 20", buckets[0])
	}
	if buckets[1].Date != "2024-06-15" || buckets[1].Views != 15 {
		t.Errorf("last bucket = %+v, want 2024-06-15 / 15", buckets[1])
	}
}

func TestDailyBuckets_BucketsByUTCDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	east := time.FixedZone("UTC+9", 9*3600)

	// 08:00 on the 15th in UTC+9 is 23:00 on the 14th UTC.
	records := []model.EngagementRecord{
		{ContentURL: "a", Timestamp: time.Date(2024, 6, 15, 8, 0, 0, 0, east), Views: 7},
	}

	buckets := DailyBuckets(records, now)
	if len(buckets) != 1 || buckets[0].Date != "2024-06-14" {
		t.Errorf("buckets = %v, want single 2024-06-14 bucket", buckets)
	}
}
