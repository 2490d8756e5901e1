package model

import "time"

// Metrics is a single set of engagement counters for a piece of content.
type Metrics struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`

	// Other holds platform-specific counters such as favorites,
	// impressions or clicks.
	Other map[string]int64 `json:"other_metrics,omitempty"`
}

// EngagementRecord is a timestamped engagement snapshot for a content URL.
// Records are append-only; a refresh adds a new record rather than mutating
// an old one. The current state for a URL is the record with the greatest
// timestamp among records sharing that ContentURL.
type EngagementRecord struct {
	ID string `json:"id"` // ULID (time-sortable)

	// ContentURL is the normalized URL of the content this record
	// measures. It is a denormalized join key, not a foreign-key ID,
	// so records survive a ContentItem being recreated with the same URL.
	ContentURL string `json:"content_url"`

	Timestamp time.Time `json:"timestamp"`

	Views    int64            `json:"views"`
	Likes    int64            `json:"likes"`
	Comments int64            `json:"comments"`
	Shares   int64            `json:"shares"`
	Other    map[string]int64 `json:"other_metrics,omitempty"`

	// Simulated marks records produced by the deterministic fallback
	// rather than a real platform API.
	Simulated bool `json:"simulated,omitempty"`
}

// Apply copies a set of metrics onto the record.
func (r *EngagementRecord) Apply(m Metrics) {
	r.Views = m.Views
	r.Likes = m.Likes
	r.Comments = m.Comments
	r.Shares = m.Shares
	if len(m.Other) > 0 {
		r.Other = make(map[string]int64, len(m.Other))
		for k, v := range m.Other {
			r.Other[k] = v
		}
	}
}
