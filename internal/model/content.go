// Package model defines domain entities for the application.
package model

import "time"

// Platform identifies where a piece of content was published.
type Platform string

const (
	PlatformYouTube    Platform = "youtube"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformServiceNow Platform = "servicenow"
	PlatformOther      Platform = "other"
)

// IsValid checks if the platform is a known value.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformYouTube, PlatformLinkedIn, PlatformServiceNow, PlatformOther:
		return true
	}
	return false
}

// ContentItem represents a tracked piece of published content.
type ContentItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Platform Platform `json:"platform"`

	// URL is the user-supplied URL. ContentID is derived from it and
	// recomputed whenever URL or Platform change.
	URL       string `json:"url"`
	ContentID string `json:"content_id"`

	// PublishedDate is a calendar date in YYYY-MM-DD form.
	PublishedDate string `json:"published_date"`

	// Duration is "H:MM:SS" or "M:SS". Only meaningful for YouTube,
	// where it feeds the watch-hours estimate.
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}
