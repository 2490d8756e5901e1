// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

// CreateContentRequest represents the request body for registering content.
type CreateContentRequest struct {
	Name          string `json:"name"`
	Platform      string `json:"platform"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date,omitempty"`
	Duration      string `json:"duration,omitempty"`
	Description   string `json:"description,omitempty"`

	// Replace resolves a duplicate URL by updating the existing item.
	Replace bool `json:"replace,omitempty"`
}

// UpdateContentRequest represents the request body for editing content.
// Omitted fields are left unchanged.
type UpdateContentRequest struct {
	Name          *string `json:"name,omitempty"`
	Platform      *string `json:"platform,omitempty"`
	URL           *string `json:"url,omitempty"`
	PublishedDate *string `json:"published_date,omitempty"`
	Duration      *string `json:"duration,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// ContentResponse represents a content item in API responses.
type ContentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Platform      string    `json:"platform"`
	URL           string    `json:"url"`
	ContentID     string    `json:"content_id"`
	PublishedDate string    `json:"published_date,omitempty"`
	Duration      string    `json:"duration,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdated   time.Time `json:"last_updated"`
}

// ContentListResponse represents the full content collection of a scope.
type ContentListResponse struct {
	Data  []ContentResponse `json:"data"`
	Total int               `json:"total"`
}

// DuplicateURLResponse is returned with 409 when a submitted URL
// normalizes to one already tracked. The existing item lets the client
// offer merge-or-reject.
type DuplicateURLResponse struct {
	Error    string          `json:"error"`
	Code     string          `json:"code"`
	Existing ContentResponse `json:"existing"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToContentResponse converts a ContentItem model to ContentResponse DTO.
func ToContentResponse(item *model.ContentItem) *ContentResponse {
	return &ContentResponse{
		ID:            item.ID,
		Name:          item.Name,
		Platform:      string(item.Platform),
		URL:           item.URL,
		ContentID:     item.ContentID,
		PublishedDate: item.PublishedDate,
		Duration:      item.Duration,
		Description:   item.Description,
		CreatedAt:     item.CreatedAt,
		LastUpdated:   item.LastUpdated,
	}
}

// ToContentListResponse converts a slice of ContentItem models.
func ToContentListResponse(items []model.ContentItem) *ContentListResponse {
	responses := make([]ContentResponse, len(items))
	for i := range items {
		responses[i] = *ToContentResponse(&items[i])
	}
	return &ContentListResponse{
		Data:  responses,
		Total: len(responses),
	}
}
