package model

import "time"

// ExportType is the literal type tag every export file must carry.
// Importers reject files whose type field does not match exactly.
const ExportType = "platform-engagement-tracker-export"

// ExportVersion is the current export file format version.
const ExportVersion = "1.0"

// ExportData bundles the three persisted collections of a scope.
type ExportData struct {
	APIConfig      APIConfig          `json:"apiConfig"`
	ContentItems   []ContentItem      `json:"contentItems"`
	EngagementData []EngagementRecord `json:"engagementData"`
}

// ExportFile is the JSON document produced by export and consumed by import.
type ExportFile struct {
	Type      string     `json:"type"`
	Version   string     `json:"version"`
	Timestamp time.Time  `json:"timestamp"`
	SessionID string     `json:"sessionId,omitempty"`
	Data      ExportData `json:"data"`
}

// ImportMode selects how an import is applied.
type ImportMode string

const (
	// ImportReplace overwrites all three collections.
	ImportReplace ImportMode = "replace"
	// ImportMerge unions content items by ID, keeps both sets of
	// engagement records and shallow-merges the API config.
	ImportMerge ImportMode = "merge"
)

// IsValid checks if the import mode is a known value.
func (m ImportMode) IsValid() bool {
	return m == ImportReplace || m == ImportMerge
}
