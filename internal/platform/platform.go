// Package platform holds the per-platform strategy table. Adding a
// platform means adding one entry to the registry: its display metadata,
// its content-ID extraction rule and its simulation ranges.
package platform

import "github.com/pulsetrack/pulsetrack/internal/model"

// Range is a half-open interval [Min, Max) for simulated counters.
type Range struct {
	Min int64
	Max int64
}

// SimRanges defines the per-platform ranges the simulation fallback
// draws metrics from.
type SimRanges struct {
	Views    Range
	Likes    Range
	Comments Range
	Shares   Range

	// Other maps platform-specific counter names to their ranges.
	Other map[string]Range
}

// Spec describes one platform: how it is displayed, how a content ID is
// extracted from its URLs, and what its simulated metrics look like.
type Spec struct {
	Name        model.Platform
	DisplayName string
	Color       string // chart color, hex
	ExtractID   func(raw string) string
	Sim         SimRanges
}

// registry is the single registration site for platforms.
var registry = map[model.Platform]Spec{
	model.PlatformYouTube: {
		Name:        model.PlatformYouTube,
		DisplayName: "YouTube",
		Color:       "#FF0000",
		ExtractID:   extractYouTubeID,
		Sim: SimRanges{
			Views:    Range{2000, 10000},
			Likes:    Range{0, 500},
			Comments: Range{0, 120},
			Shares:   Range{0, 80},
			Other:    map[string]Range{"favorites": {0, 60}},
		},
	},
	model.PlatformLinkedIn: {
		Name:        model.PlatformLinkedIn,
		DisplayName: "LinkedIn",
		Color:       "#0A66C2",
		ExtractID:   extractLinkedInID,
		Sim: SimRanges{
			Views:    Range{500, 5000},
			Likes:    Range{0, 300},
			Comments: Range{0, 60},
			Shares:   Range{0, 40},
			Other:    map[string]Range{"impressions": {1000, 20000}, "clicks": {0, 400}},
		},
	},
	model.PlatformServiceNow: {
		Name:        model.PlatformServiceNow,
		DisplayName: "ServiceNow",
		Color:       "#81B5A1",
		ExtractID:   extractServiceNowID,
		Sim: SimRanges{
			Views:    Range{100, 2000},
			Likes:    Range{0, 100},
			Comments: Range{0, 30},
			Shares:   Range{0, 20},
			Other:    map[string]Range{"bookmarks": {0, 50}},
		},
	},
	model.PlatformOther: {
		Name:        model.PlatformOther,
		DisplayName: "Other",
		Color:       "#6B7280",
		ExtractID:   extractGenericID,
		Sim: SimRanges{
			Views:    Range{100, 3000},
			Likes:    Range{0, 150},
			Comments: Range{0, 40},
			Shares:   Range{0, 30},
		},
	},
}

// Lookup returns the Spec for a platform. Unknown platforms resolve to
// the generic "other" entry, so callers never deal with a missing spec.
func Lookup(p model.Platform) Spec {
	if spec, ok := registry[p]; ok {
		return spec
	}
	return registry[model.PlatformOther]
}

// All returns the registered platforms in a stable order.
func All() []Spec {
	ordered := []model.Platform{
		model.PlatformYouTube,
		model.PlatformLinkedIn,
		model.PlatformServiceNow,
		model.PlatformOther,
	}
	specs := make([]Spec, 0, len(ordered))
	for _, name := range ordered {
		specs = append(specs, registry[name])
	}
	return specs
}

// ExtractContentID derives the platform-specific identifier from a URL.
// It never fails: on any parse problem it falls back to the raw URL or
// its last path segment.
func ExtractContentID(raw string, p model.Platform) string {
	return Lookup(p).ExtractID(raw)
}
