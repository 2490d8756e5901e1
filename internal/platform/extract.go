package platform

import (
	"net/url"
	"strings"
)

// extractYouTubeID pulls a video ID from the common YouTube URL shapes:
// watch?v=<id>, youtu.be/<id>, /shorts/<id>, /embed/<id> and /v/<id>.
// Anything else falls back to the last path segment of the raw string.
func extractYouTubeID(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return lastSegment(raw)
	}

	if v := parsed.Query().Get("v"); v != "" {
		return v
	}

	segments := pathSegments(parsed.Path)
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")

	if host == "youtu.be" && len(segments) > 0 {
		return segments[0]
	}

	for i, seg := range segments {
		if (seg == "shorts" || seg == "embed" || seg == "v") && i+1 < len(segments) {
			return segments[i+1]
		}
	}

	return lastSegment(raw)
}

// extractServiceNowID returns the last path segment.
func extractServiceNowID(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return lastSegment(raw)
	}
	if segments := pathSegments(parsed.Path); len(segments) > 0 {
		return segments[len(segments)-1]
	}
	return lastSegment(raw)
}

// extractLinkedInID returns the segment following /posts/, or the last
// hyphen-delimited token of the path when the posts form is absent.
func extractLinkedInID(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return lastSegment(raw)
	}

	segments := pathSegments(parsed.Path)
	for i, seg := range segments {
		if seg == "posts" && i+1 < len(segments) {
			return segments[i+1]
		}
	}

	if len(segments) > 0 {
		last := segments[len(segments)-1]
		if idx := strings.LastIndex(last, "-"); idx >= 0 && idx+1 < len(last) {
			return last[idx+1:]
		}
		return last
	}

	return lastSegment(raw)
}

// extractGenericID uses the full URL string as the identifier.
func extractGenericID(raw string) string {
	return raw
}

// pathSegments splits a URL path into non-empty segments.
func pathSegments(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// lastSegment returns the final slash-delimited token of a raw string,
// the fallback identifier when URL parsing gets us nowhere.
func lastSegment(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return raw
	}
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
