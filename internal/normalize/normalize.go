// Package normalize canonicalizes content URLs so that duplicate
// submissions of the same content resolve to one join key. ContentItems
// and EngagementRecords are matched on the normalized form.
package normalize

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped during normalization.
// They identify campaigns and referrers, not content.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_content":  {},
	"utm_term":     {},
	"feature":      {},
}

// URL returns the canonical form of a content URL: lowercased scheme and
// host, leading "www." removed, tracking query parameters and fragment
// dropped, trailing slash stripped from the path. A bare host and an
// explicit root path both canonicalize to the "/" form. Two URLs
// differing only in those respects normalize identically.
//
// Fail-soft: anything that does not parse as a URL is returned unchanged.
func URL(raw string) string {
	if raw == "" {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.RawQuery = cleanQuery(parsed.Query())

	if parsed.Path == "" || parsed.Path == "/" {
		parsed.Path = "/"
	} else {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
		parsed.RawPath = ""
	}

	return parsed.String()
}

// cleanQuery drops tracking parameters and re-encodes the rest.
// url.Values.Encode sorts keys, which keeps the output stable regardless
// of the original parameter order.
func cleanQuery(values url.Values) string {
	for param := range trackingParams {
		values.Del(param)
	}
	if len(values) == 0 {
		return ""
	}
	return values.Encode()
}
