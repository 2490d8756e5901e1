package aggregate

import (
	"strconv"
	"strings"
)

// AvgWatchPercentage is the assumed fraction of a video viewers watch
// on average. Applied uniformly; per-video retention data is not
// available without analytics API access.
const AvgWatchPercentage = 0.55

// DefaultDurationHours is assumed when a video has no recorded duration
// (4.4 minutes, a typical short-form video length).
const DefaultDurationHours = 4.4 / 60

// WatchHours estimates total viewer-hours for a video:
// views × duration in hours × average watch percentage.
func WatchHours(views int64, duration string, avgWatchPct float64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(views) * DurationHours(duration) * avgWatchPct
}

// DurationHours parses "H:MM:SS" or "M:SS" into hours. Empty or
// unparseable strings yield DefaultDurationHours.
func DurationHours(duration string) float64 {
	parts := strings.Split(strings.TrimSpace(duration), ":")

	switch len(parts) {
	case 2: // M:SS
		minutes, okM := parseClockPart(parts[0])
		seconds, okS := parseClockPart(parts[1])
		if !okM || !okS {
			return DefaultDurationHours
		}
		return (minutes + seconds/60) / 60
	case 3: // H:MM:SS
		hours, okH := parseClockPart(parts[0])
		minutes, okM := parseClockPart(parts[1])
		seconds, okS := parseClockPart(parts[2])
		if !okH || !okM || !okS {
			return DefaultDurationHours
		}
		return hours + minutes/60 + seconds/3600
	default:
		return DefaultDurationHours
	}
}

func parseClockPart(s string) (float64, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return float64(n), true
}
