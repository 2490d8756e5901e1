package fetch

import (
	"math/rand"
	"time"
)

// Retry delays before giving up on the real API and simulating.
// Fetches run inside a user-triggered refresh, so the window is short.
var retryDelays = [...]time.Duration{
	200 * time.Millisecond,
	500 * time.Millisecond,
}

const (
	// MaxAttempts is the number of real API attempts per fetch.
	MaxAttempts = len(retryDelays) + 1

	// JitterFactor is the ±percentage of jitter applied to delays.
	JitterFactor = 0.2
)

// nextRetryDelay returns the backoff delay after a failed attempt.
// attemptCount is 0-indexed (after first failed attempt, attemptCount = 0).
func nextRetryDelay(attemptCount int) time.Duration {
	if attemptCount < 0 {
		attemptCount = 0
	}
	if attemptCount >= len(retryDelays) {
		attemptCount = len(retryDelays) - 1
	}

	base := retryDelays[attemptCount]

	jitterRange := float64(base) * JitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	return time.Duration(float64(base) + jitter)
}
