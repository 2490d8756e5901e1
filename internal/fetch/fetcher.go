package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pulsetrack/pulsetrack/internal/metrics"
	"github.com/pulsetrack/pulsetrack/internal/model"
)

// DefaultYouTubeEndpoint is the YouTube Data API videos endpoint.
const DefaultYouTubeEndpoint = "https://www.googleapis.com/youtube/v3/videos"

var errEmptyResult = errors.New("empty result set")

// Fetcher retrieves engagement metrics per platform. Real API calls are
// attempted only where credentials exist; every failure path ends in the
// simulation fallback, so Fetch always returns metrics.
type Fetcher struct {
	client          *http.Client
	logger          *slog.Logger
	metrics         metrics.Recorder
	youtubeEndpoint string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithYouTubeEndpoint overrides the YouTube API endpoint (for tests).
func WithYouTubeEndpoint(endpoint string) Option {
	return func(f *Fetcher) { f.youtubeEndpoint = endpoint }
}

// New creates a Fetcher.
func New(logger *slog.Logger, recorder metrics.Recorder, opts ...Option) *Fetcher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	f := &Fetcher{
		client:          NewHTTPClient(),
		logger:          logger.With("component", "fetch"),
		metrics:         recorder,
		youtubeEndpoint: DefaultYouTubeEndpoint,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns engagement metrics for a content ID. The real API path
// is used for YouTube when an API key is configured; everything else,
// and every failure, resolves to the deterministic simulation. The
// second return value reports the source ("real" or "simulated").
func (f *Fetcher) Fetch(ctx context.Context, p model.Platform, contentID string, cfg model.APIConfig) (model.Metrics, string) {
	if p == model.PlatformYouTube && cfg.HasYouTube() {
		m, err := f.fetchYouTube(ctx, contentID, cfg.YouTube.APIKey)
		if err == nil {
			f.metrics.IncEngagementFetch(metrics.FetchSourceReal)
			return m, metrics.FetchSourceReal
		}
		f.logger.Warn("real fetch failed, simulating",
			"platform", p,
			"content_id", contentID,
			"error", err,
		)
	}

	f.metrics.IncEngagementFetch(metrics.FetchSourceSimulated)
	return Simulate(p, contentID), metrics.FetchSourceSimulated
}

// youtubeVideosResponse is the subset of the videos endpoint response
// the fetcher reads.
type youtubeVideosResponse struct {
	Items []struct {
		Statistics struct {
			ViewCount     string `json:"viewCount"`
			LikeCount     string `json:"likeCount"`
			CommentCount  string `json:"commentCount"`
			FavoriteCount string `json:"favoriteCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// fetchYouTube calls the videos endpoint with part=statistics, retrying
// transient failures with a short backoff.
func (f *Fetcher) fetchYouTube(ctx context.Context, videoID, apiKey string) (model.Metrics, error) {
	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return model.Metrics{}, ctx.Err()
			case <-time.After(nextRetryDelay(attempt - 1)):
			}
		}

		m, err := f.youtubeOnce(ctx, videoID, apiKey)
		if err == nil {
			return m, nil
		}
		lastErr = err

		// An empty result set means the video does not exist or is
		// private; retrying will not change that.
		if errors.Is(err, errEmptyResult) || errors.Is(err, context.Canceled) {
			break
		}
	}
	return model.Metrics{}, lastErr
}

func (f *Fetcher) youtubeOnce(ctx context.Context, videoID, apiKey string) (model.Metrics, error) {
	query := url.Values{}
	query.Set("part", "statistics")
	query.Set("id", videoID)
	query.Set("key", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.youtubeEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return model.Metrics{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return model.Metrics{}, fmt.Errorf("videos request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return model.Metrics{}, fmt.Errorf("videos endpoint returned %d", resp.StatusCode)
	}

	var body youtubeVideosResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Metrics{}, fmt.Errorf("decode response: %w", err)
	}

	if len(body.Items) == 0 {
		return model.Metrics{}, errEmptyResult
	}

	stats := body.Items[0].Statistics
	m := model.Metrics{
		Views:    parseCount(stats.ViewCount),
		Likes:    parseCount(stats.LikeCount),
		Comments: parseCount(stats.CommentCount),
	}
	if fav := parseCount(stats.FavoriteCount); fav > 0 {
		m.Other = map[string]int64{"favorites": fav}
	}
	return m, nil
}

// parseCount parses the API's string-typed counters; missing or
// malformed values count as zero.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
