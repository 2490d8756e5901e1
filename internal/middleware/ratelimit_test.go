package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pulsetrack/pulsetrack/internal/store"
)

type stubLimiter struct {
	result *store.RateLimitResult
	err    error
	lastID string
}

func (l *stubLimiter) CheckRateLimit(ctx context.Context, clientID string, rate float64, burst int) (*store.RateLimitResult, error) {
	l.lastID = clientID
	return l.result, l.err
}

func rateLimitHandler(limiter RateLimiter, enabled bool) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return RateLimit(RateLimitConfig{
		Logger:            logger,
		Limiter:           limiter,
		Enabled:           enabled,
		RequestsPerMinute: 60,
		Burst:             10,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimitAllowed(t *testing.T) {
	limiter := &stubLimiter{result: &store.RateLimitResult{Allowed: true, Remaining: 9}}
	handler := rateLimitHandler(limiter, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
	req.Header.Set(SessionHeader, "0123456789abcdef0123456789abcdef")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "9" {
		t.Errorf("X-RateLimit-Remaining = %q, want 9", got)
	}
	if limiter.lastID != "0123456789abcdef0123456789abcdef" {
		t.Errorf("client ID = %q, want session ID", limiter.lastID)
	}
}

func TestRateLimitExceeded(t *testing.T) {
	limiter := &stubLimiter{result: &store.RateLimitResult{Allowed: false, RetryAfter: 3 * time.Second}}
	handler := rateLimitHandler(limiter, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "3" {
		t.Errorf("Retry-After = %q, want 3", got)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: context.DeadlineExceeded}
	handler := rateLimitHandler(limiter, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("limiter failure should fail open, status = %d", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := &stubLimiter{result: &store.RateLimitResult{Allowed: false}}
	handler := rateLimitHandler(limiter, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("disabled limiter should pass through, status = %d", rec.Code)
	}
	if limiter.lastID != "" {
		t.Error("limiter should not be consulted when disabled")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for single", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "9.9.9.9:1234", "1.2.3.4"},
		{"forwarded for chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "9.9.9.9:1234", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": "2.3.4.5"}, "9.9.9.9:1234", "2.3.4.5"},
		{"remote addr fallback", nil, "9.9.9.9:1234", "9.9.9.9:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
