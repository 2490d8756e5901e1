package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/session"
)

type stubValidator struct {
	sessions map[string]model.Session
}

func (v *stubValidator) Validate(ctx context.Context, id string) (model.Session, error) {
	if len(id) != 32 {
		return model.Session{}, session.ErrInvalidSessionID
	}
	sess, ok := v.sessions[id]
	if !ok {
		return model.Session{}, session.ErrSessionNotFound
	}
	return sess, nil
}

func TestRequireSession(t *testing.T) {
	validID := "0123456789abcdef0123456789abcdef"
	validator := &stubValidator{sessions: map[string]model.Session{
		validID: {ID: validID, UserID: "u1"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var gotScope string
	handler := RequireSession(validator, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotScope = ScopeFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		sessionID  string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed id", "nope", http.StatusUnauthorized},
		{"unknown session", "ffffffffffffffffffffffffffffffff", http.StatusUnauthorized},
		{"valid session", validID, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
			if tt.sessionID != "" {
				req.Header.Set(SessionHeader, tt.sessionID)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	if gotScope != "user:u1" {
		t.Errorf("scope in context = %q, want user:u1", gotScope)
	}
}

func TestScopeFromContextWithoutSession(t *testing.T) {
	if got := ScopeFromContext(context.Background()); got != "" {
		t.Errorf("ScopeFromContext() = %q, want empty", got)
	}
}
