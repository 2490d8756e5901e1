package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/session"
)

// SessionHeader carries the caller's session ID.
const SessionHeader = "X-Session-Id"

// sessionKey is the context key for the validated session.
const sessionKey contextKey = "session"

// SessionValidator resolves a session ID to a session.
type SessionValidator interface {
	Validate(ctx context.Context, id string) (model.Session, error)
}

// RequireSession validates the X-Session-Id header and stores the
// session in the request context. Requests without a valid session get
// 401; clients obtain one from POST /api/v1/sessions first.
func RequireSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if id == "" {
				writeSessionError(w, http.StatusUnauthorized, "MISSING_SESSION", "X-Session-Id header is required")
				return
			}

			sess, err := validator.Validate(r.Context(), id)
			if err != nil {
				switch {
				case errors.Is(err, session.ErrInvalidSessionID), errors.Is(err, session.ErrSessionNotFound):
					writeSessionError(w, http.StatusUnauthorized, "INVALID_SESSION", "Unknown or malformed session ID")
				default:
					logger.Error("session validation failed",
						slog.String("request_id", GetRequestID(r.Context())),
						slog.String("error", err.Error()),
					)
					writeSessionError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
				}
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext retrieves the validated session, if any.
func SessionFromContext(ctx context.Context) (model.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(model.Session)
	return sess, ok
}

// ScopeFromContext returns the persistence scope of the request's
// session. Empty when RequireSession did not run.
func ScopeFromContext(ctx context.Context) string {
	if sess, ok := SessionFromContext(ctx); ok {
		return sess.Scope()
	}
	return ""
}

func writeSessionError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"error":%q,"code":%q}`, message, code)
}
