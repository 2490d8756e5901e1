package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pulsetrack/pulsetrack/internal/handler/dto"
	"github.com/pulsetrack/pulsetrack/internal/middleware"
	"github.com/pulsetrack/pulsetrack/internal/session"
)

// SessionHandler handles session and account endpoints.
type SessionHandler struct {
	mgr    *session.Manager
	logger *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(mgr *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		mgr:    mgr,
		logger: logger,
	}
}

// Create handles POST /api/v1/sessions. It mints an anonymous session;
// no body required.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.mgr.Anonymous(r.Context())
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("session_created", "session_id", sess.ID)

	writeJSON(w, http.StatusCreated, dto.ToSessionResponse(sess))
}

// Current handles GET /api/v1/sessions/current.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "MISSING_SESSION", "X-Session-Id header is required")
		return
	}
	writeJSON(w, http.StatusOK, dto.ToSessionResponse(sess))
}

// Register handles POST /api/v1/register. It creates an account and
// returns a fresh session bound to it.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, sess, err := h.mgr.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID, "username", user.Username)

	writeJSON(w, http.StatusCreated, dto.ToSessionResponse(sess))
}

// Login handles POST /api/v1/login.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	sess, err := h.mgr.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", sess.UserID)

	writeJSON(w, http.StatusOK, dto.ToSessionResponse(sess))
}

func (h *SessionHandler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, "INVALID_USERNAME", "Username must be 3-50 characters of letters, digits, _ or -")
	case errors.Is(err, session.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "PASSWORD_TOO_SHORT", "Password must be at least 8 characters")
	case errors.Is(err, session.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "USERNAME_TAKEN", "Username already registered")
	case errors.Is(err, session.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
