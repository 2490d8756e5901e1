package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulsetrack/pulsetrack/internal/middleware"
	"github.com/pulsetrack/pulsetrack/internal/service"
)

// EngagementHandler handles refresh and dashboard endpoints.
type EngagementHandler struct {
	svc    *service.Tracker
	logger *slog.Logger
}

// NewEngagementHandler creates a new EngagementHandler.
func NewEngagementHandler(svc *service.Tracker, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{
		svc:    svc,
		logger: logger,
	}
}

// RefreshAll handles POST /api/v1/engagement/refresh.
func (h *EngagementHandler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RefreshAll(r.Context(), middleware.ScopeFromContext(r.Context()))
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// RefreshOne handles POST /api/v1/content/{id}/refresh.
func (h *EngagementHandler) RefreshOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Content ID is required")
		return
	}

	result, err := h.svc.RefreshContent(r.Context(), middleware.ScopeFromContext(r.Context()), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Dashboard handles GET /api/v1/dashboard.
func (h *EngagementHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view := h.svc.Dashboard(r.Context(), middleware.ScopeFromContext(r.Context()))
	writeJSON(w, http.StatusOK, view)
}

func (h *EngagementHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrContentNotFound):
		writeError(w, http.StatusNotFound, "CONTENT_NOT_FOUND", "Content not found")
	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error("storage_error", "error", err)
		writeError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is temporarily unavailable")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
