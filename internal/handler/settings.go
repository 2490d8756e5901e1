package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pulsetrack/pulsetrack/internal/middleware"
	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/service"
)

// SettingsHandler handles API config and preference endpoints.
type SettingsHandler struct {
	svc    *service.Tracker
	logger *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc *service.Tracker, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		svc:    svc,
		logger: logger,
	}
}

// GetAPIConfig handles GET /api/v1/config. Secrets are redacted; the
// full values only leave the server through export.
func (h *SettingsHandler) GetAPIConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.svc.LoadAPIConfig(r.Context(), middleware.ScopeFromContext(r.Context()))
	writeJSON(w, http.StatusOK, cfg.Redacted())
}

// PutAPIConfig handles PUT /api/v1/config. Non-empty submitted fields
// overwrite stored ones; empty fields are kept, so a client can update
// one credential without resending the rest.
func (h *SettingsHandler) PutAPIConfig(w http.ResponseWriter, r *http.Request) {
	var incoming model.APIConfig
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	scope := middleware.ScopeFromContext(r.Context())
	merged := h.svc.LoadAPIConfig(r.Context(), scope).Merge(incoming)

	if err := h.svc.SaveAPIConfig(r.Context(), scope, merged); err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("api_config_updated",
		"has_youtube", merged.HasYouTube(),
		"has_servicenow", merged.ServiceNow.Instance != "",
		"has_linkedin", merged.LinkedIn.ClientID != "",
	)

	writeJSON(w, http.StatusOK, merged.Redacted())
}

// GetPreferences handles GET /api/v1/preferences.
func (h *SettingsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.LoadPreferences(r.Context()))
}

// PutPreferences handles PUT /api/v1/preferences.
func (h *SettingsHandler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs model.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.SavePreferences(r.Context(), prefs); err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

func (h *SettingsHandler) handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrStorageFailure) {
		h.logger.Error("storage_error", "error", err)
		writeError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is temporarily unavailable")
		return
	}
	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}
