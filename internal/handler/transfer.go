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

// TransferHandler handles export and import endpoints.
type TransferHandler struct {
	svc    *service.Tracker
	logger *slog.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(svc *service.Tracker, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		svc:    svc,
		logger: logger,
	}
}

// Export handles GET /api/v1/export. The response body is the export
// document itself so it can be saved directly as a backup file.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	file := h.svc.Export(r.Context(), middleware.ScopeFromContext(r.Context()))

	w.Header().Set("Content-Disposition", `attachment; filename="engagement-tracker-export.json"`)
	writeJSON(w, http.StatusOK, file)
}

// Import handles POST /api/v1/import?mode=replace|merge. The body is an
// export document; mode defaults to replace.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	mode := model.ImportMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = model.ImportReplace
	}

	var file model.ExportFile
	if err := json.NewDecoder(r.Body).Decode(&file); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Import(r.Context(), middleware.ScopeFromContext(r.Context()), &file, mode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidExportFile):
			writeError(w, http.StatusBadRequest, "INVALID_EXPORT_FILE", "Not a recognized export file")
		case errors.Is(err, service.ErrInvalidImportMode):
			writeError(w, http.StatusBadRequest, "INVALID_IMPORT_MODE", "Import mode must be replace or merge")
		case errors.Is(err, service.ErrStorageFailure):
			h.logger.Error("storage_error", "error", err)
			writeError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is temporarily unavailable")
		default:
			h.logger.Error("internal_error", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		}
		return
	}

	h.logger.Info("import_completed",
		"mode", result.Mode,
		"content_items", result.ContentItems,
		"engagement_records", result.EngagementRecords,
	)

	writeJSON(w, http.StatusOK, result)
}
