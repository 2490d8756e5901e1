package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulsetrack/pulsetrack/internal/handler/dto"
	"github.com/pulsetrack/pulsetrack/internal/middleware"
	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/service"
)

// ContentHandler handles HTTP requests for content operations.
type ContentHandler struct {
	svc    *service.Tracker
	logger *slog.Logger
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(svc *service.Tracker, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/content.
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.AddContentInput{
		Name:          req.Name,
		Platform:      model.Platform(req.Platform),
		URL:           req.URL,
		PublishedDate: req.PublishedDate,
		Duration:      req.Duration,
		Description:   req.Description,
		Replace:       req.Replace,
	}

	item, err := h.svc.AddContent(r.Context(), middleware.ScopeFromContext(r.Context()), input)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateURL) && item != nil {
			writeJSON(w, http.StatusConflict, dto.DuplicateURLResponse{
				Error:    "Content with this URL already exists",
				Code:     "DUPLICATE_URL",
				Existing: *dto.ToContentResponse(item),
			})
			return
		}
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("content_created",
		"content_id", item.ID,
		"platform", item.Platform,
		"replaced", req.Replace,
	)

	writeJSON(w, http.StatusCreated, dto.ToContentResponse(item))
}

// Get handles GET /api/v1/content/{id}.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Content ID is required")
		return
	}

	item, err := h.svc.GetContent(r.Context(), middleware.ScopeFromContext(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToContentResponse(item))
}

// List handles GET /api/v1/content.
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.svc.ListContent(r.Context(), middleware.ScopeFromContext(r.Context()))
	writeJSON(w, http.StatusOK, dto.ToContentListResponse(items))
}

// Update handles PATCH /api/v1/content/{id}.
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Content ID is required")
		return
	}

	var req dto.UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateContentInput{
		ID:            id,
		Name:          req.Name,
		URL:           req.URL,
		PublishedDate: req.PublishedDate,
		Duration:      req.Duration,
		Description:   req.Description,
	}
	if req.Platform != nil {
		p := model.Platform(*req.Platform)
		input.Platform = &p
	}

	item, err := h.svc.UpdateContent(r.Context(), middleware.ScopeFromContext(r.Context()), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("content_updated", "content_id", item.ID)

	writeJSON(w, http.StatusOK, dto.ToContentResponse(item))
}

// Delete handles DELETE /api/v1/content/{id}.
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Content ID is required")
		return
	}

	if err := h.svc.DeleteContent(r.Context(), middleware.ScopeFromContext(r.Context()), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("content_deleted", "content_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *ContentHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrContentNotFound):
		writeError(w, http.StatusNotFound, "CONTENT_NOT_FOUND", "Content not found")
	case errors.Is(err, service.ErrDuplicateURL):
		writeError(w, http.StatusConflict, "DUPLICATE_URL", "Content with this URL already exists")
	case errors.Is(err, service.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Content name is required")
	case errors.Is(err, service.ErrURLRequired):
		writeError(w, http.StatusBadRequest, "URL_REQUIRED", "Content URL is required")
	case errors.Is(err, service.ErrInvalidPlatform):
		writeError(w, http.StatusBadRequest, "INVALID_PLATFORM", "Platform must be youtube, linkedin, servicenow or other")
	case errors.Is(err, service.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "INVALID_DATE", "Published date must be YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, "INVALID_DURATION", "Duration must be H:MM:SS or M:SS")
	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error("storage_error", "error", err)
		writeError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is temporarily unavailable")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
