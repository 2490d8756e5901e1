package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/pulsetrack/pulsetrack/internal/handler/dto"
	"github.com/pulsetrack/pulsetrack/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	body := `{"name": "A", "platform": "other", "url": "https://example.com/a"}`
	if rec := env.do(t, http.MethodPost, "/api/v1/content", strings.NewReader(body)); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/v1/engagement/refresh", nil); rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q, want attachment", cd)
	}
	file := decode[model.ExportFile](t, rec)
	if file.Type != model.ExportType || len(file.Data.ContentItems) != 1 {
		t.Fatalf("unexpected export file: type=%q items=%d", file.Type, len(file.Data.ContentItems))
	}

	// Wipe via replace-import of an empty export, then restore.
	empty, _ := json.Marshal(model.ExportFile{Type: model.ExportType, Version: model.ExportVersion})
	if rec := env.do(t, http.MethodPost, "/api/v1/import?mode=replace", bytes.NewReader(empty)); rec.Code != http.StatusOK {
		t.Fatalf("empty import status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/content", nil); decode[dto.ContentListResponse](t, rec).Total != 0 {
		t.Fatal("replace import should have wiped content")
	}

	restored, _ := json.Marshal(file)
	rec = env.do(t, http.MethodPost, "/api/v1/import", bytes.NewReader(restored))
	if rec.Code != http.StatusOK {
		t.Fatalf("restore import status = %d, body %s", rec.Code, rec.Body.String())
	}
	result := decode[map[string]any](t, rec)
	if result["contentItems"] != float64(1) || result["engagementRecords"] != float64(1) {
		t.Errorf("restore result = %v", result)
	}
}

func TestImportRejectsForeignFile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/import", strings.NewReader(`{"type": "some-other-export", "data": {}}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decode[dto.ErrorResponse](t, rec); resp.Code != "INVALID_EXPORT_FILE" {
		t.Errorf("code = %q, want INVALID_EXPORT_FILE", resp.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/import?mode=append",
		strings.NewReader(`{"type": "platform-engagement-tracker-export", "version": "1.0", "data": {}}`))
	if resp := decode[dto.ErrorResponse](t, rec); resp.Code != "INVALID_IMPORT_MODE" {
		t.Errorf("code = %q, want INVALID_IMPORT_MODE", resp.Code)
	}
}

func TestAPIConfigRedaction(t *testing.T) {
	env := newTestEnv(t)

	body := `{"youtube": {"api_key": "AIzaSySecretKey123"}}`
	rec := env.do(t, http.MethodPut, "/api/v1/config", strings.NewReader(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("put config status = %d", rec.Code)
	}
	saved := decode[model.APIConfig](t, rec)
	if strings.Contains(saved.YouTube.APIKey, "SecretKey") {
		t.Errorf("response leaked secret: %q", saved.YouTube.APIKey)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/config", nil)
	got := decode[model.APIConfig](t, rec)
	if strings.Contains(got.YouTube.APIKey, "SecretKey") {
		t.Errorf("GET leaked secret: %q", got.YouTube.APIKey)
	}
	if got.YouTube.APIKey == "" {
		t.Error("redacted key should still indicate presence")
	}

	// Export carries the real credential for backup purposes.
	rec = env.do(t, http.MethodGet, "/api/v1/export", nil)
	file := decode[model.ExportFile](t, rec)
	if file.Data.APIConfig.YouTube.APIKey != "AIzaSySecretKey123" {
		t.Errorf("export key = %q, want full value", file.Data.APIConfig.YouTube.APIKey)
	}
}

func TestPreferences(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/preferences",
		strings.NewReader(`{"dark_mode": true, "collapsed": {"platforms": true}}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("put preferences status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/preferences", nil)
	prefs := decode[model.Preferences](t, rec)
	if !prefs.DarkMode || !prefs.Collapsed["platforms"] {
		t.Errorf("preferences = %+v", prefs)
	}
}
