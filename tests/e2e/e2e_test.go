//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

const sessionHeader = "X-Session-Id"

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Anonymous bool   `json:"anonymous"`
}

type contentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ContentID string `json:"content_id"`
}

type refreshResponse struct {
	Refreshed int            `json:"refreshed"`
	Sources   map[string]int `json:"sources"`
}

type dashboardResponse struct {
	TotalContent int    `json:"total_content"`
	TotalViews   int64  `json:"total_views"`
	Trend        string `json:"trend"`
}

// TestE2ESmoke walks the primary user journey against a running server:
// session, content registration, refresh, dashboard, export, import.
func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("PULSETRACK_BASE_URL", "http://localhost:8080")
	client := &http.Client{Timeout: 10 * time.Second}

	sessionID := createSession(t, client, baseURL)

	item := createContent(t, client, baseURL, sessionID, map[string]any{
		"name":     "Smoke test video",
		"platform": "youtube",
		"url":      fmt.Sprintf("https://www.youtube.com/watch?v=smoke%d", time.Now().Unix()%100000),
		"duration": "10:00",
	})
	if item.ContentID == "" {
		t.Fatalf("expected extracted content ID, got %+v", item)
	}

	// Duplicate submission conflicts.
	status, _ := do(t, client, http.MethodPost, baseURL+"/api/v1/content", sessionID, map[string]any{
		"name":     "Duplicate",
		"platform": "youtube",
		"url":      "https://youtube.com/watch?v=" + item.ContentID,
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate create status = %d, want 409", status)
	}

	// Refresh produces at least one engagement record.
	status, body := do(t, client, http.MethodPost, baseURL+"/api/v1/engagement/refresh", sessionID, nil)
	if status != http.StatusOK {
		t.Fatalf("refresh status = %d: %s", status, body)
	}
	var refresh refreshResponse
	mustDecode(t, body, &refresh)
	if refresh.Refreshed < 1 {
		t.Fatalf("refreshed = %d, want >= 1", refresh.Refreshed)
	}

	// Dashboard reflects the refreshed content.
	status, body = do(t, client, http.MethodGet, baseURL+"/api/v1/dashboard", sessionID, nil)
	if status != http.StatusOK {
		t.Fatalf("dashboard status = %d", status)
	}
	var dash dashboardResponse
	mustDecode(t, body, &dash)
	if dash.TotalContent < 1 || dash.TotalViews < 1 {
		t.Fatalf("dashboard = %+v, want non-zero totals", dash)
	}

	// Export, then import into a fresh session.
	status, export := do(t, client, http.MethodGet, baseURL+"/api/v1/export", sessionID, nil)
	if status != http.StatusOK {
		t.Fatalf("export status = %d", status)
	}

	otherSession := createSession(t, client, baseURL)
	status, body = doRaw(t, client, http.MethodPost, baseURL+"/api/v1/import?mode=replace", otherSession, export)
	if status != http.StatusOK {
		t.Fatalf("import status = %d: %s", status, body)
	}

	status, body = do(t, client, http.MethodGet, baseURL+"/api/v1/dashboard", otherSession, nil)
	if status != http.StatusOK {
		t.Fatalf("imported dashboard status = %d", status)
	}
	var imported dashboardResponse
	mustDecode(t, body, &imported)
	if imported.TotalContent != dash.TotalContent {
		t.Fatalf("imported total content = %d, want %d", imported.TotalContent, dash.TotalContent)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func createSession(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	status, body := do(t, client, http.MethodPost, baseURL+"/api/v1/sessions", "", nil)
	if status != http.StatusCreated {
		t.Fatalf("create session status = %d: %s", status, body)
	}
	var sess sessionResponse
	mustDecode(t, body, &sess)
	if sess.SessionID == "" {
		t.Fatal("empty session ID")
	}
	return sess.SessionID
}

func createContent(t *testing.T, client *http.Client, baseURL, sessionID string, payload map[string]any) contentResponse {
	t.Helper()
	status, body := do(t, client, http.MethodPost, baseURL+"/api/v1/content", sessionID, payload)
	if status != http.StatusCreated {
		t.Fatalf("create content status = %d: %s", status, body)
	}
	var item contentResponse
	mustDecode(t, body, &item)
	return item
}

func do(t *testing.T, client *http.Client, method, url, sessionID string, payload map[string]any) (int, []byte) {
	t.Helper()
	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	return doRaw(t, client, method, url, sessionID, raw)
}

func doRaw(t *testing.T, client *http.Client, method, url, sessionID string, raw []byte) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if raw != nil {
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, body
}

func mustDecode(t *testing.T, body []byte, dest any) {
	t.Helper()
	if err := json.Unmarshal(body, dest); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}
