package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func loadTestFixture(t *testing.T) *analysisFixture {
	t.Helper()
	fixture, err := loadFixture(filepath.Join("testdata", "analysis_response.json"))
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return fixture
}

func messagesBody(t *testing.T, sku string, images int) *bytes.Reader {
	t.Helper()
	content := []map[string]any{
		{"type": "text", "text": "Analyze the product shown in the attached photos.\nItem SKU: " + sku + "\n\nRespond ONLY with a JSON object."},
	}
	for range images {
		content = append(content, map[string]any{
			"type":   "image",
			"source": map[string]any{"type": "base64", "media_type": "image/jpeg", "data": "aGVsbG8="},
		})
	}
	body, err := json.Marshal(map[string]any{
		"model":      "claude-sonnet-4-20250514",
		"max_tokens": 2048,
		"messages":   []map[string]any{{"role": "user", "content": content}},
	})
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	return bytes.NewReader(body)
}

func newMessagesRequest(t *testing.T, sku string, images int) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", messagesBody(t, sku, images))
	req.Header.Set("x-api-key", "test-key")
	req.Header.Set("anthropic-version", "2023-06-01")
	return req
}

func TestLoadFixture(t *testing.T) {
	fixture := loadTestFixture(t)
	if len(fixture.Default) == 0 {
		t.Fatal("expected a default analysis in fixture")
	}
	if len(fixture.BySKU) == 0 {
		t.Fatal("expected per-SKU analyses in fixture")
	}
}

func TestLoadFixture_MissingDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"by_sku":{}}`), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := loadFixture(path); err == nil {
		t.Fatal("expected error for fixture without default analysis")
	}
}

func TestMessagesHandler_MissingAPIKey(t *testing.T) {
	handler := messagesHandler(testLogger(), loadTestFixture(t))
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", messagesBody(t, "SNKR-001", 1))
	req.Header.Set("anthropic-version", "2023-06-01")
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusUnauthorized)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["type"] != "error" {
		t.Errorf("type=%v, want error", resp["type"])
	}
}

func TestMessagesHandler_MissingVersion(t *testing.T) {
	handler := messagesHandler(testLogger(), loadTestFixture(t))
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", messagesBody(t, "SNKR-001", 1))
	req.Header.Set("x-api-key", "test-key")
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestMessagesHandler_KnownSKU(t *testing.T) {
	handler := messagesHandler(testLogger(), loadTestFixture(t))
	w := httptest.NewRecorder()

	handler(w, newMessagesRequest(t, "SNKR-001", 2))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}

	var resp messagesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Content) != 1 || resp.Content[0].Type != "text" {
		t.Fatalf("expected a single text content block, got %+v", resp.Content)
	}

	var analysis map[string]any
	if err := json.Unmarshal([]byte(resp.Content[0].Text), &analysis); err != nil {
		t.Fatalf("analysis text is not valid JSON: %v", err)
	}
	if analysis["brand"] != "Nike" {
		t.Errorf("brand=%v, want Nike for SNKR-001", analysis["brand"])
	}
	if resp.Usage.InputTokens <= 100 {
		t.Errorf("input_tokens=%d, want image cost included", resp.Usage.InputTokens)
	}
}

func TestMessagesHandler_UnknownSKUFallsBack(t *testing.T) {
	fixture := loadTestFixture(t)
	handler := messagesHandler(testLogger(), fixture)
	w := httptest.NewRecorder()

	handler(w, newMessagesRequest(t, "NO-SUCH-SKU", 1))

	var resp messagesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Content[0].Text != string(fixture.Default) {
		t.Error("expected default analysis for unknown SKU")
	}
}

func TestMessagesHandler_MalformedBody(t *testing.T) {
	handler := messagesHandler(testLogger(), loadTestFixture(t))
	req := httptest.NewRequest(http.MethodPost, "/v1/messages", bytes.NewReader([]byte("{not json")))
	req.Header.Set("x-api-key", "test-key")
	req.Header.Set("anthropic-version", "2023-06-01")
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestExtractSKU(t *testing.T) {
	var req messagesRequest
	body := messagesBody(t, "ELEC-042", 1)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		t.Fatalf("decoding request: %v", err)
	}
	if got := extractSKU(&req); got != "ELEC-042" {
		t.Errorf("extractSKU=%q, want ELEC-042", got)
	}
	if got := countImages(&req); got != 1 {
		t.Errorf("countImages=%d, want 1", got)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
