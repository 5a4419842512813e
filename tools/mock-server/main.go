// Package main implements a mock Anthropic Messages API server for local
// development. It serves canned listing analyses from JSON fixtures so the
// vision pipeline can run end to end without real API credentials or
// spending vision quota.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// analysisFixture maps SKUs to canned analysis JSON. Requests for a SKU
// not present in BySKU fall back to Default.
type analysisFixture struct {
	Default json.RawMessage            `json:"default"`
	BySKU   map[string]json.RawMessage `json:"by_sku"`
}

type messagesRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type   string `json:"type"`
			Text   string `json:"text"`
			Source *struct {
				MediaType string `json:"media_type"`
			} `json:"source"`
		} `json:"content"`
	} `json:"messages"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Model   string         `json:"model"`
	Usage   usage          `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/analysis_response.json", "path to analysis fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "skus", len(fixture.BySKU))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/messages", messagesHandler(logger, fixture))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock vision server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*analysisFixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fixture analysisFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if len(fixture.Default) == 0 {
		return nil, fmt.Errorf("fixture %s has no default analysis", path)
	}
	return &fixture, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func messagesHandler(logger *slog.Logger, fixture *analysisFixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Validate auth headers are present (don't verify the key).
		if r.Header.Get("x-api-key") == "" {
			logger.Warn("messages request missing x-api-key header")
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"type": "error",
				"error": map[string]string{
					"type":    "authentication_error",
					"message": "missing x-api-key header",
				},
			})
			return
		}
		if r.Header.Get("anthropic-version") == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"type": "error",
				"error": map[string]string{
					"type":    "invalid_request_error",
					"message": "missing anthropic-version header",
				},
			})
			return
		}

		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"type": "error",
				"error": map[string]string{
					"type":    "invalid_request_error",
					"message": "malformed request body",
				},
			})
			return
		}

		sku := extractSKU(&req)
		images := countImages(&req)

		analysis := fixture.Default
		if canned, ok := fixture.BySKU[sku]; ok {
			analysis = canned
		}

		writeJSON(w, http.StatusOK, messagesResponse{
			Content: []contentBlock{{Type: "text", Text: string(analysis)}},
			Model:   req.Model,
			Usage:   usage{InputTokens: 100 + images*1000, OutputTokens: 200},
		})
		logger.Info("served analysis", "sku", sku, "images", images, "canned", sku != "")
	}
}

// extractSKU pulls the SKU out of the "Item SKU: <sku>" line the analysis
// prompt embeds in its text block.
func extractSKU(req *messagesRequest) string {
	for _, m := range req.Messages {
		for _, block := range m.Content {
			if block.Type != "text" {
				continue
			}
			for _, line := range strings.Split(block.Text, "\n") {
				if rest, ok := strings.CutPrefix(line, "Item SKU:"); ok {
					return strings.TrimSpace(rest)
				}
			}
		}
	}
	return ""
}

func countImages(req *messagesRequest) int {
	n := 0
	for _, m := range req.Messages {
		for _, block := range m.Content {
			if block.Type == "image" {
				n++
			}
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(body)
}
