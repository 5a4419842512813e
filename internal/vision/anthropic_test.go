package vision_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/relister/internal/images"
	"github.com/donaldgifford/relister/internal/vision"
)

func TestAnthropicBackend_Name(t *testing.T) {
	t.Parallel()
	b := vision.NewAnthropicBackend()
	assert.Equal(t, "anthropic", b.Name())
}

func TestAnthropicBackend_Generate(t *testing.T) {
	t.Parallel()

	successResponse := `{
		"content": [{"type": "text", "text": "{\"title\":\"Vintage Denim Jacket\"}"}],
		"model": "claude-sonnet-4-20250514",
		"usage": {"input_tokens": 1200, "output_tokens": 80}
	}`

	tests := []struct {
		name       string
		apiKey     string
		handler    http.HandlerFunc
		req        vision.GenerateRequest
		wantErr    bool
		wantErrMsg string
		wantResp   string
		wantUsage  int
	}{
		{
			name:   "successful generation with image blocks",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
				assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)

				var req map[string]any
				require.NoError(t, json.Unmarshal(body, &req))
				msgs := req["messages"].([]any)
				content := msgs[0].(map[string]any)["content"].([]any)
				// Two image blocks then one text block, in order.
				require.Len(t, content, 3)
				assert.Equal(t, "image", content[0].(map[string]any)["type"])
				assert.Equal(t, "image", content[1].(map[string]any)["type"])
				assert.Equal(t, "text", content[2].(map[string]any)["type"])

				src := content[0].(map[string]any)["source"].(map[string]any)
				assert.Equal(t, "base64", src["type"])
				assert.Equal(t, "image/jpeg", src["media_type"])

				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: vision.GenerateRequest{
				Prompt: "analyze this item",
				Images: []images.Image{
					{Data: []byte("front"), MIME: "image/jpeg"},
					{Data: []byte("back"), MIME: "image/png"},
				},
				Temperature: 0.2,
				MaxTokens:   1024,
			},
			wantResp:  `{"title":"Vintage Denim Jacket"}`,
			wantUsage: 1280,
		},
		{
			name:       "missing API key",
			apiKey:     "",
			handler:    func(_ http.ResponseWriter, _ *http.Request) {},
			req:        vision.GenerateRequest{Prompt: "analyze"},
			wantErr:    true,
			wantErrMsg: "ANTHROPIC_API_KEY",
		},
		{
			name:   "API error with structured body",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(
					`{"error": {"type": "rate_limit_error", "message": "slow down"}}`,
				))
			},
			req:        vision.GenerateRequest{Prompt: "analyze"},
			wantErr:    true,
			wantErrMsg: "rate_limit_error",
		},
		{
			name:   "empty content",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"content": [], "model": "m", "usage": {}}`))
			},
			req:        vision.GenerateRequest{Prompt: "analyze"},
			wantErr:    true,
			wantErrMsg: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			b := vision.NewAnthropicBackend(
				vision.WithAnthropicAPIKey(tt.apiKey),
				vision.WithAnthropicEndpoint(srv.URL),
			)

			resp, err := b.Generate(context.Background(), tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantResp, resp.Content)
			assert.Equal(t, tt.wantUsage, resp.Usage.TotalTokens)
		})
	}
}
