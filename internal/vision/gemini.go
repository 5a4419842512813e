package vision

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiBackend implements Backend using Google's Gemini API.
type GeminiBackend struct {
	apiKey string
	model  string
}

// GeminiOption configures the GeminiBackend.
type GeminiOption func(*GeminiBackend)

// WithGeminiModel overrides the default model.
func WithGeminiModel(model string) GeminiOption {
	return func(b *GeminiBackend) {
		b.model = model
	}
}

// WithGeminiAPIKey overrides the API key (instead of reading from env).
func WithGeminiAPIKey(key string) GeminiOption {
	return func(b *GeminiBackend) {
		b.apiKey = key
	}
}

// NewGeminiBackend creates a new Gemini API backend. The API key is read
// from the GEMINI_API_KEY environment variable if not provided via options.
func NewGeminiBackend(opts ...GeminiOption) *GeminiBackend {
	b := &GeminiBackend{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		model:  defaultGeminiModel,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*GeminiBackend) Name() string {
	return "gemini"
}

// Generate calls the Gemini API with the prompt and image parts.
func (b *GeminiBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	if b.apiKey == "" {
		return GenerateResponse{}, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(b.apiKey))
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("creating gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(b.model)
	if req.Temperature > 0 {
		model.SetTemperature(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.SystemMsg != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemMsg)},
		}
	}

	parts := make([]genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, genai.ImageData(geminiFormat(img.MIME), img.Data))
	}
	parts = append(parts, genai.Text(req.Prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return GenerateResponse{}, fmt.Errorf("no candidates returned from gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return GenerateResponse{}, fmt.Errorf("empty content returned from gemini")
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return GenerateResponse{}, fmt.Errorf("unexpected response format from gemini")
	}

	out := GenerateResponse{
		Content: string(txt),
		Model:   b.model,
	}
	if resp.UsageMetadata != nil {
		out.Usage = TokenUsage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

// geminiFormat converts a MIME type to the bare format name ImageData expects.
func geminiFormat(mimeType string) string {
	format, found := strings.CutPrefix(mimeType, "image/")
	if !found || format == "" {
		return "jpeg"
	}
	return format
}
