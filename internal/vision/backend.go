// Package vision provides AI image analysis for listing generation,
// abstracted behind interfaces for testability.
package vision

import (
	"context"

	"github.com/donaldgifford/relister/internal/images"
)

// GenerateRequest defines the input for a multimodal generation call.
type GenerateRequest struct {
	Prompt      string
	SystemMsg   string
	Images      []images.Image
	Temperature float64
	MaxTokens   int
}

// TokenUsage tracks model token consumption.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerateResponse holds the result of a generation call.
type GenerateResponse struct {
	Content string
	Model   string
	Usage   TokenUsage
}

// Backend defines the interface for multimodal model generation.
type Backend interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}
