package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/relister/internal/pipeline"
	domain "github.com/donaldgifford/relister/pkg/types"
)

// GenerationRunner defines the interface for running generation passes.
type GenerationRunner interface {
	RunAll(ctx context.Context, ownerID string) ([]pipeline.Result, error)
	RunSKU(ctx context.Context, ownerID, sku string) (pipeline.Result, error)
}

// GenerateHandler handles listing generation trigger requests.
type GenerateHandler struct {
	runner GenerationRunner
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(r GenerationRunner) *GenerateHandler {
	return &GenerateHandler{runner: r}
}

// --- Input/Output types ---

// GenerateAllInput is the input for a bulk generation pass.
type GenerateAllInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner scope, defaults to 'default'"`
}

// GenerateAllOutput is the response for a bulk generation pass.
type GenerateAllOutput struct {
	Body struct {
		Results   []pipeline.Result `json:"results"`
		Generated int               `json:"generated" doc:"Candidates that reached ready"`
		Failed    int               `json:"failed"    doc:"Candidates that need attention"`
	}
}

// GenerateSKUInput is the input for generating a single candidate.
type GenerateSKUInput struct {
	OwnerID string `header:"X-Owner-ID" doc:"Owner scope, defaults to 'default'"`
	SKU     string `path:"sku"          doc:"Grouping identifier of the candidate"`
}

// GenerateSKUOutput is the response for generating a single candidate.
type GenerateSKUOutput struct {
	Body pipeline.Result
}

// --- Handlers ---

// GenerateAll runs one generation pass over every eligible candidate.
// Individual failures are reported per candidate, never aborting the pass.
func (h *GenerateHandler) GenerateAll(
	ctx context.Context,
	input *GenerateAllInput,
) (*GenerateAllOutput, error) {
	results, err := h.runner.RunAll(ctx, ownerOrDefault(input.OwnerID))
	if err != nil && len(results) == 0 {
		return nil, huma.Error500InternalServerError("generation pass failed: " + err.Error())
	}

	resp := &GenerateAllOutput{}
	resp.Body.Results = results
	for _, r := range results {
		switch r.Status {
		case domain.ItemReady:
			resp.Body.Generated++
		case domain.ItemNeedsAttention:
			resp.Body.Failed++
		}
	}

	return resp, nil
}

// GenerateSKU generates the single candidate identified by SKU.
func (h *GenerateHandler) GenerateSKU(
	ctx context.Context,
	input *GenerateSKUInput,
) (*GenerateSKUOutput, error) {
	result, err := h.runner.RunSKU(ctx, ownerOrDefault(input.OwnerID), input.SKU)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrCandidateNotFound):
			return nil, huma.Error404NotFound("no candidate for sku " + input.SKU)
		case errors.Is(err, pipeline.ErrNotGeneratable):
			return nil, huma.Error409Conflict(err.Error())
		default:
			return nil, huma.Error500InternalServerError("generation failed: " + err.Error())
		}
	}

	return &GenerateSKUOutput{Body: result}, nil
}

// RegisterGenerateRoutes registers generation endpoints with the Huma API.
func RegisterGenerateRoutes(api huma.API, h *GenerateHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "generate-all",
		Method:      http.MethodPost,
		Path:        "/api/v1/generate",
		Summary:     "Generate all eligible listings",
		Description: "Runs one generation pass over every candidate in not_started or needs_attention.",
		Tags:        []string{"generation"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.GenerateAll)

	huma.Register(api, huma.Operation{
		OperationID: "generate-sku",
		Method:      http.MethodPost,
		Path:        "/api/v1/generate/{sku}",
		Summary:     "Generate one listing by SKU",
		Description: "Generates the candidate for a single photo group.",
		Tags:        []string{"generation"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, h.GenerateSKU)
}
